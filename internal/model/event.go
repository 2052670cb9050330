// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds the shared vocabulary of the application: event log
// levels and categories, submission kinds and statuses, and admin roles.
package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth       = "auth"
	EventCategoryContent    = "content"
	EventCategorySubmission = "submission"
	EventCategoryMail       = "mail"
	EventCategoryUser       = "user"
	EventCategorySystem     = "system"
)
