// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package submission

import (
	"github.com/olegiv/sitedesk/internal/store"
)

// ValidationError reports missing or malformed input. Nothing was stored.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError reports a duplicate course request; Existing is the stored row.
type ConflictError struct {
	Existing store.CourseRequest
}

func (e *ConflictError) Error() string {
	return "course request already exists"
}

// DeliveryError reports that the notification could not be sent and the
// submission was removed again.
type DeliveryError struct {
	Reason string
}

func (e *DeliveryError) Error() string {
	return "notification not delivered: " + e.Reason
}
