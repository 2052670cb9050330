// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

// SiteContent is the single stored content document row.
type SiteContent struct {
	ID        string
	Payload   string
	UpdatedAt string
}

// CourseRequest is a visitor's request to join a course.
type CourseRequest struct {
	ID               int64
	Email            string
	PasswordHash     string
	CourseID         string
	FullName         string
	Status           string
	CreatedAtDisplay string
	CreatedAt        string
	UpdatedAt        string
}

// Submission is a contact message or newsletter signup.
type Submission struct {
	ID               string
	Type             string
	Name             string
	Email            string
	Phone            string
	Subject          string
	Message          string
	CourseID         string
	Status           string
	CreatedAtDisplay string
	CreatedAt        string
	UpdatedAt        string
}

// AdminUser is an account allowed to use the admin panel.
type AdminUser struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	DisplayName  string
	IsActive     bool
	CreatedAt    string
	UpdatedAt    string
}

// AdminSession maps a hashed bearer token to a user.
type AdminSession struct {
	TokenHash string
	UserID    int64
	CreatedAt string
}

// Event is an event log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt string
}
