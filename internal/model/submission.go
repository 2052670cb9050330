// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Submission kinds.
const (
	KindCourse     = "course"
	KindContact    = "contact"
	KindNewsletter = "newsletter"
)

// Submission statuses. New rows always start as StatusPending.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusContacted = "contacted"
	StatusArchived  = "archived"
)

// ValidStatuses lists the statuses an admin may assign.
var ValidStatuses = []string{StatusPending, StatusApproved, StatusRejected, StatusContacted, StatusArchived}

// IsValidKind reports whether kind is a known submission kind.
func IsValidKind(kind string) bool {
	switch kind {
	case KindCourse, KindContact, KindNewsletter:
		return true
	}
	return false
}

// IsValidStatus reports whether status may be assigned to a submission.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
