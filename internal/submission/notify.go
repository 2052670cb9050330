// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package submission

import (
	"github.com/olegiv/sitedesk/internal/mail"
	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
)

func formNotification(s store.Submission) mail.Notification {
	n := mail.Notification{ReplyTo: s.Email}
	switch s.Type {
	case model.KindNewsletter:
		n.Subject = "Yeni abunəçi"
		n.Title = "Bülletenə yeni abunə"
	default:
		n.Subject = "Yeni əlaqə mesajı"
		if s.Subject != "" {
			n.Subject += ": " + s.Subject
		}
		n.Title = "Əlaqə formasından yeni mesaj"
	}

	n.Fields = nonEmpty(
		mail.Field{Label: "Ad", Value: s.Name},
		mail.Field{Label: "E-poçt", Value: s.Email},
		mail.Field{Label: "Telefon", Value: s.Phone},
		mail.Field{Label: "Mövzu", Value: s.Subject},
		mail.Field{Label: "Mesaj", Value: s.Message},
		mail.Field{Label: "Kurs", Value: s.CourseID},
		mail.Field{Label: "Tarix", Value: s.CreatedAtDisplay},
	)
	return n
}

func courseNotification(r store.CourseRequest, in Input) mail.Notification {
	course := r.CourseID
	if in.CourseTitle != "" {
		course = in.CourseTitle + " (" + r.CourseID + ")"
	}
	return mail.Notification{
		Subject: "Yeni kurs müraciəti: " + course,
		Title:   "Kursa yeni müraciət",
		ReplyTo: r.Email,
		Fields: nonEmpty(
			mail.Field{Label: "Ad", Value: r.FullName},
			mail.Field{Label: "E-poçt", Value: r.Email},
			mail.Field{Label: "Telefon", Value: in.Phone},
			mail.Field{Label: "Kurs", Value: course},
			mail.Field{Label: "Tarix", Value: r.CreatedAtDisplay},
		),
	}
}

func nonEmpty(fields ...mail.Field) []mail.Field {
	out := fields[:0]
	for _, f := range fields {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}
