// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
)

// DocumentID is the fixed key of the content row.
const DocumentID = "sitemap"

// Store is the single owner of the content document. Every read goes to the
// database; callers must not keep a document across requests.
//
// The database row is the source of truth. Both mirror files are rewritten on
// every save. When a mirror write fails after the row was committed the store
// marks the mirrors stale, and the next Get (or ReconcileMirrors) writes them again.
type Store struct {
	queries *store.Queries
	mirrors [2]string
	logger  *slog.Logger
	now     func() time.Time
	stale   atomic.Bool
}

// NewStore creates a Store persisting to db and mirroring to the two paths.
func NewStore(db *sql.DB, mirrors [2]string, logger *slog.Logger) *Store {
	return &Store{
		queries: store.New(db),
		mirrors: mirrors,
		logger:  logger,
		now:     time.Now,
	}
}

// Mirrors returns the two mirror file paths.
func (s *Store) Mirrors() [2]string {
	return s.mirrors
}

// Get returns the canonical document and the time it was last saved.
// On first use it seeds the row from the legacy mirror files.
func (s *Store) Get(ctx context.Context) (Document, time.Time, error) {
	row, err := s.queries.GetContent(ctx, DocumentID)
	if errors.Is(err, sql.ErrNoRows) {
		return s.bootstrap(ctx)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading content: %w", err)
	}

	doc, ok := s.parsePayload(row.Payload)
	updatedAt, err := store.ParseTimestamp(row.UpdatedAt)
	if err != nil {
		s.logger.Warn("content row has an unparseable timestamp", "category", model.EventCategoryContent, "updated_at", row.UpdatedAt)
	}

	// A corrupt row must never overwrite the mirrors; they may be the last good copy.
	if ok && s.stale.Load() {
		s.resyncMirrors(doc)
	}

	return doc, updatedAt, nil
}

// Save replaces the stored document wholesale and rewrites both mirrors.
// A mirror failure is logged and left for the next Get to repair; it does not
// fail the save because the row is already committed.
func (s *Store) Save(ctx context.Context, doc Document) (time.Time, error) {
	doc = Normalize(doc)

	data, err := Encode(doc)
	if err != nil {
		return time.Time{}, err
	}

	updatedAt := s.now().UTC().Truncate(time.Millisecond)
	if err := s.queries.UpsertContent(ctx, store.UpsertContentParams{
		ID:        DocumentID,
		Payload:   string(bytes.TrimSuffix(data, []byte("\n"))),
		UpdatedAt: store.FormatTimestamp(updatedAt),
	}); err != nil {
		return time.Time{}, fmt.Errorf("saving content: %w", err)
	}

	if err := s.writeMirrors(data); err != nil {
		s.stale.Store(true)
		s.logger.Warn("content mirror write failed, will retry on next read",
			"category", model.EventCategoryContent,
			"error", err,
		)
	} else {
		s.stale.Store(false)
	}

	return updatedAt, nil
}

// ReconcileMirrors rewrites any mirror file whose bytes differ from the stored
// row. It returns the number of files rewritten. A corrupt row leaves the
// mirrors untouched.
func (s *Store) ReconcileMirrors(ctx context.Context) (int, error) {
	row, err := s.queries.GetContent(ctx, DocumentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading content: %w", err)
	}

	doc, ok := s.parsePayload(row.Payload)
	if !ok {
		s.logger.Warn("stored content is corrupt, leaving mirrors untouched", "category", model.EventCategoryContent)
		return 0, nil
	}

	data, err := Encode(doc)
	if err != nil {
		return 0, err
	}

	rewritten := 0
	var errs []error
	for _, path := range s.mirrors {
		current, err := os.ReadFile(path)
		if err == nil && bytes.Equal(current, data) {
			continue
		}
		if err := writeFileAtomic(path, data); err != nil {
			errs = append(errs, err)
			continue
		}
		rewritten++
	}

	if err := errors.Join(errs...); err != nil {
		s.stale.Store(true)
		return rewritten, err
	}
	s.stale.Store(false)
	return rewritten, nil
}

// bootstrap seeds the content row from the first readable mirror file.
func (s *Store) bootstrap(ctx context.Context) (Document, time.Time, error) {
	var raw any
	for _, path := range s.mirrors {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("skipping unreadable legacy content file", "category", model.EventCategoryContent, "path", path, "error", err)
			}
			continue
		}
		v, err := Decode(data)
		if err != nil {
			s.logger.Warn("skipping unparseable legacy content file", "category", model.EventCategoryContent, "path", path, "error", err)
			continue
		}
		s.logger.Info("seeding content from legacy file", "path", path)
		raw = v
		break
	}

	doc := Normalize(raw)
	updatedAt, err := s.Save(ctx, doc)
	if err != nil {
		return nil, time.Time{}, err
	}
	return doc, updatedAt, nil
}

// parsePayload decodes a stored payload. Corruption yields an empty document
// and ok == false.
func (s *Store) parsePayload(payload string) (doc Document, ok bool) {
	v, err := Decode([]byte(payload))
	if err != nil {
		s.logger.Warn("stored content is corrupt, serving empty document", "category", model.EventCategoryContent, "error", err)
		return Normalize(nil), false
	}
	return Normalize(v), true
}

func (s *Store) resyncMirrors(doc Document) {
	data, err := Encode(doc)
	if err != nil {
		return
	}
	if err := s.writeMirrors(data); err != nil {
		s.logger.Warn("content mirror resync failed", "category", model.EventCategoryContent, "error", err)
		return
	}
	s.stale.Store(false)
	s.logger.Info("content mirrors resynced")
}

// writeMirrors writes data to both mirror paths, attempting both even if one fails.
func (s *Store) writeMirrors(data []byte) error {
	var errs []error
	for _, path := range s.mirrors {
		if err := writeFileAtomic(path, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
