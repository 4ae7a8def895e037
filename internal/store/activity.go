package store

import (
	"context"
	"time"

	"github.com/vitrinecms/vitrine/internal/model"
)

// AppendActivity records one audit entry. Callers treat failures as
// best-effort: the middleware that invokes this swallows the error after
// logging it operationally.
func (s *Store) AppendActivity(ctx context.Context, entry *model.ActivityEntry) error {
	entry.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO activity_log
		(admin_id, username, action, entity, entity_id, region, detail, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := s.insertID(ctx, q,
		entry.AdminID, entry.Username, entry.Action, entry.Entity, entry.EntityID,
		entry.Region, entry.Detail, entry.IPAddress, entry.CreatedAt)
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

// ListActivity returns audit entries newest-first with limit/offset paging.
func (s *Store) ListActivity(ctx context.Context, limit, offset int) ([]model.ActivityEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var entries []model.ActivityEntry
	err := s.db.SelectContext(ctx, &entries,
		s.db.Rebind(`SELECT * FROM activity_log ORDER BY id DESC LIMIT ? OFFSET ?`),
		limit, offset)
	return entries, err
}

// CountActivity returns the total number of audit entries.
func (s *Store) CountActivity(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM activity_log`)
	return count, err
}
