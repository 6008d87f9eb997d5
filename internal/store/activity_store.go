package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edulife/edulife-admin/internal/domain"
)

// timeLayout is how created_at is written; it sorts lexically.
const timeLayout = "2006-01-02 15:04:05"

type ActivityStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db, now: time.Now}
}

func (s *ActivityStore) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	createdAt := s.now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (action, entity, entity_id, summary, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.Action, a.Entity, a.EntityID, a.Summary, a.Actor, createdAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	created := *a
	created.ID = id
	created.CreatedAt = createdAt.Truncate(time.Second)
	return &created, nil
}

// ListRecent returns up to limit activities, newest first.
func (s *ActivityStore) ListRecent(ctx context.Context, limit int) ([]*domain.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, entity, entity_id, summary, actor, created_at
		FROM activities ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		a := &domain.Activity{}
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Action, &a.Entity, &a.EntityID, &a.Summary, &a.Actor, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.CreatedAt = parseTime(createdAt)
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}

// DeleteOlderThan removes activities created before cutoff and returns how
// many were removed.
func (s *ActivityStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM activities WHERE created_at < ?
	`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune activities: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// parseTime reads created_at, which the driver may hand back in RFC 3339
// form for DATETIME columns.
func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
