package filestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

// checkInRecord is the on-disk shape of a check-in.
type checkInRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Mood      string    `json:"mood"`
	Intensity int       `json:"intensity"`
	Notes     string    `json:"notes"`
	Timestamp string `json:"timestamp"`
}

// toDomain tolerates timestamps written without fixed millisecond width.
// An unparsable timestamp yields the zero time rather than failing the read.
func (r checkInRecord) toDomain() domain.CheckIn {
	ts, _ := domain.ParseTimestamp(r.Timestamp)
	return domain.CheckIn{
		ID:        r.ID,
		UserID:    r.UserID,
		Mood:      domain.Mood(r.Mood),
		Intensity: r.Intensity,
		Notes:     r.Notes,
		Timestamp: ts,
	}
}

// CheckInRepository implements ports.CheckInRepository on top of checkins.json.
type CheckInRepository struct {
	col *collection[checkInRecord]
}

// ListByUser returns userID's check-ins ordered by timestamp; equal timestamps
// keep insertion order.
func (r *CheckInRepository) ListByUser(_ context.Context, userID string) ([]domain.CheckIn, error) {
	out := []domain.CheckIn{}
	err := r.col.view(func(records []checkInRecord) error {
		for _, rec := range records {
			if rec.UserID == userID {
				out = append(out, rec.toDomain())
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Add persists c as owned by userID. Any UserID or ID on c is overwritten.
func (r *CheckInRepository) Add(_ context.Context, userID string, c domain.CheckIn) (*domain.CheckIn, error) {
	if userID == "" {
		return nil, fmt.Errorf("add check-in: empty user id")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}

	rec := checkInRecord{
		ID:        newID(),
		UserID:    userID,
		Mood:      string(c.Mood),
		Intensity: c.Intensity,
		Notes:     c.Notes,
		Timestamp: domain.FormatTimestamp(c.Timestamp),
	}

	err := r.col.update(func(records []checkInRecord) ([]checkInRecord, bool, error) {
		return append(records, rec), true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("add check-in: %w", err)
	}

	created := rec.toDomain()
	return &created, nil
}

func (r *CheckInRepository) FindByID(_ context.Context, userID, id string) (*domain.CheckIn, error) {
	var found *domain.CheckIn
	err := r.col.view(func(records []checkInRecord) error {
		for _, rec := range records {
			if rec.ID == id && rec.UserID == userID {
				c := rec.toDomain()
				found = &c
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find check-in: %w", err)
	}
	return found, nil
}

// Delete removes the record only when both id and owner match.
func (r *CheckInRepository) Delete(_ context.Context, userID, id string) (bool, error) {
	deleted := false
	err := r.col.update(func(records []checkInRecord) ([]checkInRecord, bool, error) {
		for i, rec := range records {
			if rec.ID == id && rec.UserID == userID {
				deleted = true
				return append(records[:i], records[i+1:]...), true, nil
			}
		}
		return records, false, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete check-in: %w", err)
	}
	return deleted, nil
}
