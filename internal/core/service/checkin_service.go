package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindmax/mood-journal/internal/api/metrics"
	"github.com/mindmax/mood-journal/internal/core/domain"
	"github.com/mindmax/mood-journal/internal/core/ports"
)

const (
	claimAttempts = 40
	claimWait     = 50 * time.Millisecond
)

type CheckInService struct {
	repo        ports.CheckInRepository
	idempotency ports.IdempotencyStore // optional
	logger      zerolog.Logger
	now         func() time.Time

	claimAttempts int
	claimWait     time.Duration
}

// NewCheckInService wires the check-in use cases. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewCheckInService(repo ports.CheckInRepository, idempotency ports.IdempotencyStore, logger zerolog.Logger) *CheckInService {
	return &CheckInService{
		repo:          repo,
		idempotency:   idempotency,
		logger:        logger,
		now:           time.Now,
		claimAttempts: claimAttempts,
		claimWait:     claimWait,
	}
}

func (s *CheckInService) List(ctx context.Context, userID string) ([]domain.CheckIn, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	if list == nil {
		list = []domain.CheckIn{}
	}
	return list, nil
}

// Add validates and stores a new check-in owned by in.UserID. When an
// idempotency key is supplied the key is claimed before the write, so
// concurrent submissions with the same key create at most one check-in; the
// others get the original back.
func (s *CheckInService) Add(ctx context.Context, in ports.AddCheckInInput) (*ports.CheckInResult, error) {
	ts := s.now()
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}

	c := domain.CheckIn{
		Mood:      domain.Mood(in.Mood),
		Intensity: in.Intensity,
		Notes:     in.Notes,
		Timestamp: domain.NormalizeTimestamp(ts),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	claimed := false
	if in.IdempotencyKey != "" && s.idempotency != nil {
		replay, ok, err := s.claim(ctx, in)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replay, nil
		}
		claimed = ok
	}

	created, err := s.repo.Add(ctx, in.UserID, c)
	if err != nil {
		if claimed {
			if rerr := s.idempotency.Release(context.WithoutCancel(ctx), in.UserID, in.IdempotencyKey); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to create check-in")
		return nil, fmt.Errorf("add check-in: %w", err)
	}

	if claimed {
		if err := s.idempotency.Complete(context.WithoutCancel(ctx), in.UserID, in.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	metrics.CheckInsCreatedTotal.WithLabelValues(string(created.Mood)).Inc()
	s.logger.Info().Str("user_id", in.UserID).Str("checkin_id", created.ID).Msg("check-in created")

	return &ports.CheckInResult{CheckIn: *created}, nil
}

// claim either returns the check-in an earlier request made with the same key,
// or reports whether this request now holds the key. While another holder is
// still writing, claim waits for it. An unavailable store degrades to a plain
// create.
func (s *CheckInService) claim(ctx context.Context, in ports.AddCheckInInput) (*ports.CheckInResult, bool, error) {
	for attempt := 1; ; attempt++ {
		id, reserved, err := s.idempotency.Reserve(ctx, in.UserID, in.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency store unavailable, creating anyway")
			return nil, false, nil
		}
		if reserved {
			return nil, true, nil
		}

		if id != "" {
			existing, err := s.repo.FindByID(ctx, in.UserID, id)
			if err != nil {
				return nil, false, fmt.Errorf("idempotent replay: %w", err)
			}
			if existing == nil {
				// Deleted since; the key no longer points anywhere.
				return nil, false, nil
			}
			metrics.CheckInsReplayedTotal.Inc()
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("checkin_id", existing.ID).Msg("idempotent replay")
			return &ports.CheckInResult{CheckIn: *existing, AlreadyExisted: true}, false, nil
		}

		if attempt >= s.claimAttempts {
			return nil, false, domain.ErrIdempotencyBusy
		}
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(s.claimWait):
		}
	}
}

// Delete removes the caller's check-in. Missing and foreign records both yield
// domain.ErrCheckInNotFound.
func (s *CheckInService) Delete(ctx context.Context, userID, id string) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete check-in: %w", err)
	}
	if !ok {
		return domain.ErrCheckInNotFound
	}

	metrics.CheckInsDeletedTotal.Inc()
	s.logger.Info().Str("user_id", userID).Str("checkin_id", id).Msg("check-in deleted")
	return nil
}

func (s *CheckInService) Stats(ctx context.Context, userID string) (domain.Stats, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return domain.ComputeStats(list), nil
}
