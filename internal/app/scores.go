package service

import (
	"context"
	"errors"

	repository "github.com/okian/bakeoff/internal/adapters/repository"
	"github.com/okian/bakeoff/internal/domain/errs"
	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/internal/domain/scoring"
	"github.com/okian/bakeoff/pkg/logger"
	"github.com/okian/bakeoff/pkg/metrics"
)

// rejectionReason labels a rejected admission for metrics.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrEliminatedContestant):
		return "eliminated"
	case errors.Is(err, errs.ErrDuplicateWinner):
		return "duplicate_winner"
	case errors.Is(err, errs.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrValidation):
		return "validation"
	default:
		return "storage"
	}
}

func (s *Service) rejectScore(ctx context.Context, op string, err error) error {
	metrics.RecordScoreRejected(rejectionReason(err))
	return s.fail(ctx, op, err)
}

// admissible runs the admission contract for a score of category awarded to
// contestantID in week and returns its points. Rows with id editing are
// ignored by the single-winner check. Must be called with writeMu held.
func (s *Service) admissible(ctx context.Context, op string, editing uint, week int, contestantID uint, category model.Category) (int, error) {
	// Request shape is checked before any lookup, so a bad category wins over a missing contestant.
	if week < 1 || week > s.seasonWeeks {
		return 0, errs.Newf(op, errs.ErrValidation, "week must be in 1..%d, got %d", s.seasonWeeks, week)
	}
	points, err := scoring.PointsFor(category)
	if err != nil {
		return 0, errs.Wrap(op, errs.ErrUnknownCategory, err)
	}
	contestant, err := s.store.GetContestant(ctx, contestantID)
	if err != nil {
		return 0, err
	}
	if !scoring.CanScore(contestant, week) {
		return 0, errs.Newf(op, errs.ErrEliminatedContestant,
			"%s was eliminated in week %d and cannot score in week %d",
			contestant.Name, *contestant.EliminatedWeek, week)
	}
	if scoring.IsSingleWinner(category) {
		held, err := s.store.ListScores(ctx, repository.ScoreFilter{Week: week, Category: category})
		if err != nil {
			return 0, err
		}
		for _, w := range held {
			if w.ID != editing {
				return 0, errs.Newf(op, errs.ErrDuplicateWinner,
					"%s already awarded in week %d (score %d)", category, week, w.ID)
			}
		}
	}
	return points, nil
}

// AdmitScore awards category to a contestant for week and rebuilds the season.
func (s *Service) AdmitScore(ctx context.Context, week int, contestantID uint, category model.Category) (model.WeeklyScore, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.admitLocked(ctx, week, contestantID, category, "")
}

// AdmitScoreIdempotent behaves like AdmitScore, but a repeated non-empty key
// returns the score admitted the first time. replayed reports that case.
// Reusing a key for a different week, contestant or category is a Validation error.
func (s *Service) AdmitScoreIdempotent(ctx context.Context, key string, week int, contestantID uint, category model.Category) (score model.WeeklyScore, replayed bool, err error) {
	const op = "service.admit_score"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if key != "" {
		if id, ok := s.deduper.Lookup(ctx, key); ok {
			prior, err := s.store.GetScore(ctx, id)
			switch {
			case err == nil:
				if prior.Week != week || prior.ContestantID != contestantID || prior.Category != category {
					return model.WeeklyScore{}, false, s.rejectScore(ctx, op, errs.Newf(op, errs.ErrValidation,
						"idempotency key %q already admitted score %d with different content", key, id))
				}
				metrics.RecordIdempotentReplay()
				s.logger.Debug(ctx, "idempotent replay",
					logger.String("key", key), logger.Uint("scoreID", id))
				return prior, true, nil
			case errors.Is(err, errs.ErrNotFound):
				s.deduper.Forget(ctx, id)
			default:
				return model.WeeklyScore{}, false, s.fail(ctx, op, err)
			}
		}
	}
	score, err = s.admitLocked(ctx, week, contestantID, category, key)
	return score, false, err
}

func (s *Service) admitLocked(ctx context.Context, week int, contestantID uint, category model.Category, key string) (model.WeeklyScore, error) {
	const op = "service.admit_score"
	points, err := s.admissible(ctx, op, 0, week, contestantID, category)
	if err != nil {
		return model.WeeklyScore{}, s.rejectScore(ctx, op, err)
	}

	score := model.WeeklyScore{Week: week, ContestantID: contestantID, Category: category, Points: points}
	if err := s.store.CreateScore(ctx, &score); err != nil {
		return model.WeeklyScore{}, s.fail(ctx, op, err)
	}
	err = s.rebuildOrUndo(ctx, op, func(ctx context.Context) error {
		return s.store.DeleteScore(ctx, score.ID)
	})
	if err != nil {
		return model.WeeklyScore{}, err
	}

	if key != "" {
		s.deduper.Record(ctx, key, score.ID)
	}
	metrics.RecordScoreAdmitted()
	s.logger.Info(ctx, "score admitted",
		logger.Uint("scoreID", score.ID),
		logger.Int("week", week),
		logger.Uint("contestantID", contestantID),
		logger.String("category", string(category)),
		logger.Int("points", points),
	)
	return score, nil
}

// rebuildOrUndo rebuilds the season after a score write. When the rebuild
// fails, undo reverts the write so the caller can retry the whole operation
// against unchanged scores and season totals.
func (s *Service) rebuildOrUndo(ctx context.Context, op string, undo func(context.Context) error) error {
	_, err := s.recalculateLocked(ctx)
	if err == nil {
		return nil
	}
	if uerr := undo(ctx); uerr != nil {
		s.logger.Error(ctx, "score write kept after failed season rebuild",
			logger.String("op", op), logger.Error(uerr))
	}
	return err
}

// UpdateScore rewrites a score in place under the admission contract and
// rebuilds the season.
func (s *Service) UpdateScore(ctx context.Context, scoreID uint, week int, contestantID uint, category model.Category) (model.WeeklyScore, error) {
	const op = "service.update_score"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prior, err := s.store.GetScore(ctx, scoreID)
	if err != nil {
		return model.WeeklyScore{}, s.rejectScore(ctx, op, err)
	}
	points, err := s.admissible(ctx, op, scoreID, week, contestantID, category)
	if err != nil {
		return model.WeeklyScore{}, s.rejectScore(ctx, op, err)
	}

	score := model.WeeklyScore{ID: scoreID, Week: week, ContestantID: contestantID, Category: category, Points: points}
	if err := s.store.UpdateScore(ctx, &score); err != nil {
		return model.WeeklyScore{}, s.fail(ctx, op, err)
	}
	err = s.rebuildOrUndo(ctx, op, func(ctx context.Context) error {
		return s.store.UpdateScore(ctx, &prior)
	})
	if err != nil {
		return model.WeeklyScore{}, err
	}

	metrics.RecordScoreUpdated()
	s.logger.Info(ctx, "score updated",
		logger.Uint("scoreID", scoreID),
		logger.Int("week", week),
		logger.String("category", string(category)),
	)
	return score, nil
}

// DeleteScore removes a score and rebuilds the season.
func (s *Service) DeleteScore(ctx context.Context, scoreID uint) error {
	const op = "service.delete_score"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.DeleteScore(ctx, scoreID); err != nil {
		return s.fail(ctx, op, err)
	}
	s.deduper.Forget(ctx, scoreID)
	metrics.RecordScoreDeleted()
	s.logger.Info(ctx, "score deleted", logger.Uint("scoreID", scoreID))

	_, err := s.recalculateLocked(ctx)
	return err
}

// GetScore returns one weekly score.
func (s *Service) GetScore(ctx context.Context, scoreID uint) (model.WeeklyScore, error) {
	score, err := s.store.GetScore(ctx, scoreID)
	if err != nil {
		return model.WeeklyScore{}, s.fail(ctx, "service.get_score", err)
	}
	return score, nil
}

// ListScores returns weekly scores in admission order. week 0 lists every week.
func (s *Service) ListScores(ctx context.Context, week int) ([]model.WeeklyScore, error) {
	const op = "service.list_scores"
	if week < 0 {
		return nil, s.fail(ctx, op, errs.Newf(op, errs.ErrValidation, "week must not be negative"))
	}
	scores, err := s.store.ListScores(ctx, repository.ScoreFilter{Week: week})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return scores, nil
}
