package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/okian/bakeoff/internal/domain/errs"
	"github.com/okian/bakeoff/internal/domain/model"
)

// SQL drivers accepted by OpenSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const insertBatchSize = 500

// SQLStore persists league entities through GORM on SQLite or PostgreSQL.
// Cascades are issued explicitly inside transactions so both engines behave
// the same whether or not foreign keys are enforced.
type SQLStore struct {
	db *gorm.DB
}

var _ Store = (*SQLStore)(nil)

// OpenSQL connects to driver at dsn and migrates the schema.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	const op = "repository.open_sql"
	o := newOptions(opts...)

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, errs.Newf(op, errs.ErrValidation, "unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: o.clock,
		Logger:  newGormLogger(o.log, o.slowQuery),
	})
	if err != nil {
		return nil, storageErr(op, err)
	}
	if driver == DriverSQLite {
		// One connection keeps writers from tripping over SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, storageErr(op, err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s := &SQLStore{db: db}
	if err := migrate(ctx, db, o.log); err != nil {
		_ = s.Close()
		return nil, storageErr(op, err)
	}
	return s, nil
}

func (s *SQLStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func lookupErr(op, entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(op, entity, id)
	}
	return storageErr(op, err)
}

func (s *SQLStore) CreatePlayer(ctx context.Context, p *model.Player) error {
	p.ID = 0
	return storageErr("repository.create_player", s.conn(ctx).Create(p).Error)
}

func (s *SQLStore) GetPlayer(ctx context.Context, id uint) (model.Player, error) {
	var p model.Player
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return model.Player{}, lookupErr("repository.get_player", "player", id, err)
	}
	return p, nil
}

func (s *SQLStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	var out []model.Player
	if err := s.conn(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storageErr("repository.list_players", err)
	}
	return out, nil
}

func (s *SQLStore) UpdatePlayer(ctx context.Context, p *model.Player) error {
	const op = "repository.update_player"
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.Player
		if err := tx.First(&cur, p.ID).Error; err != nil {
			return lookupErr(op, "player", p.ID, err)
		}
		if err := tx.Model(&cur).Updates(map[string]any{
			"name":      p.Name,
			"team_name": p.TeamName,
		}).Error; err != nil {
			return storageErr(op, err)
		}
		if err := tx.First(p, p.ID).Error; err != nil {
			return storageErr(op, err)
		}
		return nil
	})
}

func (s *SQLStore) DeletePlayer(ctx context.Context, id uint) error {
	const op = "repository.delete_player"
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Player{}, id)
		if res.Error != nil {
			return storageErr(op, res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(op, "player", id)
		}
		if err := tx.Where("player_id = ?", id).Delete(&model.Team{}).Error; err != nil {
			return storageErr(op, err)
		}
		if err := tx.Where("player_id = ?", id).Delete(&model.SeasonTotal{}).Error; err != nil {
			return storageErr(op, err)
		}
		return nil
	})
}

func nameTaken(tx *gorm.DB, name string, except uint) (bool, error) {
	var n int64
	err := tx.Model(&model.Contestant{}).Where("name = ? AND id <> ?", name, except).Count(&n).Error
	return n > 0, err
}

func (s *SQLStore) CreateContestant(ctx context.Context, c *model.Contestant) error {
	const op = "repository.create_contestant"
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, c.Name, 0)
		if err != nil {
			return storageErr(op, err)
		}
		if taken {
			return duplicateName(op, c.Name)
		}
		c.ID = 0
		return storageErr(op, tx.Create(c).Error)
	})
}

func (s *SQLStore) GetContestant(ctx context.Context, id uint) (model.Contestant, error) {
	var c model.Contestant
	if err := s.conn(ctx).First(&c, id).Error; err != nil {
		return model.Contestant{}, lookupErr("repository.get_contestant", "contestant", id, err)
	}
	return c, nil
}

func (s *SQLStore) ListContestants(ctx context.Context) ([]model.Contestant, error) {
	var out []model.Contestant
	if err := s.conn(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storageErr("repository.list_contestants", err)
	}
	return out, nil
}

func (s *SQLStore) UpdateContestant(ctx context.Context, c *model.Contestant) error {
	const op = "repository.update_contestant"
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.Contestant
		if err := tx.First(&cur, c.ID).Error; err != nil {
			return lookupErr(op, "contestant", c.ID, err)
		}
		taken, err := nameTaken(tx, c.Name, c.ID)
		if err != nil {
			return storageErr(op, err)
		}
		if taken {
			return duplicateName(op, c.Name)
		}
		// A map writes a nil EliminatedWeek as NULL; a struct would skip it.
		if err := tx.Model(&cur).Updates(map[string]any{
			"name":            c.Name,
			"eliminated_week": c.EliminatedWeek,
		}).Error; err != nil {
			return storageErr(op, err)
		}
		var fresh model.Contestant
		if err := tx.First(&fresh, c.ID).Error; err != nil {
			return storageErr(op, err)
		}
		*c = fresh
		return nil
	})
}

func (s *SQLStore) DeleteContestant(ctx context.Context, id uint) error {
	const op = "repository.delete_contestant"
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Contestant{}, id)
		if res.Error != nil {
			return storageErr(op, res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(op, "contestant", id)
		}
		if err := tx.Where("contestant_id = ?", id).Delete(&model.Team{}).Error; err != nil {
			return storageErr(op, err)
		}
		if err := tx.Where("contestant_id = ?", id).Delete(&model.WeeklyScore{}).Error; err != nil {
			return storageErr(op, err)
		}
		return nil
	})
}

func (s *SQLStore) ListTeams(ctx context.Context) ([]model.Team, error) {
	var out []model.Team
	if err := s.conn(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storageErr("repository.list_teams", err)
	}
	return out, nil
}

func (s *SQLStore) ListTeamsByPlayer(ctx context.Context, playerID uint) ([]model.Team, error) {
	var out []model.Team
	if err := s.conn(ctx).Where("player_id = ?", playerID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storageErr("repository.list_teams_by_player", err)
	}
	return out, nil
}

func (s *SQLStore) ReplaceRoster(ctx context.Context, playerID uint, contestantIDs []uint) ([]model.Team, error) {
	const op = "repository.replace_roster"
	added := make([]model.Team, 0, len(contestantIDs))
	for _, cid := range contestantIDs {
		added = append(added, model.Team{PlayerID: playerID, ContestantID: cid})
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", playerID).Delete(&model.Team{}).Error; err != nil {
			return storageErr(op, err)
		}
		if len(added) == 0 {
			return nil
		}
		return storageErr(op, tx.Create(&added).Error)
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *SQLStore) CreateScore(ctx context.Context, w *model.WeeklyScore) error {
	w.ID = 0
	return storageErr("repository.create_score", s.conn(ctx).Create(w).Error)
}

func (s *SQLStore) GetScore(ctx context.Context, id uint) (model.WeeklyScore, error) {
	var w model.WeeklyScore
	if err := s.conn(ctx).First(&w, id).Error; err != nil {
		return model.WeeklyScore{}, lookupErr("repository.get_score", "score", id, err)
	}
	return w, nil
}

func (s *SQLStore) ListScores(ctx context.Context, f ScoreFilter) ([]model.WeeklyScore, error) {
	q := s.conn(ctx).Order("id ASC")
	if f.Week != 0 {
		q = q.Where("week = ?", f.Week)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var out []model.WeeklyScore
	if err := q.Find(&out).Error; err != nil {
		return nil, storageErr("repository.list_scores", err)
	}
	return out, nil
}

func (s *SQLStore) UpdateScore(ctx context.Context, w *model.WeeklyScore) error {
	const op = "repository.update_score"
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.WeeklyScore
		if err := tx.First(&cur, w.ID).Error; err != nil {
			return lookupErr(op, "score", w.ID, err)
		}
		if err := tx.Model(&cur).Updates(map[string]any{
			"week":          w.Week,
			"contestant_id": w.ContestantID,
			"category":      w.Category,
			"points":        w.Points,
		}).Error; err != nil {
			return storageErr(op, err)
		}
		return storageErr(op, tx.First(w, w.ID).Error)
	})
}

func (s *SQLStore) DeleteScore(ctx context.Context, id uint) error {
	const op = "repository.delete_score"
	res := s.conn(ctx).Delete(&model.WeeklyScore{}, id)
	if res.Error != nil {
		return storageErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(op, "score", id)
	}
	return nil
}

func (s *SQLStore) ListSeasonTotals(ctx context.Context) ([]model.SeasonTotal, error) {
	var out []model.SeasonTotal
	if err := s.conn(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, storageErr("repository.list_season_totals", err)
	}
	return out, nil
}

func (s *SQLStore) ReplaceSeasonTotals(ctx context.Context, rows []model.SeasonTotal) error {
	const op = "repository.replace_season_totals"
	fresh := make([]model.SeasonTotal, len(rows))
	for i, r := range rows {
		r.ID = uint(i + 1) //nolint:gosec // index is never negative
		fresh[i] = r
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.SeasonTotal{}).Error; err != nil {
			return storageErr(op, err)
		}
		if len(fresh) == 0 {
			return nil
		}
		return storageErr(op, tx.CreateInBatches(&fresh, insertBatchSize).Error)
	})
}

func (s *SQLStore) Counts(ctx context.Context) (Counts, error) {
	const op = "repository.counts"
	var c Counts
	for _, t := range []struct {
		model any
		dst   *int
	}{
		{&model.Player{}, &c.Players},
		{&model.Contestant{}, &c.Contestants},
		{&model.Team{}, &c.Teams},
		{&model.WeeklyScore{}, &c.WeeklyScores},
		{&model.SeasonTotal{}, &c.SeasonTotals},
	} {
		var n int64
		if err := s.conn(ctx).Model(t.model).Count(&n).Error; err != nil {
			return Counts{}, storageErr(op, err)
		}
		*t.dst = int(n)
	}
	return c, nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	const op = "repository.clear"
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&model.SeasonTotal{}, &model.WeeklyScore{}, &model.Team{},
			&model.Contestant{}, &model.Player{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return storageErr(op, fmt.Errorf("%T: %w", m, err))
			}
		}
		return nil
	})
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageErr("repository.close", err)
	}
	return storageErr("repository.close", sqlDB.Close())
}
