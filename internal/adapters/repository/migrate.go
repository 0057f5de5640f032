package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/pkg/logger"
)

// schemaMigration records an applied migration.
type schemaMigration struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:128;uniqueIndex;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migration struct {
	name string
	up   func(db *gorm.DB) error
}

// migrations run in order, at most once. DDL runs outside a transaction
// because AutoMigrate may open its own connection.
var migrations = []migration{ //nolint:gochecknoglobals // ordered schema history
	{
		name: "0001_league_tables",
		up: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&model.Player{},
				&model.Contestant{},
				&model.Team{},
				&model.WeeklyScore{},
				&model.SeasonTotal{},
			)
		},
	},
	{
		name: "0002_weekly_scores_week_category",
		up: func(db *gorm.DB) error {
			return db.Exec("CREATE INDEX IF NOT EXISTS idx_weekly_scores_week_category " +
				"ON weekly_scores (week, category)").Error
		},
	},
}

func migrate(ctx context.Context, db *gorm.DB, log logger.Logger) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return err
	}
	for _, m := range migrations {
		var n int64
		if err := db.Model(&schemaMigration{}).Where("name = ?", m.name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if err := m.up(db); err != nil {
			return err
		}
		if err := db.Create(&schemaMigration{Name: m.name, AppliedAt: time.Now()}).Error; err != nil {
			return err
		}
		if log != nil {
			log.Info(ctx, "schema migration applied", logger.String("migration", m.name))
		}
	}
	return nil
}
