package sql_repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wishbot/internal/entities"
	"wishbot/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type sqlRepo struct {
	db  *gorm.DB
	now func() time.Time
}

type Option func(r *sqlRepo)

// WithClock replaces time.Now for created_at/updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(r *sqlRepo) { r.now = now }
}

func New(cfg *repository.Config, opts ...Option) (repository.Repository, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db, opts...)
}

// NewWithDB migrates the schema on an already opened connection.
func NewWithDB(db *gorm.DB, opts ...Option) (repository.Repository, error) {
	if err := db.AutoMigrate(&entities.User{}, &entities.Answer{}, &entities.FunnelEvent{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	r := &sqlRepo{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func Open(cfg *repository.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch cfg.Driver {
	case "sqlite", "":
		return openSQLite(cfg.Dsn, gormCfg)
	case "postgres":
		return gorm.Open(postgres.Open(cfg.Dsn), gormCfg)
	case "mysql":
		return gorm.Open(mysql.Open(cfg.Dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}

func openSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	// sqlite reports a missing parent directory as "out of memory"
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}
	// pragmas are per connection, so the pool keeps exactly one
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	if err = ApplyPragmas(db); err != nil {
		return nil, err
	}
	return db, nil
}

// ApplyPragmas switches a sqlite connection to WAL and turns on foreign keys.
func ApplyPragmas(db *gorm.DB) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

func (r *sqlRepo) UpsertUser(ctx context.Context, id int64, fields entities.UserFields) error {
	now := r.now()
	user := &entities.User{Id: id, CreatedAt: now, UpdatedAt: now}
	fields.Apply(user)

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}},
		DoUpdates: clause.AssignmentColumns(append(fields.Columns(), "updated_at")),
	}).Create(user)
	return result.Error
}

func (r *sqlRepo) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	user := &entities.User{}
	result := r.db.WithContext(ctx).Where("identity = ?", id).Take(user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return user, nil
}

func (r *sqlRepo) ListUsers(ctx context.Context) ([]*entities.User, error) {
	var users []*entities.User
	result := r.db.WithContext(ctx).Order("created_at DESC").Order("identity DESC").Find(&users)
	return users, result.Error
}

func (r *sqlRepo) AppendAnswer(ctx context.Context, userId int64, ordinal int, text string) error {
	answer := &entities.Answer{UserId: userId, Ordinal: ordinal, Text: text, CreatedAt: r.now()}
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *sqlRepo) ListAnswers(ctx context.Context, userId int64) ([]*entities.Answer, error) {
	var answers []*entities.Answer
	result := r.db.WithContext(ctx).Where("identity = ?", userId).Order("id").Find(&answers)
	return answers, result.Error
}

func (r *sqlRepo) AppendFunnelEvent(ctx context.Context, userId int64, step string) error {
	event := &entities.FunnelEvent{UserId: userId, Step: step, CreatedAt: r.now()}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *sqlRepo) FunnelCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Step  string
		Count int64
	}
	result := r.db.WithContext(ctx).
		Model(&entities.FunnelEvent{}).
		Select("step, COUNT(*) AS count").
		Group("step").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Step] = row.Count
	}
	return counts, nil
}
