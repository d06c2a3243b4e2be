package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"harvestcycle/internal/shared/logger"
)

//go:embed scripts/*.sql
var scriptsFS embed.FS

const scriptsDir = "scripts"

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Migrate executes the migration strategy
	Migrate(db *gorm.DB, models ...interface{}) error
	// GetName returns the strategy name
	GetName() string
}

// GooseStrategy runs the embedded SQL scripts with goose.
type GooseStrategy struct {
	dialect string
	logger  logger.Interface
}

// NewGooseStrategy creates a goose strategy for the given database driver
// ("mysql" or "sqlite").
func NewGooseStrategy(driver string, log logger.Interface) *GooseStrategy {
	dialect := "mysql"
	if driver == "sqlite" {
		dialect = "sqlite3"
	}
	return &GooseStrategy{
		dialect: dialect,
		logger:  log.With("component", "migration.goose"),
	}
}

// Migrate applies every pending up migration. Models are ignored.
func (s *GooseStrategy) Migrate(db *gorm.DB, _ ...interface{}) error {
	s.logger.Infow("starting goose migration", "dialect", s.dialect)

	return s.withGoose(db, func(run gooseRunner) error {
		currentVersion, err := run.version()
		if err != nil {
			return fmt.Errorf("failed to get current migration version: %w", err)
		}

		if err := goose.Up(run.sqlDB, scriptsDir); err != nil {
			s.logger.Errorw("goose migration failed", "error", err)
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		finalVersion, err := run.version()
		if err != nil {
			return fmt.Errorf("failed to get final migration version: %w", err)
		}

		s.logger.Infow("migration completed successfully",
			"from_version", currentVersion,
			"to_version", finalVersion)
		return nil
	})
}

// GetName returns the strategy name
func (s *GooseStrategy) GetName() string {
	return "goose"
}

// MigrateDown rolls back the given number of migrations.
func (s *GooseStrategy) MigrateDown(db *gorm.DB, steps int) error {
	s.logger.Infow("starting down migration", "steps", steps)

	return s.withGoose(db, func(run gooseRunner) error {
		for i := 0; i < steps; i++ {
			if err := goose.Down(run.sqlDB, scriptsDir); err != nil {
				return fmt.Errorf("failed to run down migration %d: %w", i+1, err)
			}
		}
		s.logger.Infow("down migration completed successfully")
		return nil
	})
}

// GetVersion returns the current migration version
func (s *GooseStrategy) GetVersion(db *gorm.DB) (int64, error) {
	var version int64
	err := s.withGoose(db, func(run gooseRunner) error {
		var err error
		version, err = run.version()
		return err
	})
	return version, err
}

// Status prints the migration status through goose's logger.
func (s *GooseStrategy) Status(db *gorm.DB) error {
	return s.withGoose(db, func(run gooseRunner) error {
		if err := goose.Status(run.sqlDB, scriptsDir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
		return nil
	})
}

type gooseRunner struct {
	sqlDB *sql.DB
}

func (r gooseRunner) version() (int64, error) {
	return goose.GetDBVersion(r.sqlDB)
}

// withGoose configures goose for the embedded scripts and this dialect, then
// runs fn while holding gooseMu.
func (s *GooseStrategy) withGoose(db *gorm.DB, fn func(run gooseRunner) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(scriptsFS)
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn(gooseRunner{sqlDB: sqlDB})
}

// GormAutoMigrateStrategy lets GORM create or alter tables from the models.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

// NewGormAutoMigrateStrategy creates a new GORM auto-migrate strategy
func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: log.With("component", "migration.gorm"),
	}
}

// Migrate executes GORM auto migration
func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	s.logger.Infow("starting gorm auto migration", "models_count", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Errorw("gorm auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("gorm auto migration completed successfully")
	return nil
}

// GetName returns the strategy name
func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
