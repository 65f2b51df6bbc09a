// Package migration applies the database schema with one of three strategies:
// gorm AutoMigrate for development and sqlite, golang-migrate or goose for MySQL.
package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy by name. SQL script strategies target MySQL,
// so a sqlite database always falls back to AutoMigrate.
func NewManager(strategyName, driver string, log logger.Interface) (*Manager, error) {
	log = log.With("component", "migration.manager")

	if strings.EqualFold(driver, "sqlite") && strategyName != StrategyAuto {
		log.Warnw("sql script migrations require mysql, using auto migrate", "requested", strategyName)
		strategyName = StrategyAuto
	}

	var strategy Strategy
	switch strategyName {
	case StrategyAuto, "":
		strategy = NewGormAutoMigrateStrategy(log)
	case StrategyGolangMigrate:
		strategy = NewGolangMigrateStrategy(log)
	case StrategyGoose:
		strategy = NewGooseStrategy("mysql", log)
	default:
		return nil, fmt.Errorf("unknown migration strategy: %s", strategyName)
	}

	return &Manager{strategy: strategy, logger: log}, nil
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.Name())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.Name(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.Name())
	return nil
}

// Strategy returns the selected strategy.
func (m *Manager) Strategy() Strategy {
	return m.strategy
}

// Reversible returns the strategy when it supports rollback and versioning.
func (m *Manager) Reversible() (Reversible, error) {
	r, ok := m.strategy.(Reversible)
	if !ok {
		return nil, fmt.Errorf("strategy %s does not support rollback", m.strategy.Name())
	}
	return r, nil
}
