package repos

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/zielww/apollo/internal/config"
	"github.com/zielww/apollo/internal/models"
)

type RuleRepo interface {
	SaveAll(rules []models.Rule) error
	LoadAll() ([]models.Rule, error)
}

// OpenRuleRepo builds the repo selected by the storage config. The returned close
// func releases the underlying database, if any.
func OpenRuleRepo(logger *log.Logger, cfg config.StorageConfig) (RuleRepo, func() error, error) {
	switch cfg.Driver {
	case config.StorageDriverFile:
		return NewFileRuleRepo(logger, cfg.Path), func() error { return nil }, nil

	case config.StorageDriverSQLite:
		db, err := OpenDB(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewSQLiteRuleRepo(logger, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
