package repos

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/zielww/apollo/internal/models"
)

const initSchema = `
  CREATE TABLE IF NOT EXISTS rule (
    id VARCHAR(36) PRIMARY KEY,
    device_id TEXT NOT NULL,
    light_type TEXT NOT NULL,
    brightness INTEGER NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    position INTEGER NOT NULL -- insertion order of the rule set
  );

  CREATE INDEX IF NOT EXISTS idx_rule_device ON rule(device_id);
`

// SQLiteRuleRepo persists the rule set in a single sqlite table, rows are stored
// in the same record form the devices receive
type SQLiteRuleRepo struct {
	logger *log.Logger
	db     *sql.DB
}

func NewSQLiteRuleRepo(logger *log.Logger, db *sql.DB) (*SQLiteRuleRepo, error) {
	_, err := db.Exec(initSchema)
	if err != nil {
		return nil, fmt.Errorf("Error initialising rule schema: %w", err)
	}

	return &SQLiteRuleRepo{logger: logger, db: db}, nil
}

// SaveAll replaces the stored rule set with rules
func (r *SQLiteRuleRepo) SaveAll(rules []models.Rule) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("Error starting rule transaction: %w", err)
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM rule"); err != nil {
		return fmt.Errorf("Error clearing rules: %w", err)
	}

	for i, rule := range rules {
		rec := rule.ToRecord()
		_, err := tx.Exec(
			`INSERT INTO rule
      (id, device_id, light_type, brightness, start_time, end_time, position)
     VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			rec.ID,
			rec.DeviceID,
			rec.LightType,
			rec.Brightness,
			rec.StartTime,
			rec.EndTime,
			i,
		)
		if err != nil {
			return fmt.Errorf("Error adding rule (%s): %w", rule.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Error saving rules: %w", err)
	}

	r.logger.Debug("rules saved", "count", len(rules))
	return nil
}

// LoadAll returns the stored rules in the order they were saved
func (r *SQLiteRuleRepo) LoadAll() ([]models.Rule, error) {
	rows, err := r.db.Query(`
    SELECT id, device_id, light_type, brightness, start_time, end_time
    FROM rule
    ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("Error reading rules: %w", err)
	}
	defer rows.Close()

	records := []models.RuleRecord{}
	for rows.Next() {
		var rec models.RuleRecord
		if err := rows.Scan(&rec.ID, &rec.DeviceID, &rec.LightType, &rec.Brightness, &rec.StartTime, &rec.EndTime); err != nil {
			return nil, fmt.Errorf("Error reading rule row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Error reading rules: %w", err)
	}

	return models.FromRecords(records)
}
