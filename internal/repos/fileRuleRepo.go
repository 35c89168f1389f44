package repos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/zielww/apollo/internal/models"
)

type ruleFile struct {
	Rules []models.RuleRecord `yaml:"rules"`
}

// FileRuleRepo keeps the rule set in a human editable yaml document
type FileRuleRepo struct {
	logger *log.Logger
	path   string
}

func NewFileRuleRepo(logger *log.Logger, path string) *FileRuleRepo {
	return &FileRuleRepo{logger: logger, path: path}
}

func (r *FileRuleRepo) SaveAll(rules []models.Rule) error {
	data, err := yaml.Marshal(ruleFile{Rules: models.ToRecords(rules)})
	if err != nil {
		return fmt.Errorf("Error encoding rules: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("Error creating rule directory (%s): %w", dir, err)
		}
	}

	// write then rename so a crash never leaves a half written file
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("Error writing rules (%s): %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("Error replacing rules file (%s): %w", r.path, err)
	}

	r.logger.Debug("rules saved", "count", len(rules), "path", r.path)
	return nil
}

// LoadAll returns no rules when the file does not exist yet
func (r *FileRuleRepo) LoadAll() ([]models.Rule, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Rule{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Error reading rules (%s): %w", r.path, err)
	}

	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("Error decoding rules (%s): %w", r.path, err)
	}

	return models.FromRecords(f.Rules)
}
