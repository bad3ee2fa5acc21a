package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayusman/pinchvaders/internal/control"
)

// tuningKey is the settings row holding the pipeline tuning overrides.
const tuningKey = "tuning"

// SettingsRepository provides key-value application settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a setting value. Returns ErrNotFound for unknown keys.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a setting value, replacing any existing one.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// SaveTuning persists the pipeline configuration as the tuning override.
// The config must already be validated; the store does not re-check it.
func (r *SettingsRepository) SaveTuning(cfg control.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal tuning: %w", err)
	}
	return r.Set(tuningKey, string(data))
}

// LoadTuning returns the persisted tuning override, or ErrNotFound when
// none has been saved.
func (r *SettingsRepository) LoadTuning() (control.Config, error) {
	raw, err := r.Get(tuningKey)
	if err != nil {
		return control.Config{}, err
	}

	var cfg control.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return control.Config{}, fmt.Errorf("parse tuning: %w", err)
	}
	return cfg, nil
}
