package store

import (
	"fmt"
	"path/filepath"

	"github.com/Belphemur/SeriesDumpster/internal/apperrors"
	"github.com/Belphemur/SeriesDumpster/internal/models"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// StateStore keeps the single resume record as a YAML document
type StateStore struct {
	fs   afero.Fs
	path string
}

// NewStateStore creates a StateStore writing to path
func NewStateStore(filesystem afero.Fs, path string) *StateStore {
	return &StateStore{fs: filesystem, path: path}
}

func (s *StateStore) newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigType("yaml")
	return v
}

// Save overwrites the record with series
func (s *StateStore) Save(series models.Series) error {
	state := models.NewResumeState(series)

	v := s.newViper()
	v.Set("url", state.URL)
	v.Set("name", state.Name)

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for resume state: %w", err)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write resume state %s: %w", s.path, err)
	}
	return nil
}

// Load reads the record. A missing file yields an *apperrors.ErrNotFound.
func (s *StateStore) Load() (models.ResumeState, error) {
	var state models.ResumeState

	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return state, fmt.Errorf("failed to stat resume state %s: %w", s.path, err)
	}
	if !exists {
		return state, apperrors.NewResumeStateNotFoundError(s.path)
	}

	v := s.newViper()
	v.SetConfigFile(s.path)
	if err := v.ReadInConfig(); err != nil {
		return state, fmt.Errorf("failed to read resume state %s: %w", s.path, err)
	}
	if err := v.Unmarshal(&state); err != nil {
		return state, fmt.Errorf("failed to decode resume state %s: %w", s.path, err)
	}
	if state.URL == "" {
		return state, apperrors.NewResumeStateNotFoundError(s.path)
	}
	return state, nil
}
