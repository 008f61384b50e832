// Package prefs persists the presentation settings: font family, theme and
// message language. They are read at startup and written on change.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/tartampluch/birthdays/internal/config"
	"gopkg.in/yaml.v3"
)

// ErrInvalid reports an unknown key or a value outside the allowed set.
var ErrInvalid = errors.New(config.ErrPrefsInvalid)

// Preferences is the on-disk settings document.
type Preferences struct {
	Font     string `yaml:"preferredFont"`
	Theme    string `yaml:"theme"`
	Language string `yaml:"language"`
}

// Default returns the settings used on first run.
func Default() *Preferences {
	return &Preferences{
		Font:     config.DefaultFont,
		Theme:    config.DefaultTheme,
		Language: config.DefaultLanguage,
	}
}

// Normalize replaces unknown values with defaults.
func (p *Preferences) Normalize() {
	if !slices.Contains(config.SupportedFonts, p.Font) {
		p.Font = config.DefaultFont
	}
	if p.Theme != config.ThemeLight && p.Theme != config.ThemeDark {
		p.Theme = config.DefaultTheme
	}
	if !slices.Contains(config.SupportedLanguages, p.Language) {
		p.Language = config.DefaultLanguage
	}
}

// Set changes one setting by its persisted key.
func (p *Preferences) Set(key, value string) error {
	switch key {
	case config.PrefFont:
		if !slices.Contains(config.SupportedFonts, value) {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, key, value)
		}
		p.Font = value
	case config.PrefTheme:
		if value != config.ThemeLight && value != config.ThemeDark {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, key, value)
		}
		p.Theme = value
	case config.PrefLanguage:
		if !slices.Contains(config.SupportedLanguages, value) {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, key, value)
		}
		p.Language = value
	default:
		return fmt.Errorf("%w: %q", ErrInvalid, key)
	}
	return nil
}

// Get returns one setting by its persisted key.
func (p *Preferences) Get(key string) (string, error) {
	switch key {
	case config.PrefFont:
		return p.Font, nil
	case config.PrefTheme:
		return p.Theme, nil
	case config.PrefLanguage:
		return p.Language, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalid, key)
}

// Load reads the settings file. On first run the defaults are written to
// path and returned.
func Load(path string) (*Preferences, error) {
	if path == "" {
		return nil, errors.New(config.ErrPrefsPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p := Default()
			if err := Save(path, p); err != nil {
				return p, err
			}
			slog.Info(config.MsgPrefsCreated, config.LogKeyComponent, config.CompPrefs, config.LogKeyFile, path)
			return p, nil
		}
		return nil, err
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	p.Normalize()
	return p, nil
}

// Save writes p atomically (temp file + rename) with owner-only permissions.
func Save(path string, p *Preferences) error {
	if path == "" {
		return errors.New(config.ErrPrefsPath)
	}
	p.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, config.FilePermUserRW); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	slog.Debug(config.MsgPrefsSaved, config.LogKeyComponent, config.CompPrefs, config.LogKeyFile, path)
	return nil
}
