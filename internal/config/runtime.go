package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Runtime holds the settings resolved at startup from defaults, the .env file,
// the environment and command-line flags (later sources win).
type Runtime struct {
	// APIBaseURL is the root of the remote collection, e.g. http://host:8000/api.
	APIBaseURL string
	// Timeout bounds a single HTTP exchange with the remote store.
	Timeout time.Duration
	// Language selects the locale of user-facing messages.
	Language string
	// DataDir holds preferences.yaml and the fallback credential file.
	DataDir string
	// LogDir holds app.log. It defaults to the per-user cache directory.
	LogDir string
	// Debug enables debug logging. NoKeyring keeps the credential in a
	// file under DataDir.
	Debug     bool
	NoKeyring bool
}

// DefaultRuntime returns the built-in defaults.
func DefaultRuntime() Runtime {
	return Runtime{
		APIBaseURL: DefaultAPIURL,
		Timeout:    HTTPTimeout,
		Language:   DefaultLanguage,
		DataDir:    defaultDataDir(),
		LogDir:     defaultLogDir(),
	}
}

// Normalize fills zero values with defaults and trims the base URL.
func (r *Runtime) Normalize() {
	r.APIBaseURL = strings.TrimRight(strings.TrimSpace(r.APIBaseURL), "/")
	if r.APIBaseURL == "" {
		r.APIBaseURL = DefaultAPIURL
	}
	if r.Timeout <= 0 {
		r.Timeout = HTTPTimeout
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	if r.DataDir == "" {
		r.DataDir = defaultDataDir()
	}
	if r.LogDir == "" {
		r.LogDir = defaultLogDir()
	}
	if r.LogDir == "" {
		r.LogDir = r.DataDir
	}
}

// Validate checks that the API URL is an absolute http(s) URL.
func (r Runtime) Validate() error {
	u, err := url.Parse(r.APIBaseURL)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInvalidURL, err)
	}
	if u.Scheme != SchemeHTTP && u.Scheme != SchemeHTTPS {
		return fmt.Errorf("%s: %q", ErrProtocol, u.Scheme)
	}
	if u.Host == "" {
		return errors.New(ErrInvalidURL)
	}
	return nil
}

// PrefsPath is the location of the presentation preferences file.
func (r Runtime) PrefsPath() string {
	return filepath.Join(r.DataDir, PrefsFileName)
}

// LogPath is the location of the application log file.
func (r Runtime) LogPath() string {
	return filepath.Join(r.LogDir, LogFileName)
}

// CredentialPath is the credential file used when the keyring is disabled.
func (r Runtime) CredentialPath() string {
	return filepath.Join(r.DataDir, CredentialFileName)
}

// UserCacheDir returns the application directory under the per-user cache.
func UserCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrCacheDir, err)
	}
	return filepath.Join(dir, AppID), nil
}

// defaultLogDir is empty when no cache directory exists; Normalize then
// falls back to DataDir.
func defaultLogDir() string {
	dir, err := UserCacheDir()
	if err != nil {
		return ""
	}
	return dir
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return AppID
	}
	return filepath.Join(dir, AppID)
}
