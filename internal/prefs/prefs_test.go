package prefs_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/prefs"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.PrefsFileName)

	p, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, prefs.Default(), p)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "preferredFont: Roboto")
	assert.Contains(t, string(data), "theme: light")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.PrefsFileName)

	p := prefs.Default()
	require.NoError(t, p.Set(config.PrefFont, config.FontRobotoLight))
	require.NoError(t, p.Set(config.PrefTheme, config.ThemeDark))
	require.NoError(t, p.Set(config.PrefLanguage, "es"))
	require.NoError(t, prefs.Save(path, p))

	loaded, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "No temp file is left behind")
}

func TestLoad_NormalizesUnknownValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.PrefsFileName)
	require.NoError(t, os.WriteFile(path, []byte("preferredFont: Comic Sans\ntheme: dark\nlanguage: fr\n"), 0o600))

	p, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultFont, p.Font)
	assert.Equal(t, config.FontRoboto, p.Font, "Roboto is the default font")
	assert.Equal(t, config.ThemeDark, p.Theme)
	assert.Equal(t, config.DefaultLanguage, p.Language)
}

func TestLoad_Errors(t *testing.T) {
	_, err := prefs.Load("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), config.PrefsFileName)
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed"), 0o600))
	_, err = prefs.Load(path)
	assert.ErrorIs(t, err, prefs.ErrInvalid)
}

func TestSetGet(t *testing.T) {
	p := prefs.Default()

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{config.PrefFont, config.FontRobotoMedium, false},
		{config.PrefFont, "Arial", true},
		{config.PrefTheme, config.ThemeDark, false},
		{config.PrefTheme, "blue", true},
		{config.PrefLanguage, "es", false},
		{config.PrefLanguage, "de", true},
		{"fontSize", "12", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := p.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, prefs.ErrInvalid)
				return
			}
			require.NoError(t, err)
			got, err := p.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	_, err := p.Get("fontSize")
	assert.ErrorIs(t, err, prefs.ErrInvalid)
}
