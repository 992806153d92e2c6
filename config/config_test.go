package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"local backend", Config{Backend: BackendLocal, LanguageCode: "eng-GB"}, false},
		{"rest backend", Config{Backend: BackendREST, BaseURL: "http://cms", LanguageCode: "eng-GB"}, false},
		{"rest without url", Config{Backend: BackendREST, LanguageCode: "eng-GB"}, true},
		{"unknown backend", Config{Backend: "ftp", LanguageCode: "eng-GB"}, true},
		{"missing language", Config{Backend: BackendLocal}, true},
		{"negative timeout", Config{Backend: BackendLocal, LanguageCode: "eng-GB", NotificationTimeout: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadCreatesDefaults(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("DRAFTUI_DATA_DIR", dataDir)
	t.Setenv("DRAFTUI_CONFIG_DIR", t.TempDir())
	t.Setenv("DRAFTUI_REPOSITORY_URL", "")
	t.Setenv("DRAFTUI_LANGUAGE", "")
	t.Setenv("DRAFTUI_PARENT_LOCATION", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, "eng-GB", cfg.LanguageCode)
	assert.Equal(t, 2, cfg.ParentLocationID)
	assert.Equal(t, 5, cfg.NotificationTimeout)
	assert.FileExists(t, filepath.Join(dataDir, "config.toml"))

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestLoadUserConfigAndEnvOverrides(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("DRAFTUI_DATA_DIR", dataDir)
	t.Setenv("DRAFTUI_CONFIG_DIR", t.TempDir())
	t.Setenv("DRAFTUI_REPOSITORY_URL", "")
	t.Setenv("DRAFTUI_PARENT_LOCATION", "")

	user := DefaultUserConfig()
	user.Repository.Backend = BackendREST
	user.Repository.BaseURL = "https://cms.example.com"
	user.Repository.Username = "admin"
	user.Editor.ContentTypeIdentifier = "folder"
	require.NoError(t, SaveUserConfig(user, dataDir))

	t.Setenv("DRAFTUI_LANGUAGE", "fre-FR")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendREST, cfg.Backend)
	assert.Equal(t, "https://cms.example.com", cfg.BaseURL)
	assert.Equal(t, "admin", cfg.Username)
	assert.Equal(t, "folder", cfg.ContentTypeIdentifier)
	assert.Equal(t, "fre-FR", cfg.LanguageCode)
}

func TestLoadRejectsInvalidUserConfig(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("DRAFTUI_DATA_DIR", dataDir)
	t.Setenv("DRAFTUI_CONFIG_DIR", t.TempDir())
	t.Setenv("DRAFTUI_REPOSITORY_URL", "")

	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.toml"), []byte("[repository]\nbackend = \"ftp\"\n"), 0600))

	_, err := Load()
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/editor")

	assert.Equal(t, "/home/editor/.local/share/draftui", ExpandPath("~/.local/share/draftui"))
	assert.Equal(t, "", ExpandPath(""))
}

func TestGetActionKey(t *testing.T) {
	kb := DefaultKeybindings()

	assert.Equal(t, "alt+s", kb.GetActionKey("save_draft"))
	assert.Equal(t, "tab", kb.GetActionKey("focus_next"))
	assert.Equal(t, "", kb.GetActionKey("unknown"))

	kb.Actions = map[string]string{"save_draft": "ctrl+s"}
	assert.Equal(t, "ctrl+s", kb.GetActionKey("save_draft"))
	assert.Equal(t, "Ctrl+S", kb.DisplayActionKey("save_draft"))
}

func TestCredentialStore(t *testing.T) {
	dataDir := t.TempDir()

	store, err := LoadCredentials(dataDir)
	require.NoError(t, err)
	assert.Empty(t, store.Get("https://cms.example.com"))

	store.Set("https://cms.example.com", "s3cret")
	require.NoError(t, store.Save(dataDir))

	info, err := os.Stat(filepath.Join(dataDir, "credentials.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadCredentials(dataDir)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", loaded.Get("https://cms.example.com"))

	loaded.Delete("https://cms.example.com")
	assert.Empty(t, loaded.Get("https://cms.example.com"))
}

func TestLoadReadsPasswordFromCredentials(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("DRAFTUI_DATA_DIR", dataDir)
	t.Setenv("DRAFTUI_CONFIG_DIR", t.TempDir())
	t.Setenv("DRAFTUI_REPOSITORY_URL", "https://cms.example.com")
	t.Setenv("DRAFTUI_LANGUAGE", "")
	t.Setenv("DRAFTUI_PARENT_LOCATION", "")

	store := NewCredentialStore()
	store.Set("https://cms.example.com", "s3cret")
	require.NoError(t, store.Save(dataDir))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendREST, cfg.Backend)
	assert.Equal(t, "s3cret", cfg.Password)
}

func TestKeybindingsValidate(t *testing.T) {
	tests := []struct {
		name        string
		primary     string
		wantValid   bool
		wantWarning bool
	}{
		{"default", "alt", true, false},
		{"ctrl", "ctrl", true, true},
		{"shift alone", "shift", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := DefaultKeybindings()
			kb.Modifiers.Primary = tt.primary
			valid, warning := kb.Validate()
			assert.Equal(t, tt.wantValid, valid)
			assert.Equal(t, tt.wantWarning, warning != "")
		})
	}
}
