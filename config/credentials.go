package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CredentialStore keeps repository passwords out of config.toml, keyed by
// repository base URL.
type CredentialStore struct {
	credentials map[string]string // base URL → password
}

type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

// NewCredentialStore creates an empty credential store
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{credentials: make(map[string]string)}
}

// LoadCredentials reads credentials.toml from the data directory. A missing
// file yields an empty store.
func LoadCredentials(dataDir string) (*CredentialStore, error) {
	store := NewCredentialStore()
	path := credentialsPath(dataDir)
	if !FileExists(path) {
		return store, nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if cf.Credentials != nil {
		store.credentials = cf.Credentials
	}
	return store, nil
}

// Save writes the store to credentials.toml with 0600 permissions
func (c *CredentialStore) Save(dataDir string) error {
	f, err := os.OpenFile(credentialsPath(dataDir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(credentialsFile{Credentials: c.credentials}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return nil
}

// Get returns the password stored for baseURL
func (c *CredentialStore) Get(baseURL string) string {
	return c.credentials[baseURL]
}

// Set stores the password for baseURL
func (c *CredentialStore) Set(baseURL, password string) {
	c.credentials[baseURL] = password
}

// Delete removes the password for baseURL
func (c *CredentialStore) Delete(baseURL string) {
	delete(c.credentials, baseURL)
}

// credentialsPath returns the path to the credentials file
func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}
