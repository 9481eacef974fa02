// Package identity provides the default device-ID resolution used when the application does not
// inject its own DeviceIDProvider.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileBackedProvider resolves the device ID from a small file, generating and persisting a random
// identifier on first use so that the same device keeps the same identity across launches.
type FileBackedProvider struct {
	path string
}

// NewFileBackedProvider creates a FileBackedProvider that stores the identifier at path.
func NewFileBackedProvider(path string) *FileBackedProvider {
	return &FileBackedProvider{path: path}
}

// DeviceID returns the persisted identifier, creating it if necessary.
func (p *FileBackedProvider) DeviceID() (string, error) {
	if data, err := os.ReadFile(p.path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	id := newRandomDeviceID()
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return "", fmt.Errorf("unable to create device ID directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("unable to persist device ID: %w", err)
	}
	return id, nil
}

// EphemeralProvider generates a random device ID that lasts only for the process lifetime. It is
// the fallback when no storage path is configured.
type EphemeralProvider struct{}

// DeviceID returns a newly generated identifier.
func (p EphemeralProvider) DeviceID() (string, error) {
	return newRandomDeviceID(), nil
}

func newRandomDeviceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
