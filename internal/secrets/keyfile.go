package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leonwong282/mdimgup/internal/cryptox"
)

const (
	keyFileName  = "secret.key"
	saltFileName = "secret.salt"
)

// LoadOrCreateKey returns the AES key for the secret store, deriving it
// (argon2id) from a passphrase file and salt file kept in dir. Both
// files are generated with crypto/rand on first use.
func LoadOrCreateKey(dir string) ([]byte, error) {
	pass, err := loadOrCreateRandomFile(filepath.Join(dir, keyFileName), 32)
	if err != nil {
		return nil, err
	}
	salt, err := loadOrCreateRandomFile(filepath.Join(dir, saltFileName), 16)
	if err != nil {
		return nil, err
	}
	return cryptox.DeriveKey(pass, salt), nil
}

func loadOrCreateRandomFile(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	content := []byte(hex.EncodeToString(b))

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return content, nil
}
