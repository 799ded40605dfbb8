package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leonwong282/mdimgup/internal/cryptox"
	"github.com/leonwong282/mdimgup/internal/dbx"
)

// SQLStore keeps (key, nonce, ciphertext) rows in the secrets table of
// the metadata database. Each value is sealed with AES-GCM under the
// store key; the nonce is stored alongside the ciphertext.
//
// The sqlite and postgres schemas share the table shape, so the same
// implementation serves both; only the placeholder style differs.
type SQLStore struct {
	db          dbx.DBTX
	key         []byte
	placeholder func(int) string
}

// NewSQLStore returns a Store over db sealed with key. postgres selects
// $n placeholders instead of ?.
func NewSQLStore(db dbx.DBTX, key []byte, postgres bool) *SQLStore {
	ph := func(int) string { return "?" }
	if postgres {
		ph = func(n int) string { return fmt.Sprintf("$%d", n) }
	}
	return &SQLStore{db: db, key: key, placeholder: ph}
}

func (s *SQLStore) Store(ctx context.Context, key string, value []byte) error {
	ciphertext, nonce, err := cryptox.Seal(value, s.key)
	if err != nil {
		return fmt.Errorf("seal secret[%s]: %w", key, err)
	}

	q := fmt.Sprintf(`
		INSERT INTO secrets (key, nonce, value) VALUES (%s, %s, %s)
		ON CONFLICT (key) DO UPDATE SET nonce = excluded.nonce, value = excluded.value
	`, s.placeholder(1), s.placeholder(2), s.placeholder(3))

	if _, err := s.db.ExecContext(ctx, q, key, nonce, ciphertext); err != nil {
		return fmt.Errorf("failed to store secret[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	q := fmt.Sprintf(`SELECT nonce, value FROM secrets WHERE key = %s`, s.placeholder(1))

	var nonce, ciphertext []byte
	err := s.db.QueryRowContext(ctx, q, key).Scan(&nonce, &ciphertext)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret[%s]: %w", key, err)
	}

	value, err := cryptox.Open(ciphertext, nonce, s.key)
	if err != nil {
		return nil, fmt.Errorf("open secret[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	q := fmt.Sprintf(`DELETE FROM secrets WHERE key = %s`, s.placeholder(1))
	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("failed to delete secret[%s]: %w", key, err)
	}
	return nil
}
