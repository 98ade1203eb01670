// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/inkpost/internal/db"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/repository"
)

// PNG is the smallest header http.DetectContentType reports as image/png.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

// NewDB opens a migrated SQLite database in a temp directory. A file is used
// instead of :memory: so every pooled connection sees the same schema.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	return database
}

// CreateUser inserts a user with the given email and returns it.
func CreateUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, PasswordHash: "x"}
	require.NoError(t, repository.NewUserRepository(database).Create(context.Background(), user))
	return user
}

// MemoryStorage is an in-memory object store.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string

	// Fail, when set, makes Upload return it.
	Fail error
	// FailURL, when set, makes PublicURL return it.
	FailURL error
	// Hold, when set, blocks Upload until the channel is closed.
	Hold    chan struct{}
	Uploads int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

func (s *MemoryStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	s.Uploads++
	hold := s.Hold
	s.mu.Unlock()

	if hold != nil {
		<-hold
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Fail != nil {
		return s.Fail
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.Objects[key] = data
	s.Types[key] = contentType
	return nil
}

func (s *MemoryStorage) PublicURL(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailURL != nil {
		return "", s.FailURL
	}
	if _, ok := s.Objects[key]; !ok {
		return "", fmt.Errorf("object %q not found", key)
	}
	return "https://storage.test/" + key, nil
}

// Keys returns the stored keys with the given prefix.
func (s *MemoryStorage) Keys(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for k := range s.Objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *MemoryStorage) UploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Uploads
}
