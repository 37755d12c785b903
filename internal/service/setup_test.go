package service_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
)

type testEnv struct {
	db    *gorm.DB
	repo  *repository.Repository
	store *storage.LocalStore
	svc   *service.Services
}

func setupServices(t *testing.T, opts service.Options) *testEnv {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	repo := repository.NewRepository(db)
	store, err := storage.NewLocalStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return &testEnv{
		db:    db,
		repo:  repo,
		store: store,
		svc:   service.NewServices(repo, cache.NopTokenCache{}, store, opts, zap.NewNop()),
	}
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	return testhelpers.CreateUser(t, e.db, email, "testpass123")
}

func (e *testEnv) path(t *testing.T, key string) string {
	t.Helper()
	p, err := e.store.Path(key)
	if err != nil {
		t.Fatalf("invalid key %q: %v", key, err)
	}
	return p
}

func ptr[T any](v T) *T { return &v }

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func jpegReader(t *testing.T) io.Reader {
	return bytes.NewReader(testhelpers.JPEG(t, 10, 10))
}
