package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailnet/backend/pkg/auth"
	"github.com/retailnet/backend/pkg/config"
	"github.com/retailnet/backend/pkg/db/models"
	"github.com/retailnet/backend/pkg/enums"
	pkgerrors "github.com/retailnet/backend/pkg/errors"
	"github.com/retailnet/backend/pkg/outbox"
)

var (
	testJWTCfg = config.JWTConfig{
		Secret:            "secret",
		Issuer:            "retailnet",
		ExpirationMinutes: 30,
	}
	testPwCfg = config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	statements := []string{
		`CREATE TABLE users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  position TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT 'buyer',
  is_active INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE confirm_tokens (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL UNIQUE,
  key TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id INTEGER NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	events := outbox.NewService(outbox.NewRepository(db), nil)
	svc, err := NewService(NewRepository(db), &gormTxRunner{db: db}, events, testJWTCfg, testPwCfg, nil)
	require.NoError(t, err)
	return svc
}

func registerInput() RegisterInput {
	return RegisterInput{
		Email:     "buyer@example.com",
		Password:  "correct horse battery",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func TestRegisterCreatesInactiveUserWithToken(t *testing.T) {
	db := setupAccountsTestDB(t)
	svc := newTestService(t, db)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.False(t, user.IsActive)
	require.Equal(t, enums.UserTypeBuyer, user.Type)
	require.NotEqual(t, "correct horse battery", user.PasswordHash)

	var token models.ConfirmToken
	require.NoError(t, db.First(&token, "user_id = ?", user.ID).Error)
	require.NotEmpty(t, token.Key)

	var eventCount int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&eventCount).Error)
	require.EqualValues(t, 1, eventCount)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db := setupAccountsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput())
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeConflict, coded.Code())

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.EqualValues(t, 1, userCount)
}

func TestRegisterRejectsUnknownType(t *testing.T) {
	db := setupAccountsTestDB(t)
	svc := newTestService(t, db)

	input := registerInput()
	input.Type = "admin"
	_, err := svc.Register(context.Background(), input)
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestConfirmActivatesAndBurnsToken(t *testing.T) {
	db := setupAccountsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	require.Error(t, svc.Confirm(ctx, user.Email, "wrong-token"))

	var token models.ConfirmToken
	require.NoError(t, db.First(&token, "user_id = ?", user.ID).Error)
	require.NoError(t, svc.Confirm(ctx, user.Email, token.Key))

	var reread models.User
	require.NoError(t, db.First(&reread, "id = ?", user.ID).Error)
	require.True(t, reread.IsActive)

	var tokenCount int64
	require.NoError(t, db.Model(&models.ConfirmToken{}).Count(&tokenCount).Error)
	require.Zero(t, tokenCount)

	// Idempotent once active.
	require.NoError(t, svc.Confirm(ctx, user.Email, "anything"))
}

func TestLoginLifecycle(t *testing.T) {
	db := setupAccountsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	input := registerInput()
	user, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Login(ctx, input.Email, input.Password)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	var token models.ConfirmToken
	require.NoError(t, db.First(&token, "user_id = ?", user.ID).Error)
	require.NoError(t, svc.Confirm(ctx, input.Email, token.Key))

	_, err = svc.Login(ctx, input.Email, "wrong password")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	result, err := svc.Login(ctx, input.Email, input.Password)
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := auth.ParseAccessToken(testJWTCfg, result.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, input.Email, claims.Email)
}

func TestLoginUnknownEmail(t *testing.T) {
	db := setupAccountsTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}
