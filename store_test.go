package session_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	session "github.com/goliatone/go-session"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	// one named in-memory database per test keeps them isolated while the
	// shared cache keeps every pooled connection on the same database
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	// keep at least one connection alive or the memory database vanishes
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().
		Model((*session.User)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	return db
}

func newSQLiteStore(t *testing.T) session.CredentialStore {
	t.Helper()

	manager := session.NewRepositoryManager(newTestDB(t))
	manager.MustValidate()

	return session.NewCredentialStore(manager)
}

func TestCredentialStore_CreateAndFind(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, session.NewUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, session.RoleStandard, created.Role)
	assert.Equal(t, session.UserStatusActive, created.Status)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "s3cret-password", created.PasswordHash)

	byEmail, err := store.FindByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.NotEmpty(t, byEmail.PasswordHash, "login path needs the hash for comparison")

	byID, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)
	assert.Empty(t, byID.PasswordHash, "profile path never loads the hash")
}

func TestCredentialStore_CreateDuplicateEmail(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, session.NewUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	duplicate, err := store.Create(ctx, session.NewUserInput{
		Name:     "Someone Else",
		Email:    "test@example.com",
		Password: "another-password",
	})
	require.Error(t, err)
	assert.Nil(t, duplicate)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, goerrors.CategoryConflict, richErr.Category)
	assert.Equal(t, session.TextCodeEmailTaken, richErr.TextCode)
}

func TestCredentialStore_CreateRejectsEmptyPassword(t *testing.T) {
	store := newSQLiteStore(t)

	created, err := store.Create(context.Background(), session.NewUserInput{
		Name:  "Test User",
		Email: "test@example.com",
	})
	require.Error(t, err)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, session.ErrNoEmptyString)
}

func TestCredentialStore_DeterministicID(t *testing.T) {
	store := newSQLiteStore(t)

	created, err := store.Create(context.Background(), session.NewUserInput{
		Name:            "Test User",
		Email:           "test@example.com",
		Password:        "s3cret-password",
		DeterministicID: true,
	})
	require.NoError(t, err)

	expected, ok := session.DeterministicUserID("test@example.com")
	require.True(t, ok)
	assert.Equal(t, expected, created.ID)
}

func TestCredentialStore_FindMisses(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.FindByEmail(ctx, "nobody@example.com")
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))

	_, err = store.FindByID(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))
}

func TestCredentialStore_MatchPassword(t *testing.T) {
	store := newSQLiteStore(t)

	created, err := store.Create(context.Background(), session.NewUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	assert.NoError(t, store.MatchPassword(created, "s3cret-password"))
	assert.True(t, session.IsInvalidCredentialsError(store.MatchPassword(created, "wrong")))
	assert.True(t, session.IsInvalidCredentialsError(store.MatchPassword(nil, "whatever")))
}

func TestDeterministicUserID_Stable(t *testing.T) {
	a, ok := session.DeterministicUserID("test@example.com")
	require.True(t, ok)

	b, ok := session.DeterministicUserID("test@example.com")
	require.True(t, ok)
	assert.Equal(t, a, b)

	c, ok := session.DeterministicUserID("other@example.com")
	require.True(t, ok)
	assert.NotEqual(t, a, c)
}
