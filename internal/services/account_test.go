package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csemotors/dealer/config"
	"github.com/csemotors/dealer/internal/auth"
	"github.com/csemotors/dealer/internal/mq"
	"github.com/csemotors/dealer/internal/store"
	"github.com/csemotors/dealer/internal/store/storetest"
	"github.com/csemotors/dealer/types"
)

const strongPassword = "Sup3r$ecretPass"

type recordedEvent struct {
	name    string
	payload any
}

type recordingEvents struct {
	events []recordedEvent
}

func (r *recordingEvents) Publish(_ context.Context, event string, payload any) {
	r.events = append(r.events, recordedEvent{name: event, payload: payload})
}

func newAccountService(t *testing.T) (*AccountService, *storetest.Accounts, *recordingEvents) {
	t.Helper()
	repo := storetest.NewAccounts()
	events := &recordingEvents{}
	svc := NewAccountService(repo, auth.NewPasswordHasher(4), auth.NewTokenIssuer("test-secret", time.Hour), events)
	return svc, repo, events
}

func TestRegisterCreatesClient(t *testing.T) {
	svc, repo, events := newAccountService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "Ann", "Lee", "ann@x.io", strongPassword)
	require.NoError(t, err)

	assert.Equal(t, types.RoleClient, account.Role)
	assert.Empty(t, account.PasswordHash)
	assert.Equal(t, 1, repo.Len())

	stored, err := repo.GetByEmail(ctx, "ann@x.io")
	require.NoError(t, err)
	assert.NotEqual(t, strongPassword, stored.PasswordHash)

	require.Len(t, events.events, 1)
	assert.Equal(t, mq.AccountRegistered, events.events[0].name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo, events := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "Lee", "ann@x.io", strongPassword)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Ann", "Again", "ann@x.io", strongPassword)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Equal(t, 1, repo.Len())
	assert.Len(t, events.events, 1)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "Lee", "ann@x.io", strongPassword)
	require.NoError(t, err)

	account, err := svc.Authenticate(ctx, "ann@x.io", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, "Ann", account.FirstName)
	assert.Empty(t, account.PasswordHash)

	_, err = svc.Authenticate(ctx, "ann@x.io", "Wr0ng$Password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@x.io", strongPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueTokenCarriesIdentity(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "Ann", "Lee", "ann@x.io", strongPassword)
	require.NoError(t, err)

	token, err := svc.IssueToken(account)
	require.NoError(t, err)
	assert.NotContains(t, token, strongPassword)
	assert.Equal(t, 3600, svc.TokenMaxAge())

	claims, err := auth.NewTokenIssuer("test-secret", time.Hour).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, types.RoleClient, claims.Role)
}

func TestUpdateProfileIsIdempotent(t *testing.T) {
	svc, repo, _ := newAccountService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "Ann", "Lee", "ann@x.io", strongPassword)
	require.NoError(t, err)

	first, err := svc.UpdateProfile(ctx, account.ID, "Anne", "Lee", "anne@x.io")
	require.NoError(t, err)
	second, err := svc.UpdateProfile(ctx, account.ID, "Anne", "Lee", "anne@x.io")
	require.NoError(t, err)

	assert.Equal(t, first.FirstName, second.FirstName)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, 1, repo.Len())

	_, err = svc.UpdateProfile(ctx, 99, "A", "B", "c@x.io")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "Ann", "Lee", "ann@x.io", strongPassword)
	require.NoError(t, err)

	updated, err := svc.UpdatePassword(ctx, account.ID, "N3w$ecretPassword")
	require.NoError(t, err)
	assert.Empty(t, updated.PasswordHash)

	_, err = svc.Authenticate(ctx, "ann@x.io", strongPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "ann@x.io", "N3w$ecretPassword")
	assert.NoError(t, err)

	_, err = svc.UpdatePassword(ctx, 42, "N3w$ecretPassword")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegisterStoreFailure(t *testing.T) {
	svc, repo, _ := newAccountService(t)
	repo.Err = errors.New("connection reset")

	_, err := svc.Register(context.Background(), "Ann", "Lee", "ann@x.io", strongPassword)
	assert.Error(t, err)
	assert.Equal(t, 0, repo.Len())
}

func TestEnsureDefaultAccounts(t *testing.T) {
	svc, repo, _ := newAccountService(t)
	ctx := context.Background()
	defaults := DefaultAccounts(config.SeedConfig{
		ClientPassword:   "I@mABas1cCl!3nt",
		EmployeePassword: "I@mAnEmpl0y33",
		AdminPassword:    "I@mAnAdm!n1strat0r",
	})

	accounts, err := svc.EnsureDefaultAccounts(ctx, defaults)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, types.RoleAdmin, accounts[2].Role)
	assert.Equal(t, 3, repo.Len())

	// A second run with a different password keeps the original one.
	defaults[1].Password = "Ch@ngedPassw0rd"
	_, err = svc.EnsureDefaultAccounts(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.Len())

	_, err = svc.Authenticate(ctx, "happy@340.edu", "I@mAnEmpl0y33")
	assert.NoError(t, err)
}
