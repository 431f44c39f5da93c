package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-admin-backend/internal/features/user/models"
	"user-admin-backend/internal/features/user/repository"
)

// --- fake repository ---

type fakeRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeRepo) GetByLogin(_ context.Context, login string) (*models.User, error) {
	for _, u := range f.users {
		if u.Login == login {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeRepo) GetByCredentials(_ context.Context, login, password string, requireAdmin bool) (*models.User, error) {
	for _, u := range f.users {
		if u.Login == login && u.Password == password && (!requireAdmin || u.IsAdmin) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeRepo) ExistsByLogin(_ context.Context, login string) (bool, error) {
	for _, u := range f.users {
		if u.Login == login {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if u.RevokedBy == "" {
			copied := *u
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedOn.Before(out[j].CreatedOn) })
	return out, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRepo) Insert(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Login == user.Login {
			return repository.ErrDuplicateLogin
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepo) Update(_ context.Context, user *models.User) error {
	current, ok := f.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for _, u := range f.users {
		if u.ID != user.ID && u.Login == user.Login {
			return repository.ErrDuplicateLogin
		}
	}
	*current = *user
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, login string) error {
	for id, u := range f.users {
		if u.Login == login {
			delete(f.users, id)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func newServiceWithRepo(t *testing.T) (UserService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewUserService(repo), repo
}

func mustCreate(t *testing.T, svc UserService, params CreateUserParams) *models.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), params)
	require.NoError(t, err)
	return user
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- create ---

func TestCreateUser_SetsAuditAndSentinels(t *testing.T) {
	svc, _ := newServiceWithRepo(t)

	before := time.Now().UTC()
	user := mustCreate(t, svc, CreateUserParams{
		Login: "ann1", Password: "pass1", Name: "Ann",
		Gender: models.GenderMan, Birthday: date(2000, time.June, 15),
		CreatedBy: "admin",
	})

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "admin", user.CreatedBy)
	assert.False(t, user.CreatedOn.Before(before))
	assert.Equal(t, models.FarFuture, user.ModifiedOn)
	assert.Empty(t, user.ModifiedBy)
	assert.Equal(t, models.FarFuture, user.RevokedOn)
	assert.Empty(t, user.RevokedBy)
	assert.False(t, user.IsRevoked())

	found, err := svc.FindByLogin(context.Background(), "ann1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "Active", found.ActiveStatus())
}

func TestCreateUser_ZeroBirthdayBecomesSentinel(t *testing.T) {
	svc, _ := newServiceWithRepo(t)

	user := mustCreate(t, svc, CreateUserParams{
		Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin",
	})

	assert.Equal(t, models.FarFuture, user.Birthday)
	assert.False(t, user.HasBirthday())
}

func TestCreateUser_DuplicateLogin(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "ann1", Password: "pass1", Name: "Ann", CreatedBy: "admin"})

	_, err := svc.CreateUser(context.Background(), CreateUserParams{
		Login: "ann1", Password: "other1", Name: "Other", CreatedBy: "admin",
	})
	assert.ErrorIs(t, err, ErrDuplicateLogin)
}

func TestCreateUser_DuplicateAgainstRevokedLogin(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "ann1", Password: "pass1", Name: "Ann", CreatedBy: "admin"})
	require.NoError(t, svc.SoftDeleteUser(context.Background(), "ann1", "admin"))

	_, err := svc.CreateUser(context.Background(), CreateUserParams{
		Login: "ann1", Password: "other1", Name: "Other", CreatedBy: "admin",
	})
	assert.ErrorIs(t, err, ErrDuplicateLogin)
}

func TestCreateUser_DuplicateWinsOverValidation(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "ann1", Password: "pass1", Name: "Ann", CreatedBy: "admin"})

	// Both conditions fail; the uniqueness check runs first.
	_, err := svc.CreateUser(context.Background(), CreateUserParams{
		Login: "ann1", Password: "bad pass!", Name: "Ann", CreatedBy: "admin",
	})
	assert.ErrorIs(t, err, ErrDuplicateLogin)
}

func TestCreateUser_ValidationReportsField(t *testing.T) {
	svc, _ := newServiceWithRepo(t)

	tests := []struct {
		name   string
		params CreateUserParams
		field  string
	}{
		{"bad login", CreateUserParams{Login: "bad login", Password: "pass1", Name: "Ann"}, "login"},
		{"bad password", CreateUserParams{Login: "ann1", Password: "bad pass!", Name: "Ann"}, "password"},
		{"bad name", CreateUserParams{Login: "ann1", Password: "pass1", Name: "Ann Lee"}, "name"},
		{"empty name", CreateUserParams{Login: "ann1", Password: "pass1", Name: ""}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.params)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

// --- change operations ---

func TestChangeUserName_UpdatesAndStamps(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})

	before := time.Now().UTC()
	require.NoError(t, svc.ChangeUserName(context.Background(), "bob", "Robert", "admin"))

	user, err := svc.FindByLogin(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "Robert", user.Name)
	assert.Equal(t, "admin", user.ModifiedBy)
	assert.False(t, user.ModifiedOn.Before(before))
	assert.NotEqual(t, models.FarFuture, user.ModifiedOn)
}

func TestChangeUserName_InvalidName(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})

	var validationErr *ValidationError
	err := svc.ChangeUserName(context.Background(), "bob", "Bad Name!", "admin")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Field)
}

func TestChangeUserName_AbsentTarget(t *testing.T) {
	svc, _ := newServiceWithRepo(t)

	// The lookup runs before the name check for this operation, so an
	// absent target wins even with an invalid name.
	err := svc.ChangeUserName(context.Background(), "ghost", "Bad Name!", "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangeUserGender_NoRangeCheck(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})

	require.NoError(t, svc.ChangeUserGender(context.Background(), "bob", 42, "admin"))

	user, err := svc.FindByLogin(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 42, user.Gender)
	assert.Equal(t, "admin", user.ModifiedBy)
}

func TestChangeUserBirthday(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})

	birthday := date(1990, time.January, 2)
	require.NoError(t, svc.ChangeUserBirthday(context.Background(), "bob", birthday, "admin"))

	user, err := svc.FindByLogin(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, user.Birthday.Equal(birthday))
}

func TestChangeUserPassword_ValidatedBeforeLookup(t *testing.T) {
	svc, _ := newServiceWithRepo(t)

	// The password check runs before the target lookup, so a bad
	// password surfaces even for an absent login.
	var validationErr *ValidationError
	err := svc.ChangeUserPassword(context.Background(), "ghost", "bad pass!", "ghost")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "password", validationErr.Field)
}

func TestChangeUserPassword_Success(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})

	require.NoError(t, svc.ChangeUserPassword(context.Background(), "bob", "newpass1", "bob"))

	_, err := svc.FindAuthorized(context.Background(), "bob", "newpass1", false)
	assert.NoError(t, err)
	_, err = svc.FindAuthorized(context.Background(), "bob", "pass1", false)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestChangeUserLogin_OrderOfChecks(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})
	mustCreate(t, svc, CreateUserParams{Login: "ann1", Password: "pass1", Name: "Ann", CreatedBy: "admin"})

	// Uniqueness first.
	err := svc.ChangeUserLogin(context.Background(), "ghost", "ann1", "admin")
	assert.ErrorIs(t, err, ErrDuplicateLogin)

	// Charset second.
	var validationErr *ValidationError
	err = svc.ChangeUserLogin(context.Background(), "ghost", "bad login", "admin")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "login", validationErr.Field)

	// Lookup third.
	err = svc.ChangeUserLogin(context.Background(), "ghost", "fresh", "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangeUserLogin_Success(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})

	require.NoError(t, svc.ChangeUserLogin(context.Background(), "bob", "robert", "admin"))

	_, err := svc.FindByLogin(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	user, err := svc.FindByLogin(context.Background(), "robert")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.ModifiedBy)
}

// --- credential check ---

func TestFindAuthorized(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})
	mustCreate(t, svc, CreateUserParams{Login: "root", Password: "secret1", Name: "Root", CreatedBy: "admin", IsAdmin: true})

	user, err := svc.FindAuthorized(context.Background(), "bob", "pass1", false)
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Login)

	// Admin flag required but absent.
	_, err = svc.FindAuthorized(context.Background(), "bob", "pass1", true)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.FindAuthorized(context.Background(), "root", "secret1", true)
	assert.NoError(t, err)

	// Comparison is exact, case included.
	_, err = svc.FindAuthorized(context.Background(), "bob", "PASS1", false)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFindAuthorized_RevokedStillMatches(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})
	require.NoError(t, svc.SoftDeleteUser(context.Background(), "bob", "admin"))

	// Revocation is checked by callers, not by the credential lookup.
	user, err := svc.FindAuthorized(context.Background(), "bob", "pass1", false)
	require.NoError(t, err)
	assert.True(t, user.IsRevoked())
}

// --- queries ---

func TestListActiveUsers_OrderedAndFiltered(t *testing.T) {
	svc, repo := newServiceWithRepo(t)

	first := mustCreate(t, svc, CreateUserParams{Login: "first", Password: "pass1", Name: "First", CreatedBy: "admin"})
	second := mustCreate(t, svc, CreateUserParams{Login: "second", Password: "pass1", Name: "Second", CreatedBy: "admin"})
	mustCreate(t, svc, CreateUserParams{Login: "gone", Password: "pass1", Name: "Gone", CreatedBy: "admin"})

	// Force a stable creation order; map-backed fake has no insert order.
	repo.users[first.ID].CreatedOn = date(2020, time.January, 1)
	repo.users[second.ID].CreatedOn = date(2021, time.January, 1)

	require.NoError(t, svc.SoftDeleteUser(context.Background(), "gone", "admin"))

	users, err := svc.ListActiveUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "first", users[0].Login)
	assert.Equal(t, "second", users[1].Login)
}

func TestFindByLogin_RevokedStatus(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})
	require.NoError(t, svc.SoftDeleteUser(context.Background(), "bob", "admin"))

	user, err := svc.FindByLogin(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "Revoked", user.ActiveStatus())
}

// --- soft delete / restore / hard delete ---

func TestSoftDeleteAndRestore(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})

	require.NoError(t, svc.SoftDeleteUser(context.Background(), "bob", "admin"))

	user, err := svc.FindByLogin(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, user.IsRevoked())
	assert.Equal(t, "admin", user.RevokedBy)
	assert.NotEqual(t, models.FarFuture, user.RevokedOn)
	// Soft delete does not touch the modification stamp.
	assert.Equal(t, models.FarFuture, user.ModifiedOn)

	require.NoError(t, svc.RestoreUser(context.Background(), "bob"))

	user, err = svc.FindByLogin(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, user.IsRevoked())
	assert.Empty(t, user.RevokedBy)
	assert.Equal(t, models.FarFuture, user.RevokedOn)
	assert.Equal(t, "Active", user.ActiveStatus())
}

func TestSoftDelete_AbsentTarget(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	assert.ErrorIs(t, svc.SoftDeleteUser(context.Background(), "ghost", "admin"), ErrNotFound)
	assert.ErrorIs(t, svc.RestoreUser(context.Background(), "ghost"), ErrNotFound)
}

func TestHardDelete(t *testing.T) {
	svc, _ := newServiceWithRepo(t)
	mustCreate(t, svc, CreateUserParams{Login: "bob", Password: "pass1", Name: "Bob", CreatedBy: "admin"})

	require.NoError(t, svc.HardDeleteUser(context.Background(), "bob"))

	_, err := svc.FindByLogin(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.HardDeleteUser(context.Background(), "bob"), ErrNotFound)
}
