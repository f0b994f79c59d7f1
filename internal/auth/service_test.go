package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/config"
)

type fakeRepo struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return apperr.Validation("email already registered")
	}
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, u *User) error {
	stored, ok := f.byID[u.ID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	if other, ok := f.byEmail[u.Email]; ok && other.ID != u.ID {
		return apperr.Validation("email already registered")
	}
	delete(f.byEmail, stored.Email)
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:      "test-secret",
		Issuer:      "healthai",
		TokenExpire: time.Hour,
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc := NewService(newFakeRepo(), testJWTConfig())

	u, token, err := svc.Register(context.Background(), "Jane Doe", "Jane@Example.com ", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, RolePatient, u.Role)
	assert.NotEqual(t, "s3cret!", u.PasswordHash)

	logged, token2, err := svc.Login(context.Background(), "jane@example.com", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, token2)
	assert.Equal(t, u.ID, logged.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), testJWTConfig())

	_, _, err := svc.Register(context.Background(), "", "jane@example.com", "s3cret!")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, _, err = svc.Register(context.Background(), "Jane", "jane@example.com", "short")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	svc := NewService(newFakeRepo(), testJWTConfig())

	_, _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret!")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "Other Jane", "jane@example.com", "different")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestLoginWrongPasswordFails(t *testing.T) {
	svc := NewService(newFakeRepo(), testJWTConfig())

	_, _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret!")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "jane@example.com", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))

	// Unknown email is indistinguishable from a wrong password.
	_, _, err = svc.Login(context.Background(), "nobody@example.com", "s3cret!")
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))
}

func TestParseTokenRoundTrip(t *testing.T) {
	svc := NewService(newFakeRepo(), testJWTConfig())

	u, token, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret!")
	require.NoError(t, err)

	identity, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.ID)
	assert.Equal(t, "jane@example.com", identity.Email)
	assert.Equal(t, RolePatient, identity.Role)
	assert.False(t, identity.Anonymous())
}

func TestParseTokenRejectsForgedSecret(t *testing.T) {
	svc := NewService(newFakeRepo(), testJWTConfig())

	forger := NewService(newFakeRepo(), config.JWTConfig{
		Secret:      "other-secret",
		Issuer:      "healthai",
		TokenExpire: time.Hour,
	})
	_, token, err := forger.Register(context.Background(), "Eve", "eve@example.com", "s3cret!")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))
}

func TestListUsersIsAdminOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testJWTConfig())

	u, _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret!")
	require.NoError(t, err)

	_, err = svc.ListUsers(context.Background(), Identity{ID: u.ID, Role: RolePatient})
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))

	users, err := svc.ListUsers(context.Background(), Identity{ID: uuid.New(), Role: RoleAdmin})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "jane@example.com", users[0].Email)
}

func TestUpdateProfileChangesNameAndEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), testJWTConfig())

	u, _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret!")
	require.NoError(t, err)
	actor := Identity{ID: u.ID, Role: RolePatient}

	updated, err := svc.UpdateProfile(context.Background(), actor, "Jane Q. Doe", "Jane.Doe@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", updated.Name)
	assert.Equal(t, "jane.doe@example.com", updated.Email)

	// Login works against the new email afterwards.
	_, _, err = svc.Login(context.Background(), "jane.doe@example.com", "s3cret!")
	require.NoError(t, err)
}

func TestUpdateProfileValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), testJWTConfig())

	u, _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret!")
	require.NoError(t, err)
	actor := Identity{ID: u.ID, Role: RolePatient}

	_, err = svc.UpdateProfile(context.Background(), actor, "  ", "jane@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.UpdateProfile(context.Background(), Identity{}, "Jane", "jane@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))
}

func TestUpdateProfileDuplicateEmailFails(t *testing.T) {
	svc := NewService(newFakeRepo(), testJWTConfig())

	_, _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret!")
	require.NoError(t, err)
	other, _, err := svc.Register(context.Background(), "John", "john@example.com", "s3cret!")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), Identity{ID: other.ID, Role: RolePatient}, "John", "jane@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.TokenExpire = -time.Minute
	svc := NewService(newFakeRepo(), cfg)

	_, token, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret!")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))
}
