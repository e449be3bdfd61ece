package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"tribuna/internal/auth"
	"tribuna/internal/config"
	apperrors "tribuna/internal/errors"
	"tribuna/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	nextID  int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	// Mirrors the unique constraint on users.email.
	if _, exists := f.byEmail[user.Email]; exists {
		return apperrors.ErrEmailTaken
	}
	f.nextID++
	user.ID = f.nextID
	user.RegisteredAt = time.Now()
	copied := *user
	f.byEmail[user.Email] = &copied
	return nil
}

// blindEmailStore skips the email lookup so inserts race straight into the
// uniqueness constraint, like two concurrent registrations would.
type blindEmailStore struct{ *fakeUserStore }

func (s blindEmailStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

var testJWT = config.JWTConfig{Secret: "test-secret", TTL: time.Hour}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testJWT)

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:     "Jane.Doe@Example.com",
		Password:  "correct-horse",
		FirstName: "Jane",
		Surname:   "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.Role)
	assert.Equal(t, "jane.doe@example.com", resp.Email)
	assert.NotEmpty(t, resp.Token)

	// The stored password is hashed, never plaintext.
	stored := store.byEmail["jane.doe@example.com"]
	require.NotNil(t, stored)
	assert.NotContains(t, stored.PasswordHash, "correct-horse")

	login, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "jane.doe@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, login.UserID)

	claims, err := auth.ParseAccessToken(testJWT.Secret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.UserID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterAdminRole(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), testJWT)

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:     "boss@example.com",
		Password:  "long-enough-pass",
		FirstName: "Big",
		Surname:   "Boss",
		Role:      models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)

	// An unknown role falls back to a regular user.
	resp, err = svc.Register(context.Background(), &models.RegisterRequest{
		Email:     "other@example.com",
		Password:  "long-enough-pass",
		FirstName: "Some",
		Surname:   "One",
		Role:      "superuser",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), testJWT)

	req := &models.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "correct-horse",
		FirstName: "Jane",
		Surname:   "Doe",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestRegisterDuplicateEmailPastPrecheck(t *testing.T) {
	svc := NewAuthService(blindEmailStore{newFakeUserStore()}, testJWT)

	req := &models.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "correct-horse",
		FirstName: "Jane",
		Surname:   "Doe",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	// The pre-check saw no user, so the insert itself reports the conflict.
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), testJWT)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "  ",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "jane@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), testJWT)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "correct-horse",
		FirstName: "Jane",
		Surname:   "Doe",
	})
	require.NoError(t, err)

	// Wrong password and unknown email yield the same error.
	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestEmailNormalized(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testJWT)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:     "  JANE@EXAMPLE.COM ",
		Password:  "correct-horse",
		FirstName: "Jane",
		Surname:   "Doe",
	})
	require.NoError(t, err)

	for email := range store.byEmail {
		assert.Equal(t, strings.ToLower(strings.TrimSpace(email)), email)
	}

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "Jane@Example.com",
		Password: "correct-horse",
	})
	assert.NoError(t, err)
}
