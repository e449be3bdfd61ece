package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"tribuna/internal/database"
	apperrors "tribuna/internal/errors"
	"tribuna/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	return NewUserRepository(&database.DB{DB: mockDB}), mock
}

func TestCreateUser(t *testing.T) {
	repo, mock := newMockUserRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("jane@example.com", "hashed", "Jane", "Doe", models.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "registered_at"}).AddRow(int64(3), now))

	user := &models.User{
		Email:        "jane@example.com",
		PasswordHash: "hashed",
		FirstName:    "Jane",
		Surname:      "Doe",
		Role:         models.RoleUser,
	}

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(3), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	// The insert loses a race with a concurrent registration and hits the
	// unique constraint directly.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("jane@example.com", "hashed", "Jane", "Doe", models.RoleUser).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	user := &models.User{
		Email:        "jane@example.com",
		PasswordHash: "hashed",
		FirstName:    "Jane",
		Surname:      "Doe",
		Role:         models.RoleUser,
	}

	err := repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmailMissing(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, email, password_hash, first_name, surname, role, registered_at")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "password_hash", "first_name", "surname", "role", "registered_at"}))

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}
