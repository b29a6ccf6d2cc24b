package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"compressor_runtime/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = conn.Close()
	})
	return NewUserRepository(conn), mock
}

func TestUserRepository_Create(t *testing.T) {
	insert := regexp.QuoteMeta(insertUserSQL)

	tests := []struct {
		name    string
		expect  func(sqlmock.Sqlmock)
		wantID  int
		wantIs  error
		wantMsg string
	}{
		{
			name: "created",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(insert).WithArgs("operator1", "hash").WillReturnResult(sqlmock.NewResult(42, 1))
			},
			wantID: 42,
		},
		{
			name: "username taken",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(insert).WithArgs("operator1", "hash").
					WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"))
			},
			wantIs: ErrUsernameTaken,
		},
		{
			name: "exec failure",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(insert).WithArgs("operator1", "hash").WillReturnError(errors.New("database is locked"))
			},
			wantMsg: `insert user "operator1"`,
		},
		{
			name: "missing insert id",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(insert).WithArgs("operator1", "hash").
					WillReturnResult(sqlmock.NewErrorResult(errors.New("no rowid")))
			},
			wantMsg: "get last insert id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := userRepoWithMock(t)
			tt.expect(mock)

			id, err := repo.Create(context.Background(), "operator1", "hash")
			switch {
			case tt.wantIs != nil:
				require.ErrorIs(t, err, tt.wantIs)
				assert.Zero(t, id)
			case tt.wantMsg != "":
				require.ErrorContains(t, err, tt.wantMsg)
				assert.NotErrorIs(t, err, ErrUsernameTaken)
				assert.Zero(t, id)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	query := regexp.QuoteMeta(selectUserByUsernameSQL)

	t.Run("found", func(t *testing.T) {
		repo, mock := userRepoWithMock(t)
		mock.ExpectQuery(query).WithArgs("shift-lead").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(7, "shift-lead", "h"))

		u, err := repo.GetByUsername(context.Background(), "shift-lead")
		require.NoError(t, err)
		assert.Equal(t, &models.User{ID: 7, Username: "shift-lead", PasswordHash: "h"}, u)
	})

	t.Run("unknown user is nil without error", func(t *testing.T) {
		repo, mock := userRepoWithMock(t)
		mock.ExpectQuery(query).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

		u, err := repo.GetByUsername(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("query failure", func(t *testing.T) {
		repo, mock := userRepoWithMock(t)
		mock.ExpectQuery(query).WithArgs("shift-lead").WillReturnError(errors.New("disk I/O error"))

		u, err := repo.GetByUsername(context.Background(), "shift-lead")
		require.ErrorContains(t, err, `select user "shift-lead"`)
		assert.Nil(t, u)
	})
}
