package user_service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	return NewUserService(db.NewStore(conn), &logging.Logger{Logger: l}, "USD"), mock
}

var userColumns = []string{
	"id", "email", "first_name", "last_name", "preferred_currency", "role",
	"created_at", "updated_at",
}

func userRow(id int64, preferredCurrency interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userColumns).
		AddRow(id, "traveler@example.com", "A", "B", preferredCurrency, "customer", now, now)
}

func TestAccountExists(t *testing.T) {
	service, mock := newTestUserService(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(7)).
		WillReturnRows(userRow(7, "USD"))

	exists, err := service.AccountExists(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(8)).
		WillReturnError(sql.ErrNoRows)

	exists, err = service.AccountExists(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferredCurrencyFallsBackToDefault(t *testing.T) {
	service, mock := newTestUserService(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(7)).
		WillReturnRows(userRow(7, "MNT"))

	preferred, err := service.PreferredCurrency(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "MNT", preferred)

	// Unset preference falls back to the configured default.
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(8)).
		WillReturnRows(userRow(8, nil))

	preferred, err = service.PreferredCurrency(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "USD", preferred)

	// Unsupported preference falls back too.
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(9)).
		WillReturnRows(userRow(9, "EUR"))

	preferred, err = service.PreferredCurrency(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "USD", preferred)

	require.NoError(t, mock.ExpectationsWereMet())
}
