package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresClient_FromDB(t *testing.T) {
	// Arrange
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(mockDB, "pgx")
	mock.ExpectPing()
	mock.ExpectClose()

	// Act
	client := NewPostgresClientFromDB(sqlxDB)

	// Assert
	assert.Same(t, sqlxDB, client.GetDB())
	require.NoError(t, client.GetDB().Ping())
	require.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresClient_UnreachableServer(t *testing.T) {
	client, err := NewPostgresClient(models.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		Username: "tracking",
		Password: "secret",
		Database: "orders",
		SSLMode:  "disable",
	})

	assert.Nil(t, client)
	assert.ErrorContains(t, err, "failed to ping postgres")
}
