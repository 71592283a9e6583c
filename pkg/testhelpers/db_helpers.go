package testhelpers

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"incubator/pkg/db"
)

var uniqueCounter int64

func nextSuffix() int64 {
	return atomic.AddInt64(&uniqueCounter, 1)
}

// NewTestPool connects to DATABASE_URL_FOR_TEST, applies the schema and
// truncates every table. Tests are skipped when the variable is unset.
func NewTestPool(t *testing.T, schemaPath string) *pgxpool.Pool {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		t.Log("No .env file found, using environment variables")
	}
	dsn := os.Getenv("DATABASE_URL_FOR_TEST")
	if dsn == "" {
		t.Skip("DATABASE_URL_FOR_TEST not set; skipping integration tests")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.MaxConns = 4

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, db.ApplySchema(ctx, pool, schemaPath))

	_, err = pool.Exec(ctx, `TRUNCATE TABLE event_registrations, events, documents, registered_addresses,
		registration_details, founders, admins, startup_profiles RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	t.Cleanup(pool.Close)
	return pool
}

// CreateTestStartup inserts an unapproved startup profile and returns its public user_id.
func CreateTestStartup(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	userID := uuid.NewString()
	name := fmt.Sprintf("test-startup-%d", nextSuffix())
	_, err := pool.Exec(context.Background(),
		`INSERT INTO startup_profiles (user_id, name, entity_name, sector, categories, year, size)
		 VALUES ($1, $2, $2, 'tech', 'saas', 2022, 3)`, userID, name)
	require.NoError(t, err)
	return userID
}

// CreateTestFounder inserts a founder for the startup and returns its email.
func CreateTestFounder(t *testing.T, pool *pgxpool.Pool, startupUserID string) string {
	t.Helper()

	suffix := nextSuffix()
	email := fmt.Sprintf("founder-%d@example.com", suffix)
	_, err := pool.Exec(context.Background(),
		`INSERT INTO founders (founder_id, user_id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4, 'hash')`, uuid.NewString(), startupUserID, fmt.Sprintf("Founder %d", suffix), email)
	require.NoError(t, err)
	return email
}

// CreateTestEvent inserts an event dated one week out and returns its id.
func CreateTestEvent(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO events (name, date) VALUES ($1, $2) RETURNING id`,
		fmt.Sprintf("test-event-%d", nextSuffix()), time.Now().Add(7*24*time.Hour)).Scan(&id)
	require.NoError(t, err)
	return id
}
