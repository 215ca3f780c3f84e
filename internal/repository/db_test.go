package repository

import (
	"context"
	"testing"
	"time"

	"edulearn/internal/database"
	"edulearn/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the application schema.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPoolFromURL(ctx, connStr, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func seedUser(t *testing.T, pool *pgxpool.Pool, email string, role model.Role) int64 {
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, password_hash, full_name, role) VALUES ($1, 'x', 'Test User', $2) RETURNING id`,
		email, role,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedCourse(t *testing.T, pool *pgxpool.Pool, instructorID int64, price int64) int64 {
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO courses (title, price, instructor_id) VALUES ('Course', $1, $2) RETURNING id`,
		decimal.NewFromInt(price), instructorID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedLessons(t *testing.T, pool *pgxpool.Pool, courseID int64, n int) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		var id int64
		err := pool.QueryRow(context.Background(),
			`INSERT INTO lessons (course_id, title, position) VALUES ($1, 'Lesson', $2) RETURNING id`,
			courseID, i,
		).Scan(&id)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestActiveOnly(t *testing.T) {
	assert.Equal(t, "is_deleted = FALSE", activeOnly(""))
	assert.Equal(t, "c.is_deleted = FALSE", activeOnly("c"))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	// setupTestDB already applied the schema once
	err := database.RunMigrations(context.Background(), pool, zerolog.Nop())
	assert.NoError(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	seedUser(t, pool, "dup@example.com", model.RoleStudent)

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (email, password_hash, role) VALUES ('DUP@example.com', 'x', 'student')`)

	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
	assert.False(t, isUniqueViolation(assert.AnError))
}
