package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"edulearn/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("edulearn_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.RunMigrations(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedUser inserts a user and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, email, role string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, password_hash, full_name, role) VALUES ($1, 'x', $1, $2) RETURNING id`,
		email, role,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}

// SeedCourse inserts a course with the given number of lessons and returns
// the course id and lesson ids.
func SeedCourse(t *testing.T, pool *pgxpool.Pool, instructorID int64, price int64, lessons int) (int64, []int64) {
	t.Helper()

	ctx := context.Background()

	var courseID int64
	err := pool.QueryRow(ctx,
		`INSERT INTO courses (title, price, instructor_id) VALUES ('Go in Practice', $1, $2) RETURNING id`,
		decimal.NewFromInt(price), instructorID,
	).Scan(&courseID)
	if err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}

	lessonIDs := make([]int64, 0, lessons)
	for i := range lessons {
		var id int64
		err := pool.QueryRow(ctx,
			`INSERT INTO lessons (course_id, title, position) VALUES ($1, $2, $3) RETURNING id`,
			courseID, fmt.Sprintf("Lesson %d", i+1), i,
		).Scan(&id)
		if err != nil {
			t.Fatalf("failed to seed lesson: %v", err)
		}
		lessonIDs = append(lessonIDs, id)
	}

	return courseID, lessonIDs
}

// SeedVoucher inserts a voucher and returns its id.
func SeedVoucher(t *testing.T, pool *pgxpool.Pool, code string, percent int, usageLimit *int) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO vouchers (code, discount_percent, usage_limit) VALUES ($1, $2, $3) RETURNING id`,
		code, percent, usageLimit,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed voucher %s: %v", code, err)
	}
	return id
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	tables := []string{
		"voucher_redemptions", "completed_lessons", "progress", "cart_items", "wishlist_items",
		"reviews", "blogs", "orders", "vouchers", "lessons", "modules", "courses", "users",
	}
	_, err := pool.Exec(context.Background(), "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}
