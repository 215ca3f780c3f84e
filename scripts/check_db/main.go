package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"edulearn/internal/config"

	"github.com/jackc/pgx/v5"
)

// Checks that the configured database is reachable and lists its tables.
// Reads the same DB_* variables as the API server.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName, version string
	err = conn.QueryRow(ctx, "SELECT current_database(), version()").Scan(&dbName, &version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)
	fmt.Printf("Server: %s\n", version)

	rows, err := conn.Query(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' ORDER BY table_name`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to list tables: %v\n", err)
		os.Exit(1)
	}

	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to read tables: %v\n", err)
		os.Exit(1)
	}

	if len(tables) == 0 {
		fmt.Println("No tables found; start the API with DB_RUN_MIGRATIONS=true")
		return
	}

	fmt.Println("Tables:")
	for _, t := range tables {
		fmt.Printf("  - %s\n", t)
	}
}
