package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/preview-resolver/internal/pkg/distlock"
)

// lockKey serialises migration runs across deploys.
const lockKey = "preview-resolver:migrate"

// migrationFiles returns the .sql files in dir in apply order.
func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// listTables prints the resolver's tables.
func listTables(db *sql.DB) error {
	rows, err := db.Query(`SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename IN ('posts', 'tiers', 'posts_tiers')
		ORDER BY tablename`)
	if err != nil {
		return err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return err
		}
		fmt.Println(" ", t)
		n++
	}
	fmt.Printf("Total: %d tables\n", n)
	return rows.Err()
}

// apply runs each file in its own transaction and reports per-file results.
func apply(db *sql.DB, dir string, files []string) (okCount, errCount int) {
	for _, f := range files {
		path := filepath.Join(dir, f)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		content := string(data)
		if strings.TrimSpace(content) == "" {
			continue
		}
		fmt.Printf("  %s ... ", f)

		tx, err := db.Begin()
		if err != nil {
			fmt.Printf("BEGIN ERROR: %v\n", err)
			errCount++
			continue
		}
		if _, err := tx.Exec(content); err != nil {
			tx.Rollback()
			fmt.Printf("ERROR: %v\n", err)
			errCount++
			continue
		}
		if err := tx.Commit(); err != nil {
			fmt.Printf("COMMIT ERROR: %v\n", err)
			errCount++
			continue
		}
		fmt.Println("OK")
		okCount++
	}
	return okCount, errCount
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	dir := "migrations"
	listOnly := false
	for _, a := range os.Args[1:] {
		if a == "--list" {
			listOnly = true
		} else {
			dir = a
		}
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping: %v", err)
	}
	log.Println("Connected to database")

	if listOnly {
		if err := listTables(db); err != nil {
			log.Fatal(err)
		}
		return
	}

	files, err := migrationFiles(dir)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	lock := distlock.NewPGAdvisoryLock(db, lockKey)
	if err := lock.Wait(ctx, time.Second); err != nil {
		log.Fatalf("migration lock: %v", err)
	}
	defer lock.Release(context.Background())

	okCount, errCount := apply(db, dir, files)
	log.Printf("Done: %d OK, %d errors", okCount, errCount)
	if errCount > 0 {
		log.Println("Migrations finished with errors")
		return
	}
	log.Println("Migrations complete")
}
