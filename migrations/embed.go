package migrations

import (
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var sqlFiles embed.FS

// Up накатывает все встроенные миграции на пул.
func Up(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(sqlFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("не удалось применить миграции: %w", err)
	}
	return nil
}
