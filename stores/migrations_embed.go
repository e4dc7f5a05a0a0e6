package stores

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/oarkflow/squealx"
)

//go:embed permits_migrations.sql
var migrationsSQL string

func Migrate(db *squealx.DB) error {
	if _, err := db.ExecContext(context.Background(), migrationsSQL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
