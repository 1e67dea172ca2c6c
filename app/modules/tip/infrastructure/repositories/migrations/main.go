package tipmigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
