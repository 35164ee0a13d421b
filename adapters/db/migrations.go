package db

import (
	_ "embed"
	"fmt"
)

//go:embed migrations/01_create_accounts.up.sql
var createAccountsUp string

//go:embed migrations/02_create_roles.up.sql
var createRolesUp string

//go:embed migrations/03_create_profiles.up.sql
var createProfilesUp string

//go:embed migrations/04_create_tasks.up.sql
var createTasksUp string

//go:embed migrations/05_create_revisions.up.sql
var createRevisionsUp string

// Migrate applies the schema in dependency order.
func (db *DB) Migrate() error {
	db.log.Debug("running migrations")

	steps := []struct {
		name string
		sql  string
	}{
		{"accounts", createAccountsUp},
		{"roles", createRolesUp},
		{"profiles", createProfilesUp},
		{"tasks", createTasksUp},
		{"revisions", createRevisionsUp},
	}

	for _, step := range steps {
		if _, err := db.conn.Exec(step.sql); err != nil {
			return fmt.Errorf("apply %s migration: %w", step.name, err)
		}
	}

	db.log.Debug("migrations finished")
	return nil
}
