package postgres

import (
	"context"
	"fmt"
)

// Migrate applies the minimal schema. Statements are idempotent; the
// rights table enforces the one-subject invariant and grant uniqueness at
// the schema level, so malformed or duplicate rights are rejected at write
// time rather than discovered during lookups.
func Migrate(ctx context.Context, db *DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS groups (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			pseudo TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS rights (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			group_id UUID NULL REFERENCES groups(id) ON DELETE CASCADE,
			user_id UUID NULL REFERENCES users(id) ON DELETE CASCADE,
			resource_type TEXT NOT NULL,
			resource_instance UUID NULL,
			method TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT rights_one_subject CHECK ((group_id IS NULL) <> (user_id IS NULL)),
			CONSTRAINT rights_method CHECK (method IN ('GET', 'POST', 'PUT', 'DELETE'))
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rights_group_grant
			ON rights (group_id, resource_type, COALESCE(resource_instance, '00000000-0000-0000-0000-000000000000'::uuid), method)
			WHERE group_id IS NOT NULL;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rights_user_grant
			ON rights (user_id, resource_type, COALESCE(resource_instance, '00000000-0000-0000-0000-000000000000'::uuid), method)
			WHERE user_id IS NOT NULL;`,
		`CREATE TABLE IF NOT EXISTS signing_keys (
			name TEXT PRIMARY KEY,
			key_type TEXT NOT NULL,
			private_key_pem TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
