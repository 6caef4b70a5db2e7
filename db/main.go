package db

import (
	"context"
	"database/sql"

	"github.com/cyverse-de/dbutil"
	"github.com/pkg/errors"

	_ "github.com/lib/pq"
)

// schemaStatements are executed in order by InitSchema. Each statement is safe to run against a database that has
// already been initialized. gen_random_uuid() is built in as of PostgreSQL 13; older servers need the pgcrypto
// extension.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		id uuid NOT NULL DEFAULT gen_random_uuid() PRIMARY KEY,
		user_id text NOT NULL CHECK (user_id <> ''),
		message text NOT NULL CHECK (message <> ''),
		type text NOT NULL CHECK (type IN ('email', 'sms', 'in-app')),
		read boolean NOT NULL DEFAULT false,
		created_at timestamp with time zone NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_user_id_created_at_index
		ON notifications (user_id, created_at DESC)`,
}

// InitDatabase establishes a database connection and verifies that the database can be reached.
func InitDatabase(driverName, databaseURI string) (*sql.DB, error) {
	wrapMsg := "unable to initialize the database"

	// Create a database connector to establish the connection.
	connector, err := dbutil.NewDefaultConnector("1m")
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Establish the database connection.
	db, err := connector.Connect(driverName, databaseURI)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return db, nil
}

// InitSchema creates the notifications table and its indexes if they don't exist already.
func InitSchema(ctx context.Context, db *sql.DB) error {
	wrapMsg := "unable to initialize the database schema"

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback() }()

	for _, statement := range schemaStatements {
		if _, err = tx.ExecContext(ctx, statement); err != nil {
			return errors.Wrap(err, wrapMsg)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}
