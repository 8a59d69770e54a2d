package sqlxrepos

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/univxyz/transkrip/storage/database"
)

// prepareDB connects to the postgres instance named by TEST_DATABASE_URL,
// migrates it and wipes any rows left by a previous run. The suite is
// skipped when the variable is unset so unit runs need no database.
func prepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	db.MustExec(`TRUNCATE grade_history, grades, students, courses, staff RESTART IDENTITY CASCADE`)
	return db
}
