package store

import (
	"database/sql"
	"fmt"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company TEXT NOT NULL,
  title TEXT NOT NULL,
  location TEXT NOT NULL,
  platform TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  score INTEGER NOT NULL DEFAULT 0,
  priority TEXT NOT NULL DEFAULT '',
  tags TEXT NOT NULL DEFAULT '[]',
  date TEXT NOT NULL,
  source_id TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS applications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_id INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
  package_id TEXT NOT NULL,
  status TEXT NOT NULL,
  folder_path TEXT NOT NULL DEFAULT '',
  template TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  follow_up_date TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_jobs_date ON jobs(date);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_source_id ON jobs(source_id) WHERE source_id != '';`,
		`CREATE INDEX IF NOT EXISTS idx_applications_job ON applications(job_id);`,
		`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("index: %w", err)
		}
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
