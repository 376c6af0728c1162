package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobdash-engine/internal/domain"
)

type ApplicationInsert struct {
	JobID      int64
	Status     domain.ApplicationStatus
	FolderPath string
	Template   string
	Notes      string
}

const applicationColumns = `id, job_id, package_id, status, folder_path, template, notes, follow_up_date, created_at, updated_at`

func scanApplication(row interface{ Scan(...any) error }) (domain.Application, error) {
	var a domain.Application
	var status, created, updated string
	if err := row.Scan(
		&a.ID, &a.JobID, &a.PackageID, &status, &a.FolderPath, &a.Template,
		&a.Notes, &a.FollowUpDate, &created, &updated,
	); err != nil {
		return domain.Application{}, err
	}
	a.Status = domain.ApplicationStatus(status)
	a.CreatedAt = parseDate(created)
	a.UpdatedAt = parseDate(updated)
	return a, nil
}

// NewPackageID names an application package before it is written to disk.
func NewPackageID() string {
	return uuid.NewString()
}

func CreateApplication(ctx context.Context, db *sql.DB, packageID string, in ApplicationInsert) (domain.Application, error) {
	if in.Status == "" {
		in.Status = domain.StatusNotApplied
	}
	if packageID == "" {
		packageID = NewPackageID()
	}
	now := formatDate(time.Now())
	res, err := db.ExecContext(ctx, `
INSERT INTO applications (job_id, package_id, status, folder_path, template, notes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		in.JobID, packageID, string(in.Status), in.FolderPath, in.Template, in.Notes, now, now)
	if err != nil {
		return domain.Application{}, fmt.Errorf("insert application: %w", err)
	}
	id, _ := res.LastInsertId()
	return GetApplication(ctx, db, id)
}

func GetApplication(ctx context.Context, db *sql.DB, id int64) (domain.Application, error) {
	row := db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?;`, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Application{}, fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	return a, err
}

// LatestApplication returns the newest application for a job.
func LatestApplication(ctx context.Context, db *sql.DB, jobID int64) (domain.Application, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+applicationColumns+` FROM applications
WHERE job_id = ? ORDER BY id DESC LIMIT 1;`, jobID)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Application{}, fmt.Errorf("application for job %d: %w", jobID, ErrNotFound)
	}
	return a, err
}

func ListApplications(ctx context.Context, db *sql.DB, status domain.ApplicationStatus) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY updated_at DESC, id DESC;`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type StatusUpdate struct {
	Status       domain.ApplicationStatus
	Notes        string // appended when non-empty
	FollowUpDate string // replaced when non-empty
}

// UpdateApplicationStatus moves the newest application of a job to a new status,
// creating a draft application first if the job has none.
func UpdateApplicationStatus(ctx context.Context, db *sql.DB, jobID int64, up StatusUpdate) (domain.Application, error) {
	if _, err := GetJob(ctx, db, jobID); err != nil {
		return domain.Application{}, err
	}

	app, err := LatestApplication(ctx, db, jobID)
	if errors.Is(err, ErrNotFound) {
		app, err = CreateApplication(ctx, db, "", ApplicationInsert{JobID: jobID})
	}
	if err != nil {
		return domain.Application{}, err
	}

	notes := app.Notes
	if up.Notes != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += up.Notes
	}
	follow := app.FollowUpDate
	if up.FollowUpDate != "" {
		follow = up.FollowUpDate
	}

	if _, err := db.ExecContext(ctx, `
UPDATE applications SET status = ?, notes = ?, follow_up_date = ?, updated_at = ?
WHERE id = ?;`,
		string(up.Status), notes, follow, formatDate(time.Now()), app.ID); err != nil {
		return domain.Application{}, fmt.Errorf("update application: %w", err)
	}
	return GetApplication(ctx, db, app.ID)
}
