package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobdash-engine/internal/domain"
)

type ListJobsOpts struct {
	Sort     string // score | date | company | title
	Window   string // 24h | 7d | all
	Priority string // HIGH | MEDIUM | LOW | "" for any
	Limit    int
}

type JobInsert struct {
	Company     string
	Title       string
	Location    string
	Platform    domain.Platform
	URL         string
	Description string
	Score       int
	Priority    string
	Tags        []string
	Date        time.Time
	SourceID    string
}

const jobColumns = `id, company, title, location, platform, url, description, score, priority, tags, date, source_id`

func scanJob(row interface{ Scan(...any) error }) (domain.Job, error) {
	var j domain.Job
	var platform, tagsJSON, dateStr string
	if err := row.Scan(
		&j.ID,
		&j.Company,
		&j.Title,
		&j.Location,
		&platform,
		&j.URL,
		&j.Description,
		&j.Score,
		&j.Priority,
		&tagsJSON,
		&dateStr,
		&j.SourceID,
	); err != nil {
		return domain.Job{}, err
	}
	j.Platform = domain.Platform(platform)
	_ = json.Unmarshal([]byte(tagsJSON), &j.Tags)
	if j.Tags == nil {
		j.Tags = []string{}
	}
	j.Date = parseDate(dateStr)
	return j, nil
}

func collectJobs(rows *sql.Rows) ([]domain.Job, error) {
	defer rows.Close()
	out := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]domain.Job, error) {
	if opts.Limit <= 0 || opts.Limit > 5000 {
		opts.Limit = 500
	}

	// whitelist sort columns (prevents SQL injection)
	order := map[string]string{
		"score":   "score DESC",
		"date":    "date DESC",
		"company": "company ASC",
		"title":   "title ASC",
	}[opts.Sort]
	if order == "" {
		order = "score DESC"
	}

	var where []string
	var args []any
	switch opts.Window {
	case "24h":
		where = append(where, "date >= datetime('now','-24 hours')")
	case "7d":
		where = append(where, "date >= datetime('now','-7 days')")
	}
	if opts.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, strings.ToUpper(opts.Priority))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s, id DESC LIMIT ?;", order)
	args = append(args, opts.Limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func GetJob(ctx context.Context, db *sql.DB, id int64) (domain.Job, error) {
	row := db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?;`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return j, err
}

// InsertJob adds a job. A non-empty SourceID that already exists is ignored and
// added is false.
func InsertJob(ctx context.Context, db *sql.DB, j JobInsert) (job domain.Job, added bool, err error) {
	if j.Date.IsZero() {
		j.Date = time.Now()
	}
	j.Company = domain.CleanText(j.Company)
	j.Title = domain.CleanText(j.Title)
	j.Location = domain.NormalizeLocation(j.Location)
	if j.Tags == nil {
		j.Tags = []string{}
	}
	tagsB, _ := json.Marshal(j.Tags)

	// relies on unique index on source_id WHERE source_id != ''
	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (company, title, location, platform, url, description, score, priority, tags, date, source_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		j.Company, j.Title, j.Location, string(j.Platform), j.URL, j.Description,
		j.Score, j.Priority, string(tagsB), formatDate(j.Date), j.SourceID,
	)
	if err != nil {
		return domain.Job{}, false, fmt.Errorf("insert job: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		row := db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE source_id = ?;`, j.SourceID)
		existing, err := scanJob(row)
		return existing, false, err
	}
	id, _ := res.LastInsertId()
	job, err = GetJob(ctx, db, id)
	return job, true, err
}

func DeleteJob(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return nil
}

type SearchOpts struct {
	Keywords   string
	Location   string
	Platforms  []domain.Platform // empty = all
	DaysPosted int               // 0 = any age
	Limit      int
}

// SearchJobs matches every keyword against title, company and description.
func SearchJobs(ctx context.Context, db *sql.DB, opts SearchOpts) ([]domain.Job, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	var where []string
	var args []any
	for _, kw := range strings.Fields(opts.Keywords) {
		where = append(where, "(title || ' ' || company || ' ' || description) LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(kw)+"%")
	}
	if loc := strings.TrimSpace(opts.Location); loc != "" {
		where = append(where, "location LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(loc)+"%")
	}
	if len(opts.Platforms) > 0 {
		marks := make([]string, len(opts.Platforms))
		for i, p := range opts.Platforms {
			marks[i] = "?"
			args = append(args, string(p))
		}
		where = append(where, "platform IN ("+strings.Join(marks, ",")+")")
	}
	if opts.DaysPosted > 0 {
		where = append(where, "date >= datetime('now', ?)")
		args = append(args, fmt.Sprintf("-%d days", opts.DaysPosted))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY score DESC, date DESC LIMIT ?;"
	args = append(args, opts.Limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return collectJobs(rows)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// CompanyJobs returns jobs whose company appears in text, longest names first.
func CompanyJobs(ctx context.Context, db *sql.DB, text string) ([]domain.Job, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+jobColumns+` FROM jobs
WHERE length(company) > 2 AND instr(lower(?), lower(company)) > 0
ORDER BY length(company) DESC, date DESC;`, text)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}
