package store

import (
	"context"
	"database/sql"
	"fmt"

	"jobdash-engine/internal/domain"
)

// Analytics summarizes the tracker. Only the newest application per job counts.
func Analytics(ctx context.Context, db *sql.DB) (domain.Analytics, error) {
	var out domain.Analytics

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&out.Total); err != nil {
		return out, fmt.Errorf("count jobs: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
SELECT a.status, COUNT(*)
FROM applications a
WHERE a.id = (SELECT MAX(b.id) FROM applications b WHERE b.job_id = a.job_id)
GROUP BY a.status;`)
	if err != nil {
		return out, fmt.Errorf("count applications: %w", err)
	}
	defer rows.Close()

	byStatus := map[domain.ApplicationStatus]int{}
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return out, err
		}
		byStatus[domain.ApplicationStatus(st)] = n
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	tracked := 0
	responded := 0
	for st, n := range byStatus {
		tracked += n
		if st.Sent() {
			out.Sent += n
		}
		if st.Responded() {
			responded += n
		}
		if st == domain.StatusInterview || st == domain.StatusOffer {
			out.Interviews += n
		}
	}

	out.ResponseRate = "0%"
	if out.Sent > 0 {
		out.ResponseRate = fmt.Sprintf("%d%%", responded*100/out.Sent)
	}

	// Jobs with no application yet sit in the first stage.
	untracked := out.Total - tracked
	if untracked < 0 {
		untracked = 0
	}
	out.Pipeline = map[string]int{}
	for _, st := range domain.PipelineStages {
		out.Pipeline[string(st)] = byStatus[st]
	}
	out.Pipeline[string(domain.StatusNotApplied)] += untracked

	return out, nil
}
