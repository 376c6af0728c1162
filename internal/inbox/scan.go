// Package inbox watches the job-search mailbox for recruiter replies and moves
// the matching applications along the pipeline.
package inbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"jobdash-engine/internal/config"
	"jobdash-engine/internal/domain"
	"jobdash-engine/internal/store"
)

var ErrDisabled = errors.New("email scanning disabled")

// Update is one application moved by a reply.
type Update struct {
	JobID       int64                    `json:"jobId"`
	Company     string                   `json:"company"`
	Subject     string                   `json:"subject"`
	Kind        Kind                     `json:"kind"`
	From        domain.ApplicationStatus `json:"from"`
	To          domain.ApplicationStatus `json:"to"`
	Application domain.Application       `json:"application"`
}

type Result struct {
	Scanned int      `json:"scanned"`
	Updates []Update `json:"updates"`
}

type Scanner struct {
	DB       *sql.DB
	Config   func() config.Config
	Password func(config.Config) (string, error)
	Log      *zap.Logger
	Now      func() time.Time
}

// ScanOnce fetches unseen mail, applies every classified reply and marks the
// processed messages seen.
func (s *Scanner) ScanOnce(ctx context.Context) (Result, error) {
	cfg := s.Config()
	if !cfg.Email.Enabled {
		return Result{}, ErrDisabled
	}
	if cfg.Email.IMAPHost == "" || cfg.Email.Username == "" {
		return Result{}, errors.New("email enabled but imap_host/username missing")
	}
	pw, err := s.Password(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("imap password: %w", err)
	}

	addr := net.JoinHostPort(cfg.Email.IMAPHost, strconv.Itoa(cfg.Email.IMAPPort))
	c, err := dial(ctx, addr, cfg.Email.IMAPHost, cfg.Email.Username, pw)
	if err != nil {
		return Result{}, err
	}
	defer s.logout(c)

	if _, err := c.Select(cfg.Email.Mailbox, nil).Wait(); err != nil {
		return Result{}, fmt.Errorf("imap select %q: %w", cfg.Email.Mailbox, err)
	}

	msgs, err := fetchUnseen(ctx, c, s.now(), cfg.Email.MaxMessages)
	if err != nil {
		return Result{}, err
	}

	res := Result{Scanned: len(msgs), Updates: []Update{}}
	var seen []uint32
	for _, m := range msgs {
		up, ok, err := s.Apply(ctx, m)
		if err != nil {
			// leave unseen so the next pass retries it
			s.log().Warn("apply reply", zap.String("subject", m.Subject), zap.Error(err))
			continue
		}
		if ok {
			res.Updates = append(res.Updates, up)
		}
		seen = append(seen, m.UID)
	}
	if err := markSeen(c, seen); err != nil {
		return res, err
	}
	return res, nil
}

// Apply classifies one message and advances the newest sent application of the
// first company it names. Applications never move backwards.
func (s *Scanner) Apply(ctx context.Context, m Message) (Update, bool, error) {
	cls := Classify(m.Subject, m.Body)
	target, ok := cls.Kind.Status()
	if !ok {
		return Update{}, false, nil
	}

	jobs, err := store.CompanyJobs(ctx, s.DB, m.Subject+"\n"+m.From+"\n"+m.Body)
	if err != nil {
		return Update{}, false, err
	}
	for _, job := range jobs {
		app, err := store.LatestApplication(ctx, s.DB, job.ID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return Update{}, false, err
		}
		if !app.Status.Sent() {
			continue
		}
		if target.Rank() <= app.Status.Rank() {
			return Update{}, false, nil
		}

		updated, err := store.UpdateApplicationStatus(ctx, s.DB, job.ID, store.StatusUpdate{
			Status: target,
			Notes:  fmt.Sprintf("%s email: %s", s.now().Format("2006-01-02"), strings.TrimSpace(m.Subject)),
		})
		if err != nil {
			return Update{}, false, err
		}
		s.log().Info("application advanced",
			zap.Int64("job_id", job.ID),
			zap.String("company", job.Company),
			zap.String("kind", string(cls.Kind)),
			zap.String("to", string(target)))
		return Update{
			JobID:       job.ID,
			Company:     job.Company,
			Subject:     m.Subject,
			Kind:        cls.Kind,
			From:        app.Status,
			To:          target,
			Application: updated,
		}, true, nil
	}
	return Update{}, false, nil
}

func (s *Scanner) logout(c *imapclient.Client) {
	if err := c.Logout().Wait(); err != nil {
		s.log().Debug("imap logout", zap.Error(err))
	}
	_ = c.Close()
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scanner) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
