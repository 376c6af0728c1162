package inbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// lookback bounds how far back unseen mail is considered.
const lookback = 90 * 24 * time.Hour

func dial(ctx context.Context, addr, host, username, password string) (*imapclient.Client, error) {
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial: %w", err)
	}

	// unblock pending commands on cancel
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })

	if err := c.Login(username, password).Wait(); err != nil {
		stop()
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

// fetchUnseen returns up to max unseen messages, newest first, without setting \Seen.
func fetchUnseen(ctx context.Context, c *imapclient.Client, now time.Time, max int) ([]Message, error) {
	found, err := c.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   now.Add(-lookback),
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}

	uids := found.AllUIDs()
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > max {
		uids = uids[:max]
	}
	if len(uids) == 0 {
		return []Message{}, nil
	}

	section := &imap.FetchItemBodySection{Peek: true}
	cmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{section},
	})
	defer cmd.Close()

	out := make([]Message, 0, len(uids))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data := cmd.Next()
		if data == nil {
			break
		}
		buf, err := data.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch: %w", err)
		}

		m := ParseMessage(buf.FindBodySection(section))
		m.UID = uint32(buf.UID)
		if env := buf.Envelope; env != nil {
			if m.Subject == "" {
				m.Subject = env.Subject
			}
			if m.Date.IsZero() {
				m.Date = env.Date
			}
			if len(env.From) > 0 && m.From == "" {
				m.From = env.From[0].Addr()
			}
		}
		out = append(out, m)
	}
	if err := cmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

func markSeen(c *imapclient.Client, uids []uint32) error {
	if len(uids) == 0 {
		return nil
	}
	set := make([]imap.UID, len(uids))
	for i, u := range uids {
		set[i] = imap.UID(u)
	}
	cmd := c.Store(imap.UIDSetNum(set...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap mark seen: %w", err)
	}
	return nil
}
