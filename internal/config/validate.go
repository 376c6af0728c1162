package config

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a normalized copy and the validation result.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Dashboard.Mode = strings.ToLower(strings.TrimSpace(out.Dashboard.Mode))
	out.Dashboard.RemoteBaseURL = strings.TrimRight(strings.TrimSpace(out.Dashboard.RemoteBaseURL), "/")
	for i := range out.Scoring.TitleRules {
		out.Scoring.TitleRules[i].Any = trimList(out.Scoring.TitleRules[i].Any)
	}
	for i := range out.Scoring.KeywordRules {
		out.Scoring.KeywordRules[i].Any = trimList(out.Scoring.KeywordRules[i].Any)
	}
	for i := range out.Scoring.Penalties {
		out.Scoring.Penalties[i].Any = trimList(out.Scoring.Penalties[i].Any)
	}

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if _, err := zapcore.ParseLevel(out.App.LogLevel); err != nil {
		res.addErr("app.log_level %q is not a valid level", out.App.LogLevel)
	}

	switch out.Dashboard.Mode {
	case ModeSimulated, ModeRemote:
	default:
		res.addErr("dashboard.mode must be %q or %q", ModeSimulated, ModeRemote)
	}
	if u, err := url.Parse(out.Dashboard.RemoteBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		res.addErr("dashboard.remote_base_url must be an absolute URL")
	}
	if out.Dashboard.TimeoutSeconds <= 0 {
		res.addErr("dashboard.timeout_seconds must be > 0")
	}
	if out.Dashboard.RatePerSecond <= 0 {
		res.addErr("dashboard.rate_per_second must be > 0")
	}
	if out.Dashboard.RateBurst <= 0 {
		res.addErr("dashboard.rate_burst must be > 0")
	}

	if out.Polling.InboxSeconds <= 0 {
		res.addErr("polling.inbox_seconds must be > 0")
	} else if out.Polling.InboxSeconds < 60 {
		res.addWarn("polling.inbox_seconds is very low (%d) and may cause rate limits.", out.Polling.InboxSeconds)
	}

	// email required fields if enabled (password not required here; it’s in keychain)
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Mailbox) == "" {
			res.addErr("email.mailbox is required when email.enabled=true")
		}
	}

	if out.Scoring.MediumPriorityMin > out.Scoring.HighPriorityMin {
		res.addErr("scoring.medium_priority_min must not exceed scoring.high_priority_min")
	}
	checkRules := func(name string, rules []Rule) {
		for i, r := range rules {
			if r.Tag == "" {
				res.addErr("%s[%d].tag is required", name, i)
			}
			if len(r.Any) == 0 {
				res.addErr("%s[%d].any must have at least 1 term", name, i)
			}
			if r.Weight <= 0 {
				res.addWarn("%s[%d] (%s) has non-positive weight; it can never count as a strength.", name, i, r.Tag)
			}
		}
	}
	checkRules("scoring.title_rules", out.Scoring.TitleRules)
	checkRules("scoring.keyword_rules", out.Scoring.KeywordRules)
	for i, p := range out.Scoring.Penalties {
		if p.Reason == "" {
			res.addErr("scoring.penalties[%d].reason is required", i)
		}
		if len(p.Any) == 0 {
			res.addErr("scoring.penalties[%d].any must have at least 1 term", i)
		}
	}
	if len(out.Scoring.TitleRules)+len(out.Scoring.KeywordRules) == 0 {
		res.addWarn("no scoring rules configured; every fit analysis will score 0.")
	}

	if strings.TrimSpace(out.Applications.OutputDir) == "" {
		res.addErr("applications.output_dir is required")
	}

	return out, res
}
