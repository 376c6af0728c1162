// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ModeSimulated = "simulated"
	ModeRemote    = "remote"
)

type Rule struct {
	Tag    string   `yaml:"tag" json:"tag"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
	// Advice is shown as an improvement when the rule does not match.
	Advice string `yaml:"advice,omitempty" json:"advice,omitempty"`
}

type Penalty struct {
	Reason string   `yaml:"reason" json:"reason"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
}

type Config struct {
	App struct {
		Port     int    `yaml:"port" json:"port"`
		LogLevel string `yaml:"log_level" json:"logLevel"`
	} `yaml:"app" json:"app"`

	Dashboard struct {
		// Mode selects simulated UI flows or the remote tool service.
		Mode           string  `yaml:"mode" json:"mode"`
		RemoteBaseURL  string  `yaml:"remote_base_url" json:"remoteBaseURL"`
		TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeoutSeconds"`
		RatePerSecond  float64 `yaml:"rate_per_second" json:"ratePerSecond"`
		RateBurst      int     `yaml:"rate_burst" json:"rateBurst"`
		TokenAccount   string  `yaml:"token_account" json:"tokenAccount"`
	} `yaml:"dashboard" json:"dashboard"`

	Polling struct {
		InboxSeconds int `yaml:"inbox_seconds" json:"inboxSeconds"`
	} `yaml:"polling" json:"polling"`

	Email struct {
		Enabled     bool   `yaml:"enabled" json:"enabled"`
		IMAPHost    string `yaml:"imap_host" json:"imapHost"`
		IMAPPort    int    `yaml:"imap_port" json:"imapPort"`
		Username    string `yaml:"username" json:"username"`
		Mailbox     string `yaml:"mailbox" json:"mailbox"`
		MaxMessages int    `yaml:"max_messages" json:"maxMessages"`
	} `yaml:"email" json:"email"`

	Scoring struct {
		HighPriorityMin   int       `yaml:"high_priority_min" json:"highPriorityMin"`
		MediumPriorityMin int       `yaml:"medium_priority_min" json:"mediumPriorityMin"`
		TitleRules        []Rule    `yaml:"title_rules" json:"titleRules"`
		KeywordRules      []Rule    `yaml:"keyword_rules" json:"keywordRules"`
		Penalties         []Penalty `yaml:"penalties" json:"penalties"`
	} `yaml:"scoring" json:"scoring"`

	Applications struct {
		OutputDir       string `yaml:"output_dir" json:"outputDir"`
		DefaultTemplate string `yaml:"default_template" json:"defaultTemplate"`
	} `yaml:"applications" json:"applications"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 38471
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.Dashboard.Mode == "" {
		cfg.Dashboard.Mode = ModeSimulated
	}
	if cfg.Dashboard.RemoteBaseURL == "" {
		cfg.Dashboard.RemoteBaseURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.App.Port)
	}
	if cfg.Dashboard.TimeoutSeconds == 0 {
		cfg.Dashboard.TimeoutSeconds = 15
	}
	if cfg.Dashboard.RatePerSecond == 0 {
		cfg.Dashboard.RatePerSecond = 2
	}
	if cfg.Dashboard.RateBurst == 0 {
		cfg.Dashboard.RateBurst = 4
	}
	if cfg.Polling.InboxSeconds == 0 {
		cfg.Polling.InboxSeconds = 300
	}
	if cfg.Email.Mailbox == "" {
		cfg.Email.Mailbox = "INBOX"
	}
	if cfg.Email.IMAPPort == 0 {
		cfg.Email.IMAPPort = 993
	}
	if cfg.Email.MaxMessages == 0 {
		cfg.Email.MaxMessages = 50
	}
	if cfg.Scoring.HighPriorityMin == 0 {
		cfg.Scoring.HighPriorityMin = 80
	}
	if cfg.Scoring.MediumPriorityMin == 0 {
		cfg.Scoring.MediumPriorityMin = 60
	}
	if cfg.Applications.OutputDir == "" {
		cfg.Applications.OutputDir = "applications"
	}
	if cfg.Applications.DefaultTemplate == "" {
		cfg.Applications.DefaultTemplate = "Template 1"
	}
}

// RemoteMode reports whether dashboard actions should go through the tool service.
func (c Config) RemoteMode() bool { return c.Dashboard.Mode == ModeRemote }

func (c Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Dashboard.TimeoutSeconds) * time.Second
}

func (c Config) InboxInterval() time.Duration {
	return time.Duration(c.Polling.InboxSeconds) * time.Second
}
