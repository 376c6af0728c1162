package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	_, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatalf("default config invalid: %v", vr.Errors)
	}
	if cfg.RemoteMode() {
		t.Error("default mode should be simulated")
	}
	if len(cfg.Scoring.TitleRules) == 0 {
		t.Error("default config has no title rules")
	}
}

func TestNormalizeAndValidate_RejectsBadMode(t *testing.T) {
	cfg := Default()
	cfg.Dashboard.Mode = " Bogus "
	out, vr := NormalizeAndValidate(cfg)
	if vr.OK() {
		t.Fatal("expected validation error for mode")
	}
	if out.Dashboard.Mode != "bogus" {
		t.Errorf("mode not normalized: %q", out.Dashboard.Mode)
	}
	if err := vr.Err(); err == nil || !strings.Contains(err.Error(), "dashboard.mode") {
		t.Errorf("Err: got %v", err)
	}
}

func TestNormalizeAndValidate_EmailRequiresHost(t *testing.T) {
	cfg := Default()
	cfg.Email.Enabled = true
	cfg.Email.IMAPHost = ""
	cfg.Email.Username = "me@example.com"
	_, vr := NormalizeAndValidate(cfg)
	if vr.OK() {
		t.Fatal("expected error for missing imap_host")
	}
}

func TestNormalizeAndValidate_DedupesTerms(t *testing.T) {
	cfg := Default()
	cfg.Scoring.KeywordRules = []Rule{{Tag: "SQL", Weight: 5, Any: []string{" SQL ", "sql", "", "tableau"}}}
	out, _ := NormalizeAndValidate(cfg)
	got := out.Scoring.KeywordRules[0].Any
	if len(got) != 2 || got[0] != "SQL" || got[1] != "tableau" {
		t.Errorf("terms: got %v", got)
	}
}

func TestEnsureUserConfigAndSaveAtomic(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir, Defaults)
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg.Dashboard.Mode = ModeRemote
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("expected backup file: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !again.RemoteMode() {
		t.Error("saved mode not persisted")
	}

	// existing config is left alone
	if _, err := EnsureUserConfig(dir, []byte("app: {port: 1}")); err != nil {
		t.Fatal(err)
	}
	kept, _ := Load(filepath.Join(dir, "config.yml"))
	if !kept.RemoteMode() {
		t.Error("EnsureUserConfig overwrote an existing config")
	}
}

func TestSaveAtomic_RejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.App.Port = 0
	if err := SaveAtomic(filepath.Join(t.TempDir(), "config.yml"), cfg); err == nil {
		t.Fatal("expected error saving invalid config")
	}
}

func TestLockDataDir_Exclusive(t *testing.T) {
	dir := t.TempDir()
	l, err := LockDataDir(dir)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	defer func() { _ = l.Unlock() }()

	if _, err := LockDataDir(dir); err == nil {
		t.Error("second lock should fail while the first is held")
	}
}
