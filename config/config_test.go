package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loading without a config file: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("addr default: got %q", cfg.Addr)
	}
	if !cfg.Cashier.AutoDispatch {
		t.Error("auto_dispatch should default to true")
	}
	if cfg.Cashier.BroadcastTimeout != 30*time.Second {
		t.Errorf("broadcast_timeout default: got %v", cfg.Cashier.BroadcastTimeout)
	}
	if limit := cfg.Cashier.Limits["btc"]; limit.MinAmount != 0.001 || limit.MaxDailyAmount != 1 {
		t.Errorf("btc limit defaults: got %+v", limit)
	}
	if limit := cfg.Cashier.Limits["eth"]; limit.MinAmount != 0.01 || limit.MaxDailyAmount != 10 {
		t.Errorf("eth limit defaults: got %+v", limit)
	}
}

func TestLoadStillRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: [unterminated"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error loading malformed config")
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
addr: ":9090"
cashier:
  auto_dispatch: false
  limits:
    btc:
      min_amount: 0.005
      max_daily_amount: 0.5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("addr: got %q", cfg.Addr)
	}
	if cfg.Cashier.AutoDispatch {
		t.Error("auto_dispatch override lost")
	}
	if limit := cfg.Cashier.Limits["btc"]; limit.MinAmount != 0.005 || limit.MaxDailyAmount != 0.5 {
		t.Errorf("btc limit override: got %+v", limit)
	}
}
