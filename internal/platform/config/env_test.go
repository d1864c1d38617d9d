package config

import (
	"testing"
	"time"
)

type testConfig struct {
	Addr    string        `env:"CONTACTBOOK_TEST_ADDR" envDefault:":8080"`
	LockTTL time.Duration `env:"CONTACTBOOK_TEST_LOCK_TTL" envDefault:"10s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.LockTTL != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("CONTACTBOOK_TEST_ADDR", ":9999")
	t.Setenv("CONTACTBOOK_TEST_LOCK_TTL", "2s")
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.LockTTL != 2*time.Second {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestParseEnvRejectsInvalid(t *testing.T) {
	t.Setenv("CONTACTBOOK_TEST_LOCK_TTL", "soon")
	var cfg testConfig
	if err := ParseEnv(&cfg); err == nil {
		t.Fatalf("expected parse error")
	}
}
