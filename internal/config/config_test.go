package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Scan.MaxConcurrent != 2 {
		t.Errorf("Scan.MaxConcurrent = %d, want %d", cfg.Scan.MaxConcurrent, 2)
	}
	if cfg.Scan.ProgressEvery != 10 {
		t.Errorf("Scan.ProgressEvery = %d, want %d", cfg.Scan.ProgressEvery, 10)
	}
	if cfg.Rate.RequestsPerMinute != 120 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 120)
	}
	if cfg.Security.RequireAPIKey {
		t.Error("Security.RequireAPIKey = true, want false")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCAN_MAX_CONCURRENT", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Scan.MaxConcurrent != 4 {
		t.Errorf("Scan.MaxConcurrent = %d, want %d", cfg.Scan.MaxConcurrent, 4)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SCAN_TIMEOUT", "45m")
	t.Setenv("SCAN_MAX_WAIT_TIME", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scan.Timeout != 45*time.Minute {
		t.Errorf("Scan.Timeout = %v, want %v", cfg.Scan.Timeout, 45*time.Minute)
	}
	if cfg.Scan.MaxWaitTime != 90*time.Second {
		t.Errorf("Scan.MaxWaitTime = %v, want %v", cfg.Scan.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("REQUIRE_API_KEY", "true")
	t.Setenv("API_KEYS", "alpha, beta , gamma")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"alpha", "beta", "gamma"}
	if len(cfg.Security.APIKeys) != len(want) {
		t.Fatalf("len(APIKeys) = %d, want %d", len(cfg.Security.APIKeys), len(want))
	}
	for i, k := range want {
		if cfg.Security.APIKeys[i] != k {
			t.Errorf("APIKeys[%d] = %q, want %q", i, cfg.Security.APIKeys[i], k)
		}
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for out-of-range port")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SCAN_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for malformed duration")
	}
}

func TestLoad_APIKeyRequiredButEmpty(t *testing.T) {
	t.Setenv("REQUIRE_API_KEY", "true")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error when auth is required without keys")
	}
}

func TestAddr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := c.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:8080")
	}

	c = ServerConfig{Host: "", Port: 9000}
	if got := c.Addr(); got != ":9000" {
		t.Errorf("Addr() = %q, want %q", got, ":9000")
	}
}
