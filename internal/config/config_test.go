package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

func TestLoadDefaultsDisableUpstreamRetries(t *testing.T) {
	t.Setenv("UPSTREAM_RETRY_MAX_ATTEMPTS", "")
	t.Setenv("FETCH_CONCURRENCY", "")
	t.Setenv("UPSTREAM_BREAKER_ENABLED", "")

	cfg := Load()
	if cfg.UpstreamRetryMaxAttempts != 1 {
		t.Fatalf("expected a single upstream attempt by default, got %d", cfg.UpstreamRetryMaxAttempts)
	}
	if cfg.FetchConcurrency != 8 {
		t.Fatalf("expected default fetch concurrency 8, got %d", cfg.FetchConcurrency)
	}
	if !cfg.UpstreamBreakerEnabled {
		t.Fatalf("expected breaker enabled by default")
	}
}

func TestLoadParsesOverridesAndIgnoresGarbage(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_MAX_IN_FLIGHT", "not-a-number")
	t.Setenv("UPSTREAM_BREAKER_ENABLED", "false")
	t.Setenv("COMPLIANCE_API_URL", "https://backend.internal/api")

	cfg := Load()
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rps 2.5, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIMaxInFlight != 64 {
		t.Fatalf("expected fallback max in flight 64, got %d", cfg.APIMaxInFlight)
	}
	if cfg.UpstreamBreakerEnabled {
		t.Fatalf("expected breaker disabled")
	}
	if cfg.ComplianceAPIURL != "https://backend.internal/api" {
		t.Fatalf("unexpected compliance url %q", cfg.ComplianceAPIURL)
	}
}

func TestLoadFrameworkRegistryDefault(t *testing.T) {
	ids, err := LoadFrameworkRegistry("")
	if err != nil {
		t.Fatalf("LoadFrameworkRegistry() error = %v", err)
	}
	want := map[int]domain.Family{2: domain.FamilyISO42001, 3: domain.FamilyISO27001, 4: domain.FamilyNISTAIRMF}
	if len(ids) != len(want) {
		t.Fatalf("unexpected registry: %+v", ids)
	}
	for id, family := range want {
		if ids[id] != family {
			t.Fatalf("framework %d: expected %s, got %s", id, family, ids[id])
		}
	}
}

func TestLoadFrameworkRegistryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frameworks.yaml")
	if err := os.WriteFile(path, []byte("frameworks:\n  - id: 17\n    family: iso27001\n"), 0o600); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	ids, err := LoadFrameworkRegistry(path)
	if err != nil {
		t.Fatalf("LoadFrameworkRegistry() error = %v", err)
	}
	if len(ids) != 1 || ids[17] != domain.FamilyISO27001 {
		t.Fatalf("unexpected registry: %+v", ids)
	}
}

func TestParseFrameworkRegistryRejectsUnknownFamily(t *testing.T) {
	if _, err := ParseFrameworkRegistry([]byte("frameworks:\n  - id: 1\n    family: eu_ai_act\n")); err == nil {
		t.Fatalf("expected error for unknown family")
	}
	if _, err := ParseFrameworkRegistry([]byte("frameworks:\n  - id: 1\n    family: iso27001\n  - id: 1\n    family: iso42001\n")); err == nil {
		t.Fatalf("expected error for duplicate id")
	}
}
