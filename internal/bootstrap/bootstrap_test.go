package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/kirillkom/framework-progress/internal/config"
)

func TestResilienceConfigFollowsEnvironment(t *testing.T) {
	cfg := config.Config{
		UpstreamRetryMaxAttempts:          3,
		UpstreamBreakerEnabled:            false,
		UpstreamBreakerMinRequests:        4,
		UpstreamBreakerFailureRatio:       0.25,
		UpstreamBreakerOpenTimeoutSeconds: 12,
	}

	got := resilienceConfig(cfg)
	if got.Retry.MaxAttempts != 3 || got.Breaker.Enabled {
		t.Fatalf("unexpected retry/breaker settings: %+v", got)
	}
	if got.Breaker.MinRequests != 4 || got.Breaker.FailureRatio != 0.25 || got.Breaker.OpenTimeout != 12*time.Second {
		t.Fatalf("unexpected breaker thresholds: %+v", got)
	}
}

func TestNewBuildsDashboardPipelineWithoutExternalServices(t *testing.T) {
	app, err := New(context.Background(), config.Config{ComplianceAPIURL: "http://127.0.0.1:1"}, Options{})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	if app.Dashboards == nil {
		t.Fatalf("expected dashboard service")
	}
	if app.Navigation != nil || app.Reports != nil || app.Queue != nil {
		t.Fatalf("optional components must stay nil unless requested")
	}
}

func TestNewFailsOnBrokenRegistry(t *testing.T) {
	_, err := New(context.Background(), config.Config{FrameworkRegistryPath: t.TempDir() + "/missing.yaml"}, Options{})
	if err == nil {
		t.Fatalf("expected registry load error")
	}
}
