package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

func TestDecodeReportRequestRejectsIncompletePayload(t *testing.T) {
	for _, raw := range []string{`not json`, `{"report_id": ""}`, `{"report_id": "r-1", "project_id": 0}`} {
		if _, err := decodeReportRequest([]byte(raw)); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("decodeReportRequest(%s) expected invalid input, got %v", raw, err)
		}
	}
}

func TestEncodeDecodeReportRequest(t *testing.T) {
	payload, err := encodeReportRequest(domain.ReportRequest{ReportID: "r-1", ProjectID: 4})
	if err != nil {
		t.Fatalf("encodeReportRequest() error = %v", err)
	}
	got, err := decodeReportRequest(payload)
	if err != nil {
		t.Fatalf("decodeReportRequest() error = %v", err)
	}
	if got.ReportID != "r-1" || got.ProjectID != 4 {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestClassifyNATSError(t *testing.T) {
	if class := classifyNATSError(nats.ErrNoServers); !class.Retryable {
		t.Fatalf("no servers should be retryable")
	}
	if class := classifyNATSError(context.Canceled); class.Retryable || class.RecordFailure {
		t.Fatalf("cancellation must not be retried or recorded: %+v", class)
	}
	if class := classifyNATSError(errors.New("boom")); class.Retryable || !class.RecordFailure {
		t.Fatalf("unknown errors are permanent failures: %+v", class)
	}
	if class := classifyNATSError(nats.ErrMaxPayload); class.RecordFailure {
		t.Fatalf("oversized messages must not trip the breaker")
	}
}

func TestWrapPublishError(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{err: nats.ErrConnectionClosed, kind: domain.ErrTemporary},
		{err: nats.ErrMaxPayload, kind: domain.ErrInvalidInput},
		{err: errors.New("permanent"), kind: domain.ErrUpstream},
	}
	for _, tc := range cases {
		if err := wrapPublishError(tc.err); !domain.IsKind(err, tc.kind) {
			t.Fatalf("wrapPublishError(%v) = %v, want kind %v", tc.err, err, tc.kind)
		}
	}
	if wrapPublishError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
