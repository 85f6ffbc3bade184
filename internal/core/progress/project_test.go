package progress

import (
	"testing"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

func TestParseProjectFrameworksUnwrapsEnvelope(t *testing.T) {
	raw := []byte(`{"message": "OK", "data": {"id": 7, "project_title": "Chatbot", "framework": [
		{"framework_id": 3, "name": "ISO 27001", "project_framework_id": 11},
		{"framework_id": "2", "name": "ISO 42001", "project_framework_id": "12"},
		{"framework_id": 9, "name": "broken"}
	]}}`)

	got, err := ParseProjectFrameworks(raw)
	if err != nil {
		t.Fatalf("ParseProjectFrameworks() error = %v", err)
	}
	want := []domain.FrameworkInstance{
		{FrameworkID: 3, FrameworkName: "ISO 27001", ProjectFrameworkID: 11},
		{FrameworkID: 2, FrameworkName: "ISO 42001", ProjectFrameworkID: 12},
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected frameworks: %+v", got)
	}
}

func TestParseProjectFrameworksEmptyList(t *testing.T) {
	got, err := ParseProjectFrameworks([]byte(`{"framework": []}`))
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %+v, %v", got, err)
	}
}

func TestParseProjectFrameworksRejectsUnexpectedShape(t *testing.T) {
	if _, err := ParseProjectFrameworks([]byte(`{"project": {}}`)); !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
