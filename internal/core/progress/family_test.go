package progress

import (
	"testing"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

func TestFamilyOfFallsBackToName(t *testing.T) {
	d := NewDiscriminator(DefaultFrameworkIDs())
	instance := domain.FrameworkInstance{FrameworkID: 999, FrameworkName: "ISO 27001 — Information Security"}

	first := d.FamilyOf(instance)
	second := d.FamilyOf(instance)
	if first != domain.FamilyISO27001 || second != first {
		t.Fatalf("expected stable iso27001, got %q then %q", first, second)
	}
}

func TestFamilyOfPrefersIDTable(t *testing.T) {
	d := NewDiscriminator(map[int]domain.Family{3: domain.FamilyISO27001})
	got := d.FamilyOf(domain.FrameworkInstance{FrameworkID: 3, FrameworkName: "NIST AI RMF"})
	if got != domain.FamilyISO27001 {
		t.Fatalf("expected id table to win, got %q", got)
	}
}

func TestFamilyOfNamePriorityOrder(t *testing.T) {
	d := NewDiscriminator(nil)
	got := d.FamilyOf(domain.FrameworkInstance{FrameworkName: "Mapping ISO 42001 onto ISO 27001"})
	if got != domain.FamilyISO27001 {
		t.Fatalf("expected iso 27001 to win by priority, got %q", got)
	}
	got = d.FamilyOf(domain.FrameworkInstance{FrameworkName: "nist-ai-rmf"})
	if got != domain.FamilyNISTAIRMF {
		t.Fatalf("expected nist, got %q", got)
	}
}

func TestFamilyOfUnknown(t *testing.T) {
	var d *Discriminator
	got := d.FamilyOf(domain.FrameworkInstance{FrameworkID: 1, FrameworkName: "EU AI Act"})
	if got != domain.FamilyUnknown {
		t.Fatalf("expected unknown, got %q", got)
	}
	if term := TerminologyFor(got); term.Clauses != "Controls" {
		t.Fatalf("expected generic terminology, got %+v", term)
	}
}

func TestNewDiscriminatorCopiesTable(t *testing.T) {
	ids := map[int]domain.Family{7: domain.FamilyISO42001}
	d := NewDiscriminator(ids)
	ids[7] = domain.FamilyNISTAIRMF
	if got := d.FamilyOf(domain.FrameworkInstance{FrameworkID: 7}); got != domain.FamilyISO42001 {
		t.Fatalf("expected table snapshot, got %q", got)
	}
}
