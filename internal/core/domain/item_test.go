package domain

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"":                        StatusNotStarted,
		"   ":                     StatusNotStarted,
		"implemented":             StatusImplemented,
		" IN   progress ":         StatusInProgress,
		"awaiting\tapproval":      StatusAwaitingApproval,
		"needs rework":            StatusNeedsRework,
		"Something Else Entirely": "Something Else Entirely",
	}
	for raw, want := range cases {
		if got := NormalizeStatus(raw); got != want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestItemImplementedAndAssignedAreIndependent(t *testing.T) {
	owner := 3
	implementedOnly := Item{Status: " implemented"}
	assignedOnly := Item{Status: "Audited", Owner: &owner}

	if !implementedOnly.Implemented() || implementedOnly.Assigned() {
		t.Fatalf("unexpected flags for %+v", implementedOnly)
	}
	if assignedOnly.Implemented() || !assignedOnly.Assigned() {
		t.Fatalf("audited is not implemented for ratio purposes: %+v", assignedOnly)
	}
}
