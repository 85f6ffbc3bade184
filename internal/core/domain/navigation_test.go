package domain

import "testing"

func TestNavigationEntriesRoundTrip(t *testing.T) {
	state := NewNavigationState("user-7")
	state.DashboardTab = 2
	state.SubTabs[FamilyNISTAIRMF] = "govern"
	state.SubTabs[FamilyISO27001] = "annexes"

	entries := state.Entries()
	if entries["framework-dashboard-tab"] != "2" {
		t.Fatalf("unexpected dashboard tab entry: %+v", entries)
	}
	if entries["nist-ai-rmf-active-tab"] != "govern" || entries["iso27001-active-tab"] != "annexes" {
		t.Fatalf("unexpected sub-tab entries: %+v", entries)
	}

	restored := NavigationStateFromEntries("user-7", entries)
	if restored.DashboardTab != 2 || restored.SubTabs[FamilyNISTAIRMF] != "govern" || len(restored.SubTabs) != 2 {
		t.Fatalf("unexpected restored state: %+v", restored)
	}
}

func TestNavigationStateFromEntriesIgnoresGarbage(t *testing.T) {
	state := NavigationStateFromEntries("u", map[string]string{
		"framework-dashboard-tab": "-1",
		"unrelated":               "x",
		"iso42001-active-tab":     "",
	})
	if state.DashboardTab != 0 || len(state.SubTabs) != 0 {
		t.Fatalf("expected defaults, got %+v", state)
	}
}

func TestWrapErrorKeepsKind(t *testing.T) {
	err := WrapError(ErrUpstream, "fetch", ErrTemporary)
	if !IsKind(err, ErrUpstream) || !IsKind(err, ErrTemporary) {
		t.Fatalf("expected both kinds in %v", err)
	}
	if WrapError(ErrNotFound, "op", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}
