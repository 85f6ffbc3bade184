package domain

import (
	"strconv"
	"strings"
)

// Storage keys mirror the keys the dashboard page persisted in browser storage.
const (
	NavigationKeyDashboardTab = "framework-dashboard-tab"
	navigationSubTabSuffix    = "-active-tab"
)

// NavigationState restores the dashboard tab and the per-family sub-tab.
type NavigationState struct {
	UserID       string            `json:"user_id"`
	DashboardTab int               `json:"dashboard_tab"`
	SubTabs      map[Family]string `json:"sub_tabs"`
}

// NavigationIntent is emitted when a user clicks a framework section on a card.
type NavigationIntent struct {
	FrameworkName string `json:"framework_name"`
	Section       string `json:"section"`
}

func NewNavigationState(userID string) NavigationState {
	return NavigationState{UserID: userID, SubTabs: map[Family]string{}}
}

// SubTabKey returns the storage key of the active sub-tab for a family.
func SubTabKey(f Family) string {
	return strings.ReplaceAll(string(f), "_", "-") + navigationSubTabSuffix
}

// Entries flattens the state into storage key/value pairs.
func (s NavigationState) Entries() map[string]string {
	out := map[string]string{
		NavigationKeyDashboardTab: strconv.Itoa(s.DashboardTab),
	}
	for family, section := range s.SubTabs {
		out[SubTabKey(family)] = section
	}
	return out
}

// NavigationStateFromEntries rebuilds the state, ignoring keys it does not know.
func NavigationStateFromEntries(userID string, entries map[string]string) NavigationState {
	state := NewNavigationState(userID)
	if raw, ok := entries[NavigationKeyDashboardTab]; ok {
		if tab, err := strconv.Atoi(raw); err == nil && tab >= 0 {
			state.DashboardTab = tab
		}
	}
	for _, family := range Families {
		if section, ok := entries[SubTabKey(family)]; ok && section != "" {
			state.SubTabs[family] = section
		}
	}
	return state
}
