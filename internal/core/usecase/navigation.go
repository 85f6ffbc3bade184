package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kirillkom/framework-progress/internal/core/domain"
	"github.com/kirillkom/framework-progress/internal/core/ports"
	"github.com/kirillkom/framework-progress/internal/core/progress"
)

type NavigationUseCase struct {
	store    ports.NavigationStore
	families *progress.Discriminator
}

func NewNavigationUseCase(store ports.NavigationStore, families *progress.Discriminator) *NavigationUseCase {
	return &NavigationUseCase{store: store, families: families}
}

func (uc *NavigationUseCase) Get(ctx context.Context, userID string) (domain.NavigationState, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.NavigationState{}, domain.WrapError(domain.ErrInvalidInput, "get navigation", errors.New("user id is required"))
	}
	entries, err := uc.store.Load(ctx, userID)
	if err != nil {
		return domain.NavigationState{}, fmt.Errorf("load navigation state: %w", err)
	}
	return domain.NavigationStateFromEntries(userID, entries), nil
}

func (uc *NavigationUseCase) Save(ctx context.Context, state domain.NavigationState) (domain.NavigationState, error) {
	state.UserID = strings.TrimSpace(state.UserID)
	if err := validateNavigationState(state); err != nil {
		return domain.NavigationState{}, domain.WrapError(domain.ErrInvalidInput, "save navigation", err)
	}
	if state.SubTabs == nil {
		state.SubTabs = map[domain.Family]string{}
	}
	if err := uc.store.Save(ctx, state.UserID, state.Entries()); err != nil {
		return domain.NavigationState{}, fmt.Errorf("save navigation state: %w", err)
	}
	return state, nil
}

// ApplyIntent moves the dashboard to the clicked framework section and
// persists the result.
func (uc *NavigationUseCase) ApplyIntent(ctx context.Context, userID string, intent domain.NavigationIntent) (domain.NavigationState, string, error) {
	current, err := uc.Get(ctx, userID)
	if err != nil {
		return domain.NavigationState{}, "", err
	}
	next, route, err := progress.ApplyIntent(uc.families, current, intent)
	if err != nil {
		return domain.NavigationState{}, "", err
	}
	saved, err := uc.Save(ctx, next)
	if err != nil {
		return domain.NavigationState{}, "", err
	}
	return saved, route, nil
}

func validateNavigationState(state domain.NavigationState) error {
	if state.UserID == "" {
		return errors.New("user id is required")
	}
	if state.DashboardTab < 0 || state.DashboardTab >= len(domain.Families) {
		return fmt.Errorf("dashboard tab %d out of range", state.DashboardTab)
	}
	for family, section := range state.SubTabs {
		if !slices.Contains(progress.SectionsFor(family), section) {
			return fmt.Errorf("section %q is not valid for %s", section, family)
		}
	}
	return nil
}
