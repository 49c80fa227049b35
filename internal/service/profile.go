package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

// ProfileService manages the per-namespace salary profile.
type ProfileService struct {
	store storage.Store
	now   func() time.Time
}

func NewProfileService(store storage.Store) *ProfileService {
	return &ProfileService{store: store, now: time.Now}
}

// Get returns the stored profile, or a zero-salary USD default when none
// has been saved yet.
func (s *ProfileService) Get(ctx context.Context, userID string) core.UserProfile {
	def := core.UserProfile{
		ID:       "default",
		Salary:   core.Money{},
		Currency: "USD",
	}
	return storage.Load(ctx, s.store, storage.Key(userID, storage.KindProfile), def)
}

// ProfilePatch carries a partial profile update. Nil fields keep their
// stored values.
type ProfilePatch struct {
	Salary   *core.Money
	Currency *string
}

// Update applies a patch to the stored profile in a single write.
func (s *ProfileService) Update(ctx context.Context, userID string, patch ProfilePatch) (core.UserProfile, error) {
	profile := s.Get(ctx, userID)
	if patch.Salary != nil {
		profile.Salary = *patch.Salary
	}
	if patch.Currency != nil {
		profile.Currency = *patch.Currency
	}
	return s.save(ctx, userID, profile)
}

// SetSalary updates the monthly salary, keeping the stored currency.
func (s *ProfileService) SetSalary(ctx context.Context, userID string, salary core.Money) (core.UserProfile, error) {
	return s.Update(ctx, userID, ProfilePatch{Salary: &salary})
}

// SetCurrency updates the display currency.
func (s *ProfileService) SetCurrency(ctx context.Context, userID, currency string) (core.UserProfile, error) {
	return s.Update(ctx, userID, ProfilePatch{Currency: &currency})
}

func (s *ProfileService) save(ctx context.Context, userID string, profile core.UserProfile) (core.UserProfile, error) {
	if err := profile.Validate(); err != nil {
		return core.UserProfile{}, err
	}

	now := s.now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if err := storage.Save(ctx, s.store, storage.Key(userID, storage.KindProfile), profile); err != nil {
		return core.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}

	slog.InfoContext(ctx, "Profile updated",
		applog.FieldUserID, userID,
		applog.FieldSalaryCents, profile.Salary.Cents,
		applog.FieldCurrency, profile.Currency)
	return profile, nil
}
