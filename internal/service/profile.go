package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/color"
	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/sse"
	"github.com/shioriapp/shiori-server/internal/store"
	"github.com/shioriapp/shiori-server/internal/validation"
)

// ProfileService manages user profiles and their aesthetic summary.
type ProfileService struct {
	store     store.Store
	validator *validation.Validator
	events    EventEmitter
	logger    *slog.Logger
}

// NewProfileService creates a profile service. A nil emitter drops events.
func NewProfileService(
	store store.Store,
	validator *validation.Validator,
	events EventEmitter,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		store:     store,
		validator: validator,
		events:    emitterOrNoop(events),
		logger:    logger,
	}
}

// UpdateProfileRequest is a partial update. Nil fields are left unchanged,
// and an empty avatar_url clears the avatar.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitnil,notblank,max=40"`
	Bio       *string `json:"bio,omitempty" validate:"omitnil,max=280"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,http_url"`
}

// ProfileView is the profile screen: the stored profile plus the aesthetic
// profile computed from the user's liked books.
type ProfileView struct {
	Profile         *domain.Profile   `json:"profile"`
	AvatarColor     string            `json:"avatar_color"`
	AvatarTextColor string            `json:"avatar_text_color"`
	SavedCount      int               `json:"saved_count"`
	AestheticCount  int               `json:"aesthetic_count"`
	Aesthetic       aesthetic.Profile `json:"aesthetic"`
}

// Create stores the default profile for a new user, using username when
// given. An existing profile is returned unchanged.
func (s *ProfileService) Create(ctx context.Context, userID, username string) (*domain.Profile, error) {
	existing, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile := domain.NewProfile(userID)
	if name := strings.TrimSpace(username); name != "" {
		profile.Username = name
	}
	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

// GetOrCreate returns the user's profile, creating the default one if it
// is missing.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.Create(ctx, userID, "")
}

// Update applies a partial update and notifies the user's other devices.
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		profile.Username = strings.TrimSpace(*req.Username)
	}
	if req.Bio != nil {
		profile.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	profile.Touch()

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.events.Emit(sse.NewProfileUpdatedEvent(profile))
	s.logger.Debug("profile updated", "user_id", userID)

	return profile, nil
}

// Aesthetic builds the profile view. The aesthetic profile is recomputed
// from the liked books on every call.
func (s *ProfileService) Aesthetic(ctx context.Context, userID string) (*ProfileView, error) {
	profile, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	liked, err := s.store.ListLikedBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked books: %w", err)
	}

	summary := aggregateLiked(liked)
	avatar := color.ForUser(userID)

	return &ProfileView{
		Profile:         profile,
		AvatarColor:     avatar,
		AvatarTextColor: color.TextOn(avatar),
		SavedCount:      len(liked),
		AestheticCount:  len(summary.TopAesthetics),
		Aesthetic:       summary,
	}, nil
}

// RefreshAestheticColors stores the palette of the user's current liked set
// on their profile. It returns the palette.
func (s *ProfileService) RefreshAestheticColors(ctx context.Context, userID string) ([]string, error) {
	liked, err := s.store.ListLikedBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked books: %w", err)
	}

	palette := aggregateLiked(liked).ColorPalette

	err = s.store.UpdateAestheticColors(ctx, userID, palette)
	if errors.Is(err, store.ErrNotFound) {
		if _, createErr := s.GetOrCreate(ctx, userID); createErr != nil {
			return nil, createErr
		}
		err = s.store.UpdateAestheticColors(ctx, userID, palette)
	}
	if err != nil {
		return nil, fmt.Errorf("update aesthetic colors: %w", err)
	}
	return palette, nil
}

func aggregateLiked(liked []*domain.LikedBook) aesthetic.Profile {
	refs := make([]aesthetic.BookRef, len(liked))
	for i, b := range liked {
		refs[i] = b.Ref()
	}
	return aesthetic.Aggregate(refs)
}
