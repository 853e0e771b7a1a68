package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shioriapp/shiori-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getMyProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get my profile",
		Description: "Returns the authenticated user's profile with saved count and aesthetic profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMyProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profile",
		Summary:     "Update my profile",
		Description: "Updates username, bio or avatar URL. Omitted fields are left unchanged.",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMyProfile)
}

// === Request/Response Types ===

// UpdateProfileRequest is the PATCH body. Nil fields are not changed.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" doc:"Display name (1-40 characters)"`
	Bio       *string `json:"bio,omitempty" doc:"Bio (up to 280 characters)"`
	AvatarURL *string `json:"avatar_url,omitempty" doc:"Avatar image URL; empty clears it"`
}

// UpdateProfileInput wraps the update request for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

// ProfileOutput wraps the profile view for Huma.
type ProfileOutput struct {
	Body *service.ProfileView
}

// === Handlers ===

func (s *Server) handleGetMyProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Profile.Aesthetic(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

func (s *Server) handleUpdateMyProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.services.Profile.Update(ctx, userID, service.UpdateProfileRequest{
		Username:  input.Body.Username,
		Bio:       input.Body.Bio,
		AvatarURL: input.Body.AvatarURL,
	}); err != nil {
		return nil, err
	}

	view, err := s.services.Profile.Aesthetic(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}
