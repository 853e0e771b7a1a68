package domain

import "time"

// Default values for a newly created profile.
const (
	DefaultUsername = "BookLover"
	DefaultBio      = "Passionate reader exploring new worlds through books 📚"
)

// Profile is a user's public profile.
// AestheticColors caches the palette of the user's aesthetic profile and is
// refreshed whenever the liked set changes.
type Profile struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Bio             string    `json:"bio"`
	AestheticColors []string  `json:"aesthetic_colors"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewProfile creates the default profile for a user.
func NewProfile(userID string) *Profile {
	now := time.Now()
	return &Profile{
		UserID:          userID,
		Username:        DefaultUsername,
		Bio:             DefaultBio,
		AestheticColors: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
