package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/store"
)

// profileColumns must match the scan order in scanProfile.
const profileColumns = `user_id, username, avatar_url, bio, aesthetic_colors, created_at, updated_at`

func scanProfile(scanner interface{ Scan(dest ...any) error }) (*domain.Profile, error) {
	var (
		p         domain.Profile
		colors    string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&p.UserID, &p.Username, &p.AvatarURL, &p.Bio, &colors, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(colors), &p.AestheticColors); err != nil {
		return nil, fmt.Errorf("decode aesthetic colors: %w", err)
	}
	if p.AestheticColors == nil {
		p.AestheticColors = []string{}
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

// GetProfile retrieves a profile by user ID.
// Returns store.ErrNotFound if the profile does not exist.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return p, err
}

// SaveProfile creates or replaces a profile.
func (s *Store) SaveProfile(ctx context.Context, profile *domain.Profile) error {
	colors, err := encodeStrings(profile.AestheticColors)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO profiles (
			user_id, username, avatar_url, bio, aesthetic_colors, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID,
		profile.Username,
		profile.AvatarURL,
		profile.Bio,
		colors,
		formatTime(profile.CreatedAt),
		formatTime(profile.UpdatedAt),
	)
	return err
}

// UpdateAestheticColors replaces the cached palette on a profile.
// Returns store.ErrNotFound if the profile does not exist.
func (s *Store) UpdateAestheticColors(ctx context.Context, userID string, colors []string) error {
	encoded, err := encodeStrings(colors)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET aesthetic_colors = ?, updated_at = ? WHERE user_id = ?`,
		encoded, formatTime(time.Now()), userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode strings: %w", err)
	}
	return string(b), nil
}
