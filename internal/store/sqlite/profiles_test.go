package sqlite

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/store"
)

func TestSaveAndGetProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1")

	p := domain.NewProfile("user-1")
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Username != domain.DefaultUsername || got.Bio != domain.DefaultBio {
		t.Errorf("unexpected profile: %+v", got)
	}
	if got.AestheticColors == nil || len(got.AestheticColors) != 0 {
		t.Errorf("AestheticColors: expected empty non-nil, got %#v", got.AestheticColors)
	}

	got.Username = "nightreader"
	got.AvatarURL = "https://example.com/me.png"
	if err := s.SaveProfile(ctx, got); err != nil {
		t.Fatalf("SaveProfile (replace): %v", err)
	}

	again, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if again.Username != "nightreader" || again.AvatarURL != "https://example.com/me.png" {
		t.Errorf("replace not persisted: %+v", again)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetProfile(context.Background(), "user-404"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAestheticColors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1")

	if err := s.SaveProfile(ctx, domain.NewProfile("user-1")); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	colors := []string{"#1a1a1a", "#7eb6d4"}
	if err := s.UpdateAestheticColors(ctx, "user-1", colors); err != nil {
		t.Fatalf("UpdateAestheticColors: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if !slices.Equal(got.AestheticColors, colors) {
		t.Errorf("AestheticColors: got %v", got.AestheticColors)
	}

	if err := s.UpdateAestheticColors(ctx, "user-404", colors); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
