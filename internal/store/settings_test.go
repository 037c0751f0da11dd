package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set(SettingPinchThreshold, "0.05"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	got, err := repo.Get(SettingPinchThreshold)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got != "0.05" {
		t.Errorf("value = %q, want %q", got, "0.05")
	}
}

func TestSettingsRepository_Get_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Settings().Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSettingsRepository_Set_Overwrites(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set(SettingCameraID, "0"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := repo.Set(SettingCameraID, "2"); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	got, err := repo.Get(SettingCameraID)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got != "2" {
		t.Errorf("value = %q, want %q", got, "2")
	}
}

func TestSettingsRepository_All(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	want := map[string]string{
		SettingPinchThreshold: "0.05",
		SettingArmDistance:    "0.2",
		SettingPresenceThresh: "1.0",
	}
	for k, v := range want {
		if err := repo.Set(k, v); err != nil {
			t.Fatalf("failed to set %q: %v", k, err)
		}
	}

	got, err := repo.All()
	if err != nil {
		t.Fatalf("failed to list settings: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d settings, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("setting %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestSettingsRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set(SettingActiveProfileID, "profile-1"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := repo.Delete(SettingActiveProfileID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := repo.Get(SettingActiveProfileID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error
	if err := repo.Delete("missing"); err != nil {
		t.Errorf("deleting missing key should succeed, got %v", err)
	}
}
