package leveling

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"levelhub.ru/discord-bot/internal/common"
	"levelhub.ru/discord-bot/internal/storage/filestore"
)

func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xp_data.json")
	repo, err := NewRepository(context.Background(), filestore.New(path))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	return repo, path
}

func TestRepository_GetUnknownUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	u, ok := repo.Get("nobody")
	if ok {
		t.Error("unknown user reported as known")
	}
	if u.XP != 0 {
		t.Errorf("unknown user XP = %d, want 0", u.XP)
	}
	if repo.Count() != 0 {
		t.Errorf("Get created a record: Count = %d, want 0", repo.Count())
	}
}

func TestRepository_AddXPAndReload(t *testing.T) {
	ctx := context.Background()
	repo, path := newTestRepo(t)

	if _, err := repo.AddXP(ctx, "u1", 150); err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if _, err := repo.AddXP(ctx, "u2", 40); err != nil {
		t.Fatalf("AddXP: %v", err)
	}

	// Перезагрузка из того же файла должна дать то же состояние
	reloaded, err := NewRepository(ctx, filestore.New(path))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	u, ok := reloaded.Get("u1")
	if !ok || u.XP != 150 {
		t.Errorf("after reload u1 = (%+v, %v), want xp=150", u, ok)
	}
	if reloaded.Count() != 2 {
		t.Errorf("after reload Count = %d, want 2", reloaded.Count())
	}
}

func TestRepository_ClaimDailyPersistsTimestamp(t *testing.T) {
	ctx := context.Background()
	repo, path := newTestRepo(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, granted, err := repo.ClaimDaily(ctx, "u1", 25, 23*time.Hour, at)
	if err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if !granted {
		t.Fatal("first claim not granted")
	}

	reloaded, err := NewRepository(ctx, filestore.New(path))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	u, _ := reloaded.Get("u1")
	if u.LastDailyClaim == nil || !u.LastDailyClaim.Equal(at) {
		t.Errorf("LastDailyClaim after reload = %v, want %v", u.LastDailyClaim, at)
	}
	if u.XP != 25 {
		t.Errorf("XP after claim = %d, want 25", u.XP)
	}
}

func TestRepository_ClaimDailyCooldown(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, granted, err := repo.ClaimDaily(ctx, "u1", 25, 23*time.Hour, at); err != nil || !granted {
		t.Fatalf("first claim = (granted=%v, %v), want granted", granted, err)
	}

	// Внутри кулдауна — отказ без записи
	u, granted, err := repo.ClaimDaily(ctx, "u1", 25, 23*time.Hour, at.Add(22*time.Hour))
	if err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if granted {
		t.Error("claim granted inside cooldown")
	}
	if u.XP != 25 {
		t.Errorf("XP after denied claim = %d, want 25", u.XP)
	}
	if !u.LastDailyClaim.Equal(at) {
		t.Errorf("denied claim moved LastDailyClaim to %v", u.LastDailyClaim)
	}

	// Ровно по истечении — снова выдаётся
	u, granted, err = repo.ClaimDaily(ctx, "u1", 25, 23*time.Hour, at.Add(23*time.Hour))
	if err != nil || !granted {
		t.Fatalf("claim at cooldown expiry = (granted=%v, %v), want granted", granted, err)
	}
	if u.XP != 50 {
		t.Errorf("XP after second claim = %d, want 50", u.XP)
	}
}

func TestRepository_ResetXP(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	if err := repo.ResetXP(ctx, "ghost"); !errors.Is(err, common.ErrUserNotFound) {
		t.Errorf("ResetXP(unknown) = %v, want ErrUserNotFound", err)
	}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, _, err := repo.ClaimDaily(ctx, "u1", 25, 23*time.Hour, at); err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if err := repo.ResetXP(ctx, "u1"); err != nil {
		t.Fatalf("ResetXP: %v", err)
	}
	u, _ := repo.Get("u1")
	if u.XP != 0 {
		t.Errorf("XP after reset = %d, want 0", u.XP)
	}
	// Отметка ежедневной награды сброс переживает
	if u.LastDailyClaim == nil {
		t.Error("reset cleared LastDailyClaim")
	}
}

func TestRepository_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xp_data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := NewRepository(context.Background(), filestore.New(path))
	if !errors.Is(err, common.ErrCorruptData) {
		t.Errorf("corrupt document error = %v, want ErrCorruptData", err)
	}
}
