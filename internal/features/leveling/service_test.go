package leveling

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"levelhub.ru/discord-bot/internal/common"
	"levelhub.ru/discord-bot/internal/config"
	"levelhub.ru/discord-bot/internal/storage/filestore"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xp_data.json")
	repo, err := NewRepository(context.Background(), filestore.New(path))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	cfg := &config.Config{
		XPDailyAmount:   25,
		XPDailyCooldown: 23 * time.Hour,
	}
	return NewService(repo, cfg)
}

func TestService_AddXP(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	level, err := s.AddXP(ctx, "u1", 100)
	if err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if level != 1 {
		t.Errorf("level after 100 XP = %d, want 1", level)
	}

	// Ноль допустим и ничего не меняет
	level, err = s.AddXP(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("AddXP(0): %v", err)
	}
	if level != 1 {
		t.Errorf("level after +0 XP = %d, want 1", level)
	}

	if _, err := s.AddXP(ctx, "u1", -5); !errors.Is(err, common.ErrInvalidAmount) {
		t.Errorf("AddXP(-5) = %v, want ErrInvalidAmount", err)
	}
}

func TestService_SnapshotIsPureRead(t *testing.T) {
	s := newTestService(t)

	snap1 := s.GetSnapshot("nobody")
	snap2 := s.GetSnapshot("nobody")
	if snap1 != snap2 {
		t.Errorf("snapshots differ: %+v vs %+v", snap1, snap2)
	}
	if snap1.XP != 0 || snap1.Level != 0 || snap1.NextLevelXP != 100 {
		t.Errorf("snapshot for unknown user = %+v, want {0 0 100}", snap1)
	}
	if s.UserCount() != 0 {
		t.Errorf("snapshot created a record: UserCount = %d, want 0", s.UserCount())
	}
}

func TestService_ClaimDaily(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	// Первый клейм всегда доступен
	granted, level, err := s.ClaimDaily(ctx, "u1")
	if err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if granted != 25 || level != 0 {
		t.Errorf("first claim = (%d, %d), want (25, 0)", granted, level)
	}

	// Повторный клейм до истечения кулдауна — ноль, без ошибки
	now = now.Add(22 * time.Hour)
	granted, _, err = s.ClaimDaily(ctx, "u1")
	if err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if granted != 0 {
		t.Errorf("claim before cooldown granted %d, want 0", granted)
	}

	ok, remaining := s.CanClaimDaily("u1")
	if ok {
		t.Error("CanClaimDaily = true during cooldown")
	}
	if remaining != time.Hour {
		t.Errorf("remaining = %v, want 1h", remaining)
	}

	// Ровно по истечении кулдауна награда снова доступна
	now = now.Add(time.Hour)
	granted, _, err = s.ClaimDaily(ctx, "u1")
	if err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if granted != 25 {
		t.Errorf("claim after cooldown granted %d, want 25", granted)
	}
}

func TestService_ClaimDaily_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	// Одновременные /daily от одного пользователя: награда ровно одна
	const claimers = 16
	var wg sync.WaitGroup
	var total atomic.Int64
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			granted, _, err := s.ClaimDaily(ctx, "u1")
			if err != nil {
				t.Errorf("ClaimDaily: %v", err)
				return
			}
			total.Add(granted)
		}()
	}
	wg.Wait()

	if got := total.Load(); got != 25 {
		t.Errorf("total granted across %d concurrent claims = %d, want 25", claimers, got)
	}
	if snap := s.GetSnapshot("u1"); snap.XP != 25 {
		t.Errorf("XP after concurrent claims = %d, want 25", snap.XP)
	}
}

func TestService_GetTopUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	for id, xp := range map[string]int64{"a": 300, "b": 150, "c": 150, "d": 0} {
		if _, err := s.AddXP(ctx, id, xp); err != nil {
			t.Fatalf("AddXP(%s): %v", id, err)
		}
	}

	top := s.GetTopUsers(10)
	want := []RankedUser{{"a", 300}, {"b", 150}, {"c", 150}, {"d", 0}}
	if len(top) != len(want) {
		t.Fatalf("len(top) = %d, want %d", len(top), len(want))
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("top[%d] = %+v, want %+v", i, top[i], want[i])
		}
	}

	if got := s.GetTopUsers(2); len(got) != 2 || got[0].UserID != "a" {
		t.Errorf("GetTopUsers(2) = %+v, want first two", got)
	}
	if got := s.GetTopUsers(0); len(got) != 0 {
		t.Errorf("GetTopUsers(0) = %+v, want empty", got)
	}
}
