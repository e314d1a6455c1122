package badges

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

func TestRepository_IncrementAndReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "badge_stats.json")
	awardsPath := filepath.Join(dir, "badges_data.json")

	repo, err := NewRepository(ctx, filestore.New(statsPath), filestore.New(awardsPath))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, err := repo.IncrementMessages(ctx, "u1", now); err != nil {
		t.Fatalf("IncrementMessages: %v", err)
	}
	if _, err := repo.IncrementReactionsGiven(ctx, "u1", now); err != nil {
		t.Fatalf("IncrementReactionsGiven: %v", err)
	}
	if _, err := repo.IncrementReactionsReceived(ctx, "u1", now); err != nil {
		t.Fatalf("IncrementReactionsReceived: %v", err)
	}
	if err := repo.AddAwards(ctx, "u1", []string{"chatterbox"}); err != nil {
		t.Fatalf("AddAwards: %v", err)
	}

	reloaded, err := NewRepository(ctx, filestore.New(statsPath), filestore.New(awardsPath))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	st, ok := reloaded.Stats("u1")
	if !ok {
		t.Fatal("u1 missing after reload")
	}
	if st.Messages != 1 || st.ReactionsGiven != 1 || st.ReactionsReceived != 1 {
		t.Errorf("counters after reload = %+v, want 1/1/1", st)
	}
	// joinDate зафиксирован первым событием и не меняется последующими
	join, err := st.JoinTime()
	if err != nil {
		t.Fatalf("JoinTime: %v", err)
	}
	if !join.Equal(now) {
		t.Errorf("joinDate = %v, want %v", join, now)
	}
	if got := reloaded.Awards("u1"); len(got) != 1 || got[0] != "chatterbox" {
		t.Errorf("awards after reload = %v, want [chatterbox]", got)
	}
}

func TestRepository_CorruptStatsDocument(t *testing.T) {
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "badge_stats.json")
	if err := os.WriteFile(statsPath, []byte("[broken"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := NewRepository(context.Background(),
		filestore.New(statsPath),
		filestore.New(filepath.Join(dir, "badges_data.json")),
	)
	if !errors.Is(err, common.ErrCorruptData) {
		t.Errorf("corrupt stats error = %v, want ErrCorruptData", err)
	}
}

func TestRepository_Counts(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := NewRepository(ctx,
		filestore.New(filepath.Join(dir, "badge_stats.json")),
		filestore.New(filepath.Join(dir, "badges_data.json")),
	)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	now := time.Now().UTC()
	_, _ = repo.IncrementMessages(ctx, "u1", now)
	_, _ = repo.IncrementMessages(ctx, "u2", now)
	_ = repo.AddAwards(ctx, "u1", []string{"chatterbox", "veteran"})
	_ = repo.AddAwards(ctx, "u2", []string{"chatterbox"})

	users, awarded := repo.Counts()
	if users != 2 || awarded != 3 {
		t.Errorf("Counts = (%d, %d), want (2, 3)", users, awarded)
	}
}
