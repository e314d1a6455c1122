package admin

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/argon2"

	"levelhub.ru/discord-bot/internal/common"
	"levelhub.ru/discord-bot/internal/config"
	"levelhub.ru/discord-bot/internal/features/badges"
	"levelhub.ru/discord-bot/internal/features/leveling"
	"levelhub.ru/discord-bot/internal/storage/filestore"
)

// hashPassword повторяет формат scripts/generate_hash.go с уменьшенной
// памятью, чтобы тесты не ели 64 MB на каждый вызов.
func hashPassword(t *testing.T, password string) string {
	t.Helper()
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		t.Fatal(err)
	}
	var (
		memory      uint32 = 1024
		iterations  uint32 = 1
		parallelism uint8  = 1
	)
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, 32)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

func newTestAdmin(t *testing.T, passwordHash string) *Service {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		AdminIDs:          []string{"admin1"},
		AdminPasswordHash: passwordHash,
		XPDailyAmount:     25,
		XPDailyCooldown:   23 * time.Hour,
	}

	levelingRepo, err := leveling.NewRepository(context.Background(),
		filestore.New(filepath.Join(dir, "xp_data.json")))
	if err != nil {
		t.Fatalf("leveling.NewRepository: %v", err)
	}
	badgesRepo, err := badges.NewRepository(context.Background(),
		filestore.New(filepath.Join(dir, "badge_stats.json")),
		filestore.New(filepath.Join(dir, "badges_data.json")))
	if err != nil {
		t.Fatalf("badges.NewRepository: %v", err)
	}

	return NewService(cfg,
		leveling.NewService(levelingRepo, cfg),
		badges.NewService(badgesRepo, badges.DefaultCatalog()))
}

func TestLogin(t *testing.T) {
	s := newTestAdmin(t, hashPassword(t, "секретный"))

	if err := s.Login("stranger", "секретный"); !errors.Is(err, common.ErrNotAdmin) {
		t.Errorf("Login(non-admin) = %v, want ErrNotAdmin", err)
	}

	if err := s.Login("admin1", "неверный"); !errors.Is(err, common.ErrWrongPassword) {
		t.Errorf("Login(wrong password) = %v, want ErrWrongPassword", err)
	}
	if s.HasActiveSession("admin1") {
		t.Error("failed login created a session")
	}

	if err := s.Login("admin1", "секретный"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.HasActiveSession("admin1") {
		t.Error("successful login did not create a session")
	}

	s.Logout("admin1")
	if s.HasActiveSession("admin1") {
		t.Error("session survived logout")
	}
}

func TestLogin_AttemptLimit(t *testing.T) {
	s := newTestAdmin(t, hashPassword(t, "секретный"))

	for i := 0; i < 3; i++ {
		if err := s.Login("admin1", "неверный"); !errors.Is(err, common.ErrWrongPassword) {
			t.Fatalf("attempt %d: %v, want ErrWrongPassword", i+1, err)
		}
	}
	// Четвёртая попытка блокируется даже с верным паролем
	if err := s.Login("admin1", "секретный"); !errors.Is(err, common.ErrTooManyAttempts) {
		t.Errorf("Login after 3 failures = %v, want ErrTooManyAttempts", err)
	}
}

func TestLogin_DisabledPanel(t *testing.T) {
	s := newTestAdmin(t, "")
	if err := s.Login("admin1", "любой"); err == nil {
		t.Error("Login with empty hash should fail")
	}
}

func TestGrantAndResetXP(t *testing.T) {
	ctx := context.Background()
	s := newTestAdmin(t, "")

	if _, err := s.GrantXP(ctx, "u1", 0); !errors.Is(err, common.ErrInvalidAmount) {
		t.Errorf("GrantXP(0) = %v, want ErrInvalidAmount", err)
	}

	level, err := s.GrantXP(ctx, "u1", 250)
	if err != nil {
		t.Fatalf("GrantXP: %v", err)
	}
	if level != 2 {
		t.Errorf("level after grant = %d, want 2", level)
	}

	if err := s.ResetXP(ctx, "u1"); err != nil {
		t.Fatalf("ResetXP: %v", err)
	}
	if err := s.ResetXP(ctx, "ghost"); !errors.Is(err, common.ErrUserNotFound) {
		t.Errorf("ResetXP(unknown) = %v, want ErrUserNotFound", err)
	}

	stats := s.GetStoreStats()
	if stats.XPUsers != 1 {
		t.Errorf("XPUsers = %d, want 1", stats.XPUsers)
	}
}

func TestVerifyArgon2id_MalformedHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$argon2id$v=19$bad"} {
		if verifyArgon2id("пароль", h) {
			t.Errorf("verifyArgon2id accepted malformed hash %q", h)
		}
	}
}
