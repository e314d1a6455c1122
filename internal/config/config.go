// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры;
// локальный .env подхватывается через godotenv (как в проде, так и при разработке).
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Discord ---
	DiscordBotToken string `envconfig:"DISCORD_BOT_TOKEN" required:"true"`
	// ID сервера (guild), на котором бот работает
	GuildID string `envconfig:"GUILD_ID" required:"true"`
	// Канал для объявлений о новых уровнях; пусто — системный канал сервера
	AnnounceChannelID string `envconfig:"ANNOUNCE_CHANNEL_ID"`
	// Награды-роли за уровни: "5:роль_id,10:роль_id"
	RoleRewardsRaw string           `envconfig:"ROLE_REWARDS"`
	RoleRewards    map[int64]string `envconfig:"-"` // заполним вручную

	// --- Admin ---
	AdminIDsRaw string   `envconfig:"ADMIN_IDS"`
	AdminIDs    []string `envconfig:"-"` // заполним вручную
	// Пустой хеш = админ-панель отключена
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`

	// --- Storage ---
	// Драйвер хранилища: "json" (файлы в DATA_DIR) или "postgres"
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"json"`
	DataDir       string `envconfig:"DATA_DIR" default:"data"`

	// --- Database (только для STORAGE_DRIVER=postgres) ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"discord_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- XP ---
	XPPerMessage  int64 `envconfig:"XP_PER_MESSAGE" default:"10"`
	XPPerReaction int64 `envconfig:"XP_PER_REACTION" default:"2"`
	// Бонус автору сообщения, когда реакций становится 3, 5 или 10
	XPPopularityBonus int64 `envconfig:"XP_POPULARITY_BONUS" default:"5"`
	// Кулдаун начисления XP (защита от флуда)
	XPCooldown time.Duration `envconfig:"XP_COOLDOWN" default:"60s"`
	// Ежедневная награда и её кулдаун (нарочно 23 часа, а не 24:
	// чтобы награду можно было забирать «каждый вечер» без дрейфа времени)
	XPDailyAmount   int64         `envconfig:"XP_DAILY_AMOUNT" default:"25"`
	XPDailyCooldown time.Duration `envconfig:"XP_DAILY_COOLDOWN" default:"23h"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"UTC"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureBadgesEnabled bool `envconfig:"FEATURE_BADGES_ENABLED" default:"true"`
	FeatureDailyEnabled  bool `envconfig:"FEATURE_DAILY_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.GuildID == "" {
		return fmt.Errorf("GUILD_ID не задан")
	}
	switch c.StorageDriver {
	case "json":
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR не задан")
		}
	case "postgres":
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD обязателен при STORAGE_DRIVER=postgres")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	default:
		return fmt.Errorf("неизвестный STORAGE_DRIVER %q (ожидается json или postgres)", c.StorageDriver)
	}
	if c.XPPerMessage < 0 || c.XPPerReaction < 0 || c.XPPopularityBonus < 0 {
		return fmt.Errorf("XP за событие не может быть отрицательным")
	}
	if c.XPDailyAmount <= 0 {
		return fmt.Errorf("XP_DAILY_AMOUNT должен быть > 0")
	}
	if c.XPDailyCooldown <= 0 {
		return fmt.Errorf("XP_DAILY_COOLDOWN должен быть > 0")
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS должен быть > 0")
	}
	return nil
}

// Load читает .env (если есть) и переменные окружения, заполняет Config.
func Load() (*Config, error) {
	// .env не обязателен: в Docker переменные приходят из окружения
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	rewards, err := ParseRoleRewards(cfg.RoleRewardsRaw)
	if err != nil {
		return nil, fmt.Errorf("ROLE_REWARDS parse: %w", err)
	}
	cfg.RoleRewards = rewards
	cfg.AdminIDs = parseStringCSV(cfg.AdminIDsRaw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseRoleRewards разбирает строку вида "5:123456,10:789012"
// в карту «уровень → ID роли». Пустые пары пропускаются.
func ParseRoleRewards(s string) (map[int64]string, error) {
	out := make(map[int64]string)
	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		level, roleID, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("пара %q без разделителя ':'", pair)
		}
		lvl, err := strconv.ParseInt(strings.TrimSpace(level), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad level %q: %w", level, err)
		}
		roleID = strings.TrimSpace(roleID)
		if roleID == "" {
			continue
		}
		out[lvl] = roleID
	}
	return out, nil
}

func parseStringCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
