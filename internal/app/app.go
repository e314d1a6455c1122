// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт хранилище, репозитории, сервисы,
// обработчики и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"levelhub.ru/discord-bot/internal/bot"
	"levelhub.ru/discord-bot/internal/config"
	"levelhub.ru/discord-bot/internal/features/admin"
	"levelhub.ru/discord-bot/internal/features/badges"
	"levelhub.ru/discord-bot/internal/features/leveling"
	"levelhub.ru/discord-bot/internal/jobs"
	"levelhub.ru/discord-bot/internal/storage"
	"levelhub.ru/discord-bot/internal/storage/filestore"
	"levelhub.ru/discord-bot/internal/storage/postgres"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	// Пул БД; nil при файловом драйвере
	DB *pgxpool.Pool
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	xpDoc, statsDoc, badgesDoc, pool, err := buildDocuments(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Репозитории ===
	// Битый документ здесь фатален: лучше не стартовать,
	// чем затереть данные пустой картой
	levelingRepo, err := leveling.NewRepository(ctx, xpDoc)
	if err != nil {
		return nil, err
	}
	badgesRepo, err := badges.NewRepository(ctx, statsDoc, badgesDoc)
	if err != nil {
		return nil, err
	}

	// === 3. Сервисы ===
	levelingService := leveling.NewService(levelingRepo, cfg)
	badgesService := badges.NewService(badgesRepo, badges.DefaultCatalog())
	adminService := admin.NewService(cfg, levelingService, badgesService)

	// === 4. Discord-сессия ===
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Discord-сессии: %w", err)
	}

	// === 5. Обработчики ===
	levelingHandler := leveling.NewHandler(levelingService, cfg)
	badgesHandler := badges.NewHandler(badgesService)
	adminHandler := admin.NewHandler(adminService)

	// === 6. Собираем бота ===
	b := bot.New(
		session, cfg,
		levelingService, levelingHandler,
		badgesService, badgesHandler,
		adminHandler,
	)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(levelingService, cfg.AppTimezone)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
	}, nil
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// buildDocuments создаёт три документа хранилища (XP, статистика, награды)
// выбранным драйвером. Имена файлов совместимы с предыдущей версией бота.
func buildDocuments(ctx context.Context, cfg *config.Config) (xp, stats, awards storage.Document, pool *pgxpool.Pool, err error) {
	switch cfg.StorageDriver {
	case "json":
		log.WithField("data_dir", cfg.DataDir).Info("Хранилище: JSON-файлы")
		xp = filestore.New(filepath.Join(cfg.DataDir, "xp_data.json"))
		stats = filestore.New(filepath.Join(cfg.DataDir, "badge_stats.json"))
		awards = filestore.New(filepath.Join(cfg.DataDir, "badges_data.json"))
		return xp, stats, awards, nil, nil

	case "postgres":
		log.Info("Хранилище: PostgreSQL")
		pool, err = postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		xp = postgres.NewDocument(pool, "xp")
		stats = postgres.NewDocument(pool, "stats")
		awards = postgres.NewDocument(pool, "badges")
		return xp, stats, awards, pool, nil

	default:
		// Validate уже отсёк всё остальное, но оставляем явную ошибку
		return nil, nil, nil, nil, fmt.Errorf("неизвестный драйвер хранилища %q", cfg.StorageDriver)
	}
}
