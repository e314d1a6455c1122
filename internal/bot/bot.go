// Package bot содержит главный модуль бота — подключение к Discord,
// маршрутизацию событий и остановку.
//
// Это тонкий глю-слой: сюда приходят события discordgo, отсюда вызываются
// движки (leveling, badges), а их результаты — обычные числа и списки ID —
// форматируются обработчиками фич. Движки не знают про discordgo.
package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"levelhub.ru/discord-bot/internal/bot/middleware"
	"levelhub.ru/discord-bot/internal/common"
	"levelhub.ru/discord-bot/internal/config"
	"levelhub.ru/discord-bot/internal/features/admin"
	"levelhub.ru/discord-bot/internal/features/badges"
	"levelhub.ru/discord-bot/internal/features/leveling"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	session *discordgo.Session
	cfg     *config.Config

	rateLimiter *middleware.RateLimiter
	xpCooldown  *middleware.Cooldown

	levelingService *leveling.Service
	badgesService   *badges.Service

	levelingHandler *leveling.Handler
	badgesHandler   *badges.Handler
	adminHandler    *admin.Handler
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	session *discordgo.Session,
	cfg *config.Config,
	levelingService *leveling.Service,
	levelingHandler *leveling.Handler,
	badgesService *badges.Service,
	badgesHandler *badges.Handler,
	adminHandler *admin.Handler,
) *Bot {
	return &Bot{
		session:         session,
		cfg:             cfg,
		rateLimiter:     middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		xpCooldown:      middleware.NewCooldown(cfg.XPCooldown),
		levelingService: levelingService,
		badgesService:   badgesService,
		levelingHandler: levelingHandler,
		badgesHandler:   badgesHandler,
		adminHandler:    adminHandler,
	}
}

// Start подключается к Discord, регистрирует слэш-команды
// и блокируется до отмены контекста.
func (b *Bot) Start(ctx context.Context) error {
	b.session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onReactionAdd)
	b.session.AddHandler(b.onReactionRemove)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("ошибка подключения к Discord: %w", err)
	}
	defer b.session.Close()
	defer b.rateLimiter.Close()

	// Регистрируем команды на одном сервере: глобальная регистрация
	// раскатывается у Discord часами, на гильдии — мгновенно
	if _, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID, b.cfg.GuildID, commandDefinitions(),
	); err != nil {
		return fmt.Errorf("ошибка регистрации команд: %w", err)
	}
	log.WithField("guild_id", b.cfg.GuildID).Info("Слэш-команды зарегистрированы")

	<-ctx.Done()
	log.Info("Бот останавливается (ctx done)...")
	return nil
}

// onReady логирует успешный вход.
func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	log.Infof("🎉 Авторизован как %s#%s", r.User.Username, r.User.Discriminator)
}

// onMessageCreate обрабатывает новое сообщение:
// в DM — админ-панель, на сервере — начисление XP и счётчик сообщений.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer middleware.RecoverFromPanic()

	if m.Author == nil || m.Author.Bot {
		return
	}

	// DM: проверяем команды админ-панели
	if m.GuildID == "" {
		b.adminHandler.HandleAdminMessage(context.Background(), s, m.ChannelID, m.Author.ID, m.Content)
		return
	}

	// Бот работает только на своём сервере
	if m.GuildID != b.cfg.GuildID {
		return
	}

	logMessage(m)

	if !b.rateLimiter.Allow(m.Author.ID) {
		log.WithField("user_id", m.Author.ID).Debug("rate limited")
		return
	}

	b.processXP(s, m.Author.ID, b.cfg.XPPerMessage)

	if b.cfg.FeatureBadgesEnabled {
		newly, err := b.badgesService.IncrementMessages(context.Background(), m.Author.ID)
		if err != nil {
			log.WithError(err).WithField("user_id", m.Author.ID).Error("Ошибка учёта сообщения")
			return
		}
		b.badgesHandler.NotifyAwards(s, m.Author.ID, newly)
	}
}

// onReactionAdd обрабатывает поставленную реакцию: XP и счётчик тому,
// кто поставил; счётчик полученных (и бонус за популярность) — автору.
func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	defer middleware.RecoverFromPanic()

	if r.GuildID != b.cfg.GuildID {
		return
	}
	if reactorIsBot(s, r) {
		return
	}

	b.processXP(s, r.UserID, b.cfg.XPPerReaction)

	if b.cfg.FeatureBadgesEnabled {
		newly, err := b.badgesService.IncrementReactionGiven(context.Background(), r.UserID)
		if err != nil {
			log.WithError(err).WithField("user_id", r.UserID).Error("Ошибка учёта реакции")
		} else {
			b.badgesHandler.NotifyAwards(s, r.UserID, newly)
		}
	}

	// Дальше нужен автор сообщения — событие его не несёт, забираем сообщение
	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil || msg == nil || msg.Author == nil {
		log.WithError(err).Debug("Не удалось получить сообщение для учёта реакции")
		return
	}
	if msg.Author.Bot {
		return
	}

	// Бонус автору, когда сообщение «выстрелило»
	if count := reactionCount(msg, r.Emoji); count == 3 || count == 5 || count == 10 {
		b.processXP(s, msg.Author.ID, b.cfg.XPPopularityBonus)
	}

	if b.cfg.FeatureBadgesEnabled {
		newly, err := b.badgesService.IncrementReactionReceived(context.Background(), msg.Author.ID)
		if err != nil {
			log.WithError(err).WithField("user_id", msg.Author.ID).Error("Ошибка учёта полученной реакции")
			return
		}
		b.badgesHandler.NotifyAwards(s, msg.Author.ID, newly)
	}
}

// onReactionRemove намеренно ничего не делает: счётчики активности
// монотонны, снятая реакция заработанное не отменяет.
func (b *Bot) onReactionRemove(_ *discordgo.Session, r *discordgo.MessageReactionRemove) {
	log.WithField("user_id", r.UserID).Debug("Реакция снята — не учитываем")
}

// onInteractionCreate маршрутизирует слэш-команды к обработчикам фич.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer middleware.RecoverFromPanic()

	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	log.WithField("command", name).Debug("Слэш-команда")

	switch name {
	case "start":
		respondEphemeral(s, i, "Levelbot готов! Команды: /rank, /leaderboard, /daily, /badges, /profile")

	case "rank":
		b.levelingHandler.HandleRank(s, i)

	case "leaderboard":
		b.levelingHandler.HandleLeaderboard(s, i)

	case "daily":
		b.levelingHandler.HandleDaily(s, i)

	case "badges":
		if !b.cfg.FeatureBadgesEnabled {
			respondEphemeral(s, i, "Бейджи временно отключены")
			return
		}
		b.badgesHandler.HandleBadges(s, i)

	case "profile":
		b.badgesHandler.HandleProfile(s, i, func(userID string) string {
			snap := b.levelingService.GetSnapshot(userID)
			return fmt.Sprintf("Уровень **%d** — %s из %s",
				snap.Level, common.FormatXP(snap.XP), common.FormatXP(snap.NextLevelXP))
		})
	}
}

// processXP начисляет XP с учётом кулдауна и объявляет новый уровень.
func (b *Bot) processXP(s *discordgo.Session, userID string, amount int64) {
	if amount <= 0 {
		return
	}
	if !b.xpCooldown.Allow(userID) {
		return
	}

	levelBefore := b.levelingService.GetLevel(userID)
	newLevel, err := b.levelingService.AddXP(context.Background(), userID, amount)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка начисления XP")
		return
	}
	if newLevel > levelBefore {
		b.levelingHandler.AnnounceLevelUp(s, userID, newLevel)
	}
}

// logMessage логирует входящее сообщение: user_id, канал, первые 50 символов.
func logMessage(m *discordgo.MessageCreate) {
	text := m.Content
	if len(text) > 50 {
		text = text[:50] + "..."
	}
	log.WithFields(log.Fields{
		"user_id":    m.Author.ID,
		"channel_id": m.ChannelID,
		"username":   m.Author.Username,
		"text":       text,
	}).Debug("Входящее сообщение")
}

// respondEphemeral отвечает на интеракцию текстом, видимым только автору.
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, text string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Error("Ошибка ответа на интеракцию")
	}
}

// reactorIsBot определяет, стоит ли за реакцией бот. Поле Member приходит
// не в каждом событии, поэтому путей несколько: сам Member, свой ID,
// кеш discordgo и только потом REST. Не удалось выяснить автора —
// считаем ботом и XP не начисляем.
func reactorIsBot(s *discordgo.Session, r *discordgo.MessageReactionAdd) bool {
	if r.Member != nil && r.Member.User != nil {
		return r.Member.User.Bot
	}
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return true
	}
	if s.State != nil {
		if member, err := s.State.Member(r.GuildID, r.UserID); err == nil && member.User != nil {
			return member.User.Bot
		}
	}
	u, err := s.User(r.UserID)
	if err != nil || u == nil {
		log.WithError(err).WithField("user_id", r.UserID).Debug("Не удалось определить автора реакции")
		return true
	}
	return u.Bot
}

// reactionCount возвращает число реакций конкретного эмодзи на сообщении.
func reactionCount(msg *discordgo.Message, emoji discordgo.Emoji) int {
	for _, r := range msg.Reactions {
		if r.Emoji != nil && r.Emoji.Name == emoji.Name && r.Emoji.ID == emoji.ID {
			return r.Count
		}
	}
	return 0
}
