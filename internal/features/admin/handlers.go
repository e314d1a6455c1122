// Package admin — handlers.go обрабатывает текстовые команды админ-панели
// в личных сообщениях бота:
//
//	/login <пароль>        — вход
//	выдать <user_id> <N>   — выдать N XP
//	сбросить <user_id>     — обнулить XP
//	статистика             — сводка по хранилищу
//	выход                  — завершить сессию
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"levelhub.ru/discord-bot/internal/common"
)

// Handler обрабатывает DM-команды админ-панели.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик админ-команд.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleAdminMessage разбирает сообщение в DM.
// Возвращает true, если сообщение было командой админ-панели
// (и дальше его обрабатывать не нужно).
func (h *Handler) HandleAdminMessage(ctx context.Context, s *discordgo.Session, channelID, userID, text string) bool {
	text = strings.TrimSpace(text)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	// /login доступен без сессии
	if cmd == "/login" {
		h.handleLogin(s, channelID, userID, args)
		return true
	}

	// Остальные команды — только с активной сессией
	switch cmd {
	case "выдать", "сбросить", "статистика", "выход":
	default:
		return false
	}

	if err := h.service.CheckSession(userID); err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			h.send(s, channelID, "⌛ Сессия истекла, войдите заново: /login <пароль>")
		} else {
			h.send(s, channelID, "🔒 Сначала войдите: /login <пароль>")
		}
		return true
	}

	switch cmd {
	case "выдать":
		h.handleGrant(ctx, s, channelID, args)
	case "сбросить":
		h.handleReset(ctx, s, channelID, args)
	case "статистика":
		h.handleStats(s, channelID)
	case "выход":
		h.service.Logout(userID)
		h.send(s, channelID, "👋 Сессия завершена")
	}
	return true
}

func (h *Handler) handleLogin(s *discordgo.Session, channelID, userID string, args []string) {
	if len(args) < 1 {
		h.send(s, channelID, "Формат: /login <пароль>")
		return
	}

	err := h.service.Login(userID, strings.Join(args, " "))
	switch {
	case err == nil:
		h.send(s, channelID, "✅ Вы вошли в админ-панель. Команды: выдать, сбросить, статистика, выход")
	case errors.Is(err, common.ErrNotAdmin):
		// Не раскрываем чужим, что это вообще за команда
		log.WithField("user_id", userID).Warn("Попытка входа в админ-панель не-администратором")
	case errors.Is(err, common.ErrTooManyAttempts):
		h.send(s, channelID, "⛔ Слишком много попыток, подождите час")
	case errors.Is(err, common.ErrWrongPassword):
		h.send(s, channelID, "❌ Неверный пароль")
	default:
		log.WithError(err).Error("Ошибка входа в админ-панель")
		h.send(s, channelID, "❌ Ошибка входа")
	}
}

func (h *Handler) handleGrant(ctx context.Context, s *discordgo.Session, channelID string, args []string) {
	if len(args) < 2 {
		h.send(s, channelID, "Формат: выдать <user_id> <количество>")
		return
	}
	targetID := strings.TrimSpace(args[0])
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		h.send(s, channelID, "❌ Количество должно быть положительным числом")
		return
	}

	newLevel, err := h.service.GrantXP(ctx, targetID, amount)
	if err != nil {
		log.WithError(err).Error("Ошибка выдачи XP")
		h.send(s, channelID, "❌ Не удалось выдать XP")
		return
	}
	h.send(s, channelID, fmt.Sprintf("✅ Выдано %s пользователю %s (уровень %d)",
		common.FormatXP(amount), targetID, newLevel))
}

func (h *Handler) handleReset(ctx context.Context, s *discordgo.Session, channelID string, args []string) {
	if len(args) < 1 {
		h.send(s, channelID, "Формат: сбросить <user_id>")
		return
	}
	targetID := strings.TrimSpace(args[0])

	err := h.service.ResetXP(ctx, targetID)
	switch {
	case err == nil:
		h.send(s, channelID, fmt.Sprintf("✅ XP пользователя %s обнулён", targetID))
	case errors.Is(err, common.ErrUserNotFound):
		h.send(s, channelID, "❌ Пользователь не найден в хранилище")
	default:
		log.WithError(err).Error("Ошибка сброса XP")
		h.send(s, channelID, "❌ Не удалось сбросить XP")
	}
}

func (h *Handler) handleStats(s *discordgo.Session, channelID string) {
	stats := h.service.GetStoreStats()
	h.send(s, channelID, fmt.Sprintf(
		"📊 Хранилище на %s (UTC):\nXP-записей: %s\nЗаписей статистики: %s\nВыдано бейджей: %s",
		common.FormatDateTime(time.Now()),
		common.FormatNumber(int64(stats.XPUsers)),
		common.FormatNumber(int64(stats.StatsUsers)),
		common.FormatNumber(int64(stats.BadgesAwarded)),
	))
}

// send — утилита для отправки сообщений в канал.
func (h *Handler) send(s *discordgo.Session, channelID, text string) {
	if _, err := s.ChannelMessageSend(channelID, text); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("Ошибка отправки сообщения")
	}
}
