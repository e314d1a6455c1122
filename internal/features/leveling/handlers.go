// Package leveling — handlers.go обрабатывает слэш-команды:
// /rank (текущий уровень), /leaderboard (топ-10), /daily (ежедневная награда),
// а также объявляет новые уровни и выдаёт роли-награды.
package leveling

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"levelhub.ru/discord-bot/internal/common"
	"levelhub.ru/discord-bot/internal/config"
)

// LeaderboardSize — сколько строк показывает /leaderboard.
const LeaderboardSize = 10

// Handler обрабатывает команды XP-системы.
type Handler struct {
	service *Service
	cfg     *config.Config
}

// NewHandler создаёт новый обработчик XP-команд.
func NewHandler(service *Service, cfg *config.Config) *Handler {
	return &Handler{service: service, cfg: cfg}
}

// HandleRank обрабатывает команду /rank — показывает XP и уровень.
// Рисование rank-card картинок здесь намеренно не делается:
// вся информация отдаётся текстовым embed'ом.
func (h *Handler) HandleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := optionUser(s, i)
	if target == nil {
		target = interactionUser(i)
	}
	if target == nil {
		return
	}

	snap := h.service.GetSnapshot(target.ID)

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Ранг %s", displayName(target)),
		Description: fmt.Sprintf("Уровень **%d** — %s из %s до следующего уровня",
			snap.Level, common.FormatXP(snap.XP), common.FormatXP(snap.NextLevelXP)),
		Color: 0x5865F2,
	}
	respondEmbed(s, i, embed)
}

// HandleLeaderboard обрабатывает команду /leaderboard — топ-10 по XP.
//
// Формат строки:
//
//	1. Имя — Уровень 3 (320 XP)
func (h *Handler) HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	top := h.service.GetTopUsers(LeaderboardSize)

	if len(top) == 0 {
		respondText(s, i, "Лидерборд пока пуст — напишите что-нибудь!")
		return
	}

	var sb strings.Builder
	for idx, entry := range top {
		name := memberDisplayName(s, h.cfg.GuildID, entry.UserID)
		fmt.Fprintf(&sb, "%d. **%s** — Уровень %d (%s)\n",
			idx+1, name, CalculateLevel(entry.XP), common.FormatXP(entry.XP))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Лидерборд сообщества",
		Description: sb.String(),
		Color:       0xFEE75C,
	}
	respondEmbed(s, i, embed)
}

// HandleDaily обрабатывает команду /daily — выдаёт ежедневную награду
// либо сообщает, сколько осталось ждать.
func (h *Handler) HandleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	if !h.cfg.FeatureDailyEnabled {
		respondText(s, i, "Ежедневные награды временно отключены")
		return
	}

	eligible, remaining := h.service.CanClaimDaily(user.ID)
	if !eligible {
		respondText(s, i, fmt.Sprintf("⏳ Награда ещё не готова. Возвращайся через %s",
			common.FormatDuration(remaining)))
		return
	}

	granted, newLevel, err := h.service.ClaimDaily(context.Background(), user.ID)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Ошибка выдачи ежедневной награды")
		respondText(s, i, "❌ Не удалось выдать награду, попробуй позже")
		return
	}
	if granted == 0 {
		// Перепроверка в сервисе не прошла — кто-то успел раньше
		respondText(s, i, "⏳ Награда уже получена")
		return
	}

	respondText(s, i, fmt.Sprintf("🎁 +%s! Твой уровень: %d", common.FormatXP(granted), newLevel))
}

// AnnounceLevelUp объявляет новый уровень в канале объявлений
// и выдаёт роль-награду, если она настроена для этого уровня.
// Вызывается из глю-слоя при повышении уровня.
func (h *Handler) AnnounceLevelUp(s *discordgo.Session, userID string, level int64) {
	// Роль-награда: просто вызов SDK, без проверки прав —
	// авторизацию решает сам Discord
	if roleID, ok := h.cfg.RoleRewards[level]; ok {
		if err := s.GuildMemberRoleAdd(h.cfg.GuildID, userID, roleID); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user_id": userID,
				"role_id": roleID,
			}).Warn("Не удалось выдать роль-награду")
		}
	}

	channelID := h.cfg.AnnounceChannelID
	if channelID == "" {
		guild, err := s.Guild(h.cfg.GuildID)
		if err != nil || guild.SystemChannelID == "" {
			log.WithField("user_id", userID).Debug("Канал объявлений не настроен, пропускаем анонс")
			return
		}
		channelID = guild.SystemChannelID
	}

	text := fmt.Sprintf("Поздравляем <@%s>, теперь ты Уровень %d! 🥳", userID, level)
	if _, err := s.ChannelMessageSend(channelID, text); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить анонс уровня")
	}
}

// --- Утилиты работы с discordgo ---

// interactionUser возвращает автора интеракции (в гильдии — i.Member.User).
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// optionUser возвращает пользователя из опции команды "user", если она задана.
func optionUser(s *discordgo.Session, i *discordgo.InteractionCreate) *discordgo.User {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" && opt.Type == discordgo.ApplicationCommandOptionUser {
			return opt.UserValue(s)
		}
	}
	return nil
}

// displayName возвращает видимое имя пользователя.
func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// memberDisplayName резолвит имя участника гильдии по ID.
// Участник мог выйти с сервера — тогда показываем "User <id>".
func memberDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err != nil || member == nil || member.User == nil {
		return "User " + userID
	}
	if member.Nick != "" {
		return member.Nick
	}
	return displayName(member.User)
}

// respondEmbed отвечает на интеракцию embed'ом.
func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.WithError(err).Error("Ошибка ответа на интеракцию")
	}
}

// respondText отвечает на интеракцию обычным текстом.
func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, text string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
		},
	})
	if err != nil {
		log.WithError(err).Error("Ошибка ответа на интеракцию")
	}
}
