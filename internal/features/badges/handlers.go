// Package badges — handlers.go обрабатывает команды /badges и /profile
// и отправляет личные уведомления о новых бейджах.
package badges

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"levelhub.ru/discord-bot/internal/common"
)

// Handler обрабатывает команды бейджей.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик команд бейджей.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleBadges обрабатывает команду /badges — список заработанных бейджей.
func (h *Handler) HandleBadges(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := optionUser(s, i)
	if target == nil {
		target = interactionUser(i)
	}
	if target == nil {
		return
	}

	ids := h.service.GetUserBadges(target.ID)

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Бейджи %s", displayName(target)),
		Color: 0x57F287,
	}
	if len(ids) == 0 {
		embed.Description = "Пока ни одного бейджа."
	} else {
		for _, id := range ids {
			def, ok := h.service.Definition(id)
			if !ok {
				// Бейдж выдан старой версией каталога — показываем как есть
				embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
					Name: id, Value: "—",
				})
				continue
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  fmt.Sprintf("%s %s", def.Icon, def.Name),
				Value: def.Description,
			})
		}
	}
	respondEmbed(s, i, embed)
}

// HandleProfile обрабатывает команду /profile — уровень плюс иконки бейджей.
// Строка с уровнем строится колбэком rankLine, чтобы пакет бейджей
// не зависел от пакета leveling.
func (h *Handler) HandleProfile(s *discordgo.Session, i *discordgo.InteractionCreate, rankLine func(userID string) string) {
	target := optionUser(s, i)
	if target == nil {
		target = interactionUser(i)
	}
	if target == nil {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Профиль %s", displayName(target)),
		Description: rankLine(target.ID),
		Color:       0xEB459E,
	}

	if st, ok := h.service.Stats(target.ID); ok {
		activity := fmt.Sprintf("%s %s",
			common.FormatNumber(st.Messages), common.PluralizeMessages(st.Messages))
		if days, ok := h.service.DaysKnown(target.ID); ok {
			activity += fmt.Sprintf(" · с нами %d %s", days, common.PluralizeDays(days))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Активность",
			Value: activity,
		})
	}

	if ids := h.service.GetUserBadges(target.ID); len(ids) > 0 {
		var icons []string
		for _, id := range ids {
			if def, ok := h.service.Definition(id); ok {
				icons = append(icons, def.Icon)
			}
		}
		if len(icons) > 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Бейджи",
				Value: strings.Join(icons, " "),
			})
		}
	}
	respondEmbed(s, i, embed)
}

// NotifyAwards отправляет пользователю личные сообщения
// о каждом новом бейдже. Ошибки не критичны (закрытые DM — обычное дело).
func (h *Handler) NotifyAwards(s *discordgo.Session, userID string, ids []string) {
	if len(ids) == 0 {
		return
	}

	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось открыть DM для уведомления о бейдже")
		return
	}

	for _, id := range ids {
		def, ok := h.service.Definition(id)
		if !ok {
			continue
		}
		text := fmt.Sprintf("✨ Ты получил бейдж «%s»! %s", def.Name, def.Icon)
		if _, err := s.ChannelMessageSend(channel.ID, text); err != nil {
			log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить уведомление о бейдже")
		}
	}
}

// --- Утилиты работы с discordgo ---

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func optionUser(s *discordgo.Session, i *discordgo.InteractionCreate) *discordgo.User {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" && opt.Type == discordgo.ApplicationCommandOptionUser {
			return opt.UserValue(s)
		}
	}
	return nil
}

func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

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
