// Package bot — commands.go описывает слэш-команды бота.
// Определения отдаются Discord одной пачкой (bulk overwrite) при старте.
package bot

import "github.com/bwmarrin/discordgo"

// commandDefinitions возвращает описания всех слэш-команд.
func commandDefinitions() []*discordgo.ApplicationCommand {
	userOption := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Чей профиль показать (по умолчанию — твой)",
		},
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "start",
			Description: "Проверить, что бот жив",
		},
		{
			Name:        "rank",
			Description: "Показать XP и уровень",
			Options:     userOption,
		},
		{
			Name:        "leaderboard",
			Description: "Топ-10 сервера по XP",
		},
		{
			Name:        "daily",
			Description: "Забрать ежедневную награду XP",
		},
		{
			Name:        "badges",
			Description: "Показать заработанные бейджи",
			Options:     userOption,
		},
		{
			Name:        "profile",
			Description: "Профиль: уровень и бейджи",
			Options:     userOption,
		},
	}
}
