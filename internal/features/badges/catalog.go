// Package badges — catalog.go содержит каталог бейджей по умолчанию.
// Каталог передаётся сервису при сборке приложения: пороги, имена
// и иконки — данные конфигурации, а не зашитая логика.
package badges

// DefaultCatalog возвращает стандартный набор бейджей сообщества.
//
// | id                 | условие            | порог |
// |--------------------|--------------------|-------|
// | chatterbox         | messages           | 1000  |
// | reaction_master    | reactions_given    | 500   |
// | community_favorite | reactions_received | 100   |
// | veteran            | days_member        | 365   |
func DefaultCatalog() []Definition {
	return []Definition{
		{
			ID:          "chatterbox",
			Name:        "Болтун",
			Description: "Отправил 1000 сообщений",
			Icon:        "💬",
			Condition:   Condition{Kind: ConditionMessages, Threshold: 1000},
		},
		{
			ID:          "reaction_master",
			Name:        "Король реакций",
			Description: "Поставил 500 реакций",
			Icon:        "👍",
			Condition:   Condition{Kind: ConditionReactionsGiven, Threshold: 500},
		},
		{
			ID:          "community_favorite",
			Name:        "Любимчик сообщества",
			Description: "Получил 100 реакций на свои сообщения",
			Icon:        "❤️",
			Condition:   Condition{Kind: ConditionReactionsReceived, Threshold: 100},
		},
		{
			ID:          "veteran",
			Name:        "Ветеран",
			Description: "Год в сообществе",
			Icon:        "🎖️",
			Condition:   Condition{Kind: ConditionDaysMember, Threshold: 365},
		},
	}
}
