// Package leveling управляет системой XP и уровней.
// models.go описывает структуру данных и формулы расчёта уровня.
package leveling

import "time"

// XPPerLevel — стоимость одного уровня в XP.
// Уровень = xp / 100 (целочисленное деление, без округления вверх).
const XPPerLevel int64 = 100

// UserXP — запись XP одного пользователя.
// Создаётся лениво при первом событии, влияющем на XP, и никогда не удаляется.
// XP не бывает отрицательным и не уменьшается — кроме административного сброса.
type UserXP struct {
	XP int64 `json:"xp"`
	// Время последнего получения ежедневной награды (UTC).
	// nil = награда ещё ни разу не забиралась.
	LastDailyClaim *time.Time `json:"lastDailyClaim,omitempty"`
}

// Snapshot — срез состояния пользователя для отображения (/rank).
type Snapshot struct {
	XP          int64 // Текущий накопленный XP
	Level       int64 // Производный уровень
	NextLevelXP int64 // Сколько XP нужно для следующего уровня
}

// RankedUser — строка лидерборда.
type RankedUser struct {
	UserID string
	XP     int64
}

// CalculateLevel вычисляет уровень по накопленному XP.
// Строго floor(xp / 100); отрицательный XP невозможен по инварианту,
// но на всякий случай маппится в уровень 0.
func CalculateLevel(xp int64) int64 {
	if xp < 0 {
		return 0
	}
	return xp / XPPerLevel
}

// XPForNextLevel возвращает суммарный XP, необходимый для следующего уровня.
// Пример: уровень 2 → следующий уровень достигается на 300 XP.
func XPForNextLevel(level int64) int64 {
	return (level + 1) * XPPerLevel
}
