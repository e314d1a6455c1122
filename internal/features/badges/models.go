// Package badges управляет системой наград (бейджей) за активность.
// models.go описывает структуры данных: счётчики активности пользователя
// и определения бейджей с типизированными условиями.
package badges

import (
	"fmt"
	"time"
)

// ConditionKind — тип порогового условия бейджа.
// Условие у каждого бейджа ровно одно; оценщик делает switch по типу
// с default-ошибкой, чтобы новый тип условия нельзя было молча пропустить.
type ConditionKind string

const (
	ConditionMessages          ConditionKind = "messages"
	ConditionReactionsGiven    ConditionKind = "reactions_given"
	ConditionReactionsReceived ConditionKind = "reactions_received"
	ConditionDaysMember        ConditionKind = "days_member"
)

// Condition — пороговое условие: «счётчик kind достиг threshold».
type Condition struct {
	Kind      ConditionKind
	Threshold int64
}

// Definition — статическое описание бейджа.
// Каталог — это данные, а не логика: имена, иконки и пороги
// задаются при сборке приложения (см. catalog.go).
type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Condition   Condition
}

// UserStats — счётчики активности одного пользователя.
// Все счётчики монотонно растут; запись создаётся лениво при первом
// отслеживаемом событии и никогда не удаляется.
type UserStats struct {
	Messages          int64 `json:"messages"`
	ReactionsGiven    int64 `json:"reactionsGiven"`
	ReactionsReceived int64 `json:"reactionsReceived"`
	// Дата первого появления пользователя в поле зрения бота (RFC 3339).
	// ВАЖНО: это НЕ дата вступления на сервер — бот не знает о времени
	// до своего запуска. Бейдж "veteran" меряет стаж наблюдения ботом.
	JoinDate string `json:"joinDate"`
}

// JoinTime парсит JoinDate.
// Хранится строкой, а не time.Time, намеренно: битое значение в одном
// поле одного пользователя не должно ронять загрузку всего документа —
// оно всплывает как ошибка оценки одного бейджа и этот бейдж пропускается.
func (s *UserStats) JoinTime() (time.Time, error) {
	if s.JoinDate == "" {
		return time.Time{}, fmt.Errorf("joinDate отсутствует")
	}
	t, err := time.Parse(time.RFC3339, s.JoinDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректный joinDate %q: %w", s.JoinDate, err)
	}
	return t, nil
}
