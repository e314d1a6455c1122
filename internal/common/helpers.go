// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел и длительностей.
package common

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
// Правила:
//   - 1, 21, 31 → "день"
//   - 2-4, 22-24 → "дня"
//   - 5-20, 25-30 → "дней"
func PluralizeDays(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "день"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "дня"
	}
	return "дней"
}

// PluralizeMessages возвращает правильную форму слова «сообщение».
func PluralizeMessages(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "сообщение"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "сообщения"
	}
	return "сообщений"
}

// FormatXP форматирует количество XP в читабельную строку.
// Пример: FormatXP(150) → "150 XP"
func FormatXP(xp int64) string {
	return fmt.Sprintf("%d XP", xp)
}

// FormatDuration форматирует длительность в строку вида "22 ч 58 мин".
// Используется для ответа «сколько осталось до следующей ежедневной награды».
// Длительности меньше минуты округляются до "1 мин", чтобы не писать «0 мин».
//
// Примеры:
//
//	FormatDuration(23 * time.Hour)          → "23 ч 0 мин"
//	FormatDuration(90 * time.Minute)        → "1 ч 30 мин"
//	FormatDuration(45 * time.Minute)        → "45 мин"
//	FormatDuration(20 * time.Second)        → "1 мин"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalMinutes := int64(d.Round(time.Minute) / time.Minute)
	if totalMinutes < 1 {
		totalMinutes = 1
	}

	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	var sb strings.Builder
	if hours > 0 {
		fmt.Fprintf(&sb, "%d ч ", hours)
	}
	fmt.Fprintf(&sb, "%d мин", minutes)
	return sb.String()
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, " ")
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" (UTC).
// Используется для отображения дат в админ-статистике.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("02.01.2006 15:04")
}
