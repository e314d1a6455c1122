package common

import (
	"testing"
	"time"
)

func TestPluralizeDays(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{1, "день"},
		{2, "дня"},
		{4, "дня"},
		{5, "дней"},
		{11, "дней"},
		{12, "дней"},
		{21, "день"},
		{22, "дня"},
		{100, "дней"},
		{101, "день"},
		{365, "дней"},
	}
	for _, c := range cases {
		if got := PluralizeDays(c.n); got != c.want {
			t.Errorf("PluralizeDays(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestPluralizeMessages(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{1, "сообщение"},
		{3, "сообщения"},
		{7, "сообщений"},
		{11, "сообщений"},
		{1000, "сообщений"},
		{1001, "сообщение"},
	}
	for _, c := range cases {
		if got := PluralizeMessages(c.n); got != c.want {
			t.Errorf("PluralizeMessages(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{23 * time.Hour, "23 ч 0 мин"},
		{90 * time.Minute, "1 ч 30 мин"},
		{45 * time.Minute, "45 мин"},
		{20 * time.Second, "1 мин"},
		{0, "1 мин"},
		{-time.Hour, "1 мин"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.d); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{2350, "2 350"},
		{1234567, "1 234 567"},
		{-2350, "-2 350"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.n); got != c.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	ts := time.Date(2026, 3, 1, 15, 4, 0, 0, moscow)
	if got := FormatDateTime(ts); got != "01.03.2026 12:04" {
		t.Errorf("FormatDateTime = %q, want UTC rendering", got)
	}
}
