package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatThousands renders n with comma thousands separators
func FormatThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// FormatCurrency prefixes the amount with the guild's currency symbol
func FormatCurrency(n int64, symbol string) string {
	if strings.TrimSpace(symbol) == "" {
		return FormatThousands(n)
	}
	return symbol + FormatThousands(n)
}

// FormatShortNotation formats a number using short notation (e.g., 50k instead of 50000)
func FormatShortNotation(value int64) string {
	absValue := value
	sign := ""
	if value < 0 {
		absValue = -value
		sign = "-"
	}

	switch {
	case absValue >= 1_000_000_000:
		return fmt.Sprintf("%s%.2fB", sign, float64(absValue)/1_000_000_000)
	case absValue >= 1_000_000:
		return fmt.Sprintf("%s%.2fM", sign, float64(absValue)/1_000_000)
	case absValue >= 10_000:
		return fmt.Sprintf("%s%dk", sign, absValue/1_000)
	case absValue >= 1_000:
		return fmt.Sprintf("%s%.1fk", sign, float64(absValue)/1_000)
	default:
		return fmt.Sprintf("%s%d", sign, absValue)
	}
}

// FormatWait renders a cooldown as "Xh Ym", or "Ym" under an hour
func FormatWait(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Minute {
		return "less than a minute"
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
