package common

import (
	"fmt"
	"strings"
	"time"

	"guildledger/domain/entities"
	"guildledger/domain/games"
	"guildledger/domain/utils"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount in the guild's currency, bolded for chat
func FormatAmount(amount int64, currency string) string {
	return "**" + utils.FormatCurrency(amount, currency) + "**"
}

// FormatSigned renders a balance delta with an explicit sign
func FormatSigned(delta int64, currency string) string {
	if delta < 0 {
		return "-" + utils.FormatCurrency(-delta, currency)
	}
	return "+" + utils.FormatCurrency(delta, currency)
}

// FormatPercent renders a fraction like 0.025 as "2.5%"
func FormatPercent(fraction float64) string {
	return decimal.NewFromFloat(fraction).Shift(2).String() + "%"
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// GameTitle is the display name of a game
func GameTitle(game entities.TransactionType) string {
	switch game {
	case entities.TransactionTypeCoinflip:
		return "Coinflip"
	case entities.TransactionTypeDice:
		return "Dice"
	case entities.TransactionTypeSlots:
		return "Slots"
	case entities.TransactionTypeRoulette:
		return "Roulette"
	case entities.TransactionTypeGuess:
		return "Guess"
	case entities.TransactionTypeBlackjack:
		return "Blackjack"
	case entities.TransactionTypeHiLo:
		return "Hi-Lo"
	case entities.TransactionTypeCrash:
		return "Crash"
	}
	if game == "" {
		return ""
	}
	return strings.ToUpper(string(game[:1])) + string(game[1:])
}

// DescribeDraw explains what an instant game drew
func DescribeDraw(detail any) string {
	switch d := detail.(type) {
	case games.CoinflipDetail:
		return fmt.Sprintf("🪙 The coin landed **%s** (you picked %s).", d.Landed, d.Pick)
	case games.DiceDetail:
		return fmt.Sprintf("🎲 %d + %d = **%d** (you picked %s).", d.Die1, d.Die2, d.Total(), d.Pick)
	case games.SlotsDetail:
		return fmt.Sprintf("🎰 | %s | %s | %s |", d.Reels[0], d.Reels[1], d.Reels[2])
	case games.RouletteDetail:
		return fmt.Sprintf("🎡 The ball landed on **%d %s** (you picked %s).", d.Number, d.Color, d.Pick)
	case games.GuessDetail:
		return fmt.Sprintf("🔢 The number was **%d** of 1-%d (you picked %d).", d.Drawn, d.Range, d.Pick)
	}
	return ""
}

// FormatResultLine states how a settled wager moved the balance
func FormatResultLine(outcome games.Outcome, balance int64, currency string) string {
	var head string
	switch outcome.Result {
	case games.ResultWin:
		head = fmt.Sprintf("🎉 **You won!** %s", FormatSigned(outcome.Delta, currency))
	case games.ResultPush:
		head = "🤝 **Push.** Your bet was returned"
	default:
		head = fmt.Sprintf("😔 **You lost.** %s", FormatSigned(outcome.Delta, currency))
	}
	return fmt.Sprintf("%s\nBalance: %s", head, FormatAmount(balance, currency))
}

// FormatOutcome renders an instant wager result
func FormatOutcome(outcome games.Outcome, balance int64, currency string) string {
	lines := []string{
		fmt.Sprintf("**%s** for %s", GameTitle(outcome.Game), FormatAmount(outcome.Bet, currency)),
	}
	if draw := DescribeDraw(outcome.Detail); draw != "" {
		lines = append(lines, draw)
	}
	lines = append(lines, FormatResultLine(outcome, balance, currency))
	return strings.Join(lines, "\n")
}

// FormatSettingsSummary lists a guild's effective settings
func FormatSettingsSummary(eff entities.EffectiveSettings) string {
	enabled := "No"
	if eff.GamblingEnabled {
		enabled = "Yes"
	}
	channel := "Any channel"
	if eff.HasGamblingChannel() {
		channel = fmt.Sprintf("<#%d>", eff.GamblingChannelID)
	}
	banker := "Manage Server only"
	if eff.BankerRoleID != 0 {
		banker = fmt.Sprintf("<@&%d>", eff.BankerRoleID)
	}

	return strings.Join([]string{
		"**Gambling settings**",
		"Enabled: " + enabled,
		fmt.Sprintf("Currency: %s | Min: %s | Max: %s", eff.Currency,
			utils.FormatThousands(eff.MinBet), utils.FormatThousands(eff.MaxBet)),
		fmt.Sprintf("Edge: %s | Daily: %s | Payout: %s", FormatPercent(eff.HouseEdge),
			utils.FormatThousands(eff.DailyAmount), eff.PayoutMode),
		"Gambling channel: " + channel,
		"Banker role: " + banker,
	}, "\n")
}
