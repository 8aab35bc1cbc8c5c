package entities

// PayoutMode selects how a winning wager's delta relates to the stake
type PayoutMode string

const (
	// PayoutModeGross credits bet × (multiplier − edge) on a win
	PayoutModeGross PayoutMode = "gross"
	// PayoutModeNet treats the stake as part of the payout and credits only the profit
	PayoutModeNet PayoutMode = "net"
)

// Valid reports whether the mode is a known value
func (m PayoutMode) Valid() bool {
	return m == PayoutModeGross || m == PayoutModeNet
}

// MaxCurrencyRunes bounds the length of a guild's currency symbol
const MaxCurrencyRunes = 3

// GuildSettings is the sparse per-guild override row. A nil field inherits the
// process default. For GamblingChannelID and BankerRoleID a stored 0 means the
// value was explicitly cleared.
type GuildSettings struct {
	GuildID           int64       `db:"guild_id"`
	MinBet            *int64      `db:"min_bet"`
	MaxBet            *int64      `db:"max_bet"`
	HouseEdge         *float64    `db:"house_edge"`
	DailyAmount       *int64      `db:"daily_amount"`
	Currency          *string     `db:"currency"`
	GamblingEnabled   *bool       `db:"gambling_enabled"`
	GamblingChannelID *int64      `db:"gambling_channel_id"`
	BankerRoleID      *int64      `db:"banker_role_id"`
	PayoutMode        *PayoutMode `db:"payout_mode"`
}

// EffectiveSettings is a fully resolved view: overrides layered on defaults
type EffectiveSettings struct {
	GuildID           int64
	MinBet            int64
	MaxBet            int64
	HouseEdge         float64
	DailyAmount       int64
	Currency          string
	GamblingEnabled   bool
	GamblingChannelID int64 // 0 means unrestricted
	BankerRoleID      int64 // 0 means no banker role
	PayoutMode        PayoutMode
}

// HasGamblingChannel reports whether gambling commands are confined to a channel
func (s EffectiveSettings) HasGamblingChannel() bool {
	return s.GamblingChannelID != 0
}

// Merge layers the non-nil overrides of gs on top of defaults
func (gs *GuildSettings) Merge(defaults EffectiveSettings) EffectiveSettings {
	eff := defaults
	if gs == nil {
		return eff
	}
	eff.GuildID = gs.GuildID
	if gs.MinBet != nil {
		eff.MinBet = *gs.MinBet
	}
	if gs.MaxBet != nil {
		eff.MaxBet = *gs.MaxBet
	}
	if gs.HouseEdge != nil {
		eff.HouseEdge = *gs.HouseEdge
	}
	if gs.DailyAmount != nil {
		eff.DailyAmount = *gs.DailyAmount
	}
	if gs.Currency != nil {
		eff.Currency = *gs.Currency
	}
	if gs.GamblingEnabled != nil {
		eff.GamblingEnabled = *gs.GamblingEnabled
	}
	if gs.GamblingChannelID != nil {
		eff.GamblingChannelID = *gs.GamblingChannelID
	}
	if gs.BankerRoleID != nil {
		eff.BankerRoleID = *gs.BankerRoleID
	}
	if gs.PayoutMode != nil {
		eff.PayoutMode = *gs.PayoutMode
	}
	return eff
}

// SettingsUpdate is an admin change request; nil fields are untouched
type SettingsUpdate struct {
	MinBet            *int64
	MaxBet            *int64
	HouseEdge         *float64 // Fraction, or a percentage when >= 1
	DailyAmount       *int64
	Currency          *string
	GamblingEnabled   *bool
	GamblingChannelID *int64
	ClearChannel      bool
	BankerRoleID      *int64
	ClearBankerRole   bool
	PayoutMode        *PayoutMode
}

// IsEmpty reports whether the update changes nothing
func (u SettingsUpdate) IsEmpty() bool {
	return u.MinBet == nil && u.MaxBet == nil && u.HouseEdge == nil && u.DailyAmount == nil &&
		u.Currency == nil && u.GamblingEnabled == nil && u.GamblingChannelID == nil &&
		!u.ClearChannel && u.BankerRoleID == nil && !u.ClearBankerRole && u.PayoutMode == nil
}
