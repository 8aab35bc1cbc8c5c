package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorGold    = 0xE67E22 // Leaderboard orange
)

// Component custom ID prefixes
const (
	RoundButtonPrefix = "round_"
)

// Option limits shared by command definitions
const (
	MaxGrantAmount = 100_000_000
	MaxCodeUses    = 1_000_000
)
