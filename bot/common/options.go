package common

import "github.com/bwmarrin/discordgo"

// Options indexes slash command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// NewOptions indexes the given options
func NewOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	m := make(Options, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// Int returns an integer option, or def when absent
func (o Options) Int(name string, def int64) int64 {
	if opt, ok := o[name]; ok {
		return opt.IntValue()
	}
	return def
}

// String returns a string option, or def when absent
func (o Options) String(name, def string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return def
}

// Bool returns a boolean option and whether it was supplied
func (o Options) Bool(name string) (bool, bool) {
	if opt, ok := o[name]; ok {
		return opt.BoolValue(), true
	}
	return false, false
}

// Float returns a number option and whether it was supplied
func (o Options) Float(name string) (float64, bool) {
	if opt, ok := o[name]; ok {
		return opt.FloatValue(), true
	}
	return 0, false
}

// Has reports whether the option was supplied
func (o Options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// SnowflakeID returns the raw id of a user, channel or role option, or "" when absent
func (o Options) SnowflakeID(name string) string {
	opt, ok := o[name]
	if !ok {
		return ""
	}
	if id, ok := opt.Value.(string); ok {
		return id
	}
	return ""
}

// ResolvedUser looks up a user option in the interaction's resolved data so the bot flag is known
func ResolvedUser(i *discordgo.InteractionCreate, id string) *discordgo.User {
	data := i.ApplicationCommandData()
	if data.Resolved != nil {
		if u, ok := data.Resolved.Users[id]; ok {
			return u
		}
	}
	return &discordgo.User{ID: id}
}
