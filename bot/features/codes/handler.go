package codes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guildledger/bot/common"
	"guildledger/domain/entities"
	"guildledger/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleRedeem(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	code := common.NewOptions(i.ApplicationCommandData().Options).String("code", "")

	result, err := f.codes.Redeem(ctx, actor, code)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithContent(s, i, fmt.Sprintf("🎁 Redeemed %s. Balance: %s",
		common.FormatAmount(result.Amount, result.Currency),
		common.FormatAmount(result.Balance, result.Currency)), true)
}

// codeFromOptions builds a new code from the create subcommand
func codeFromOptions(opts common.Options, now time.Time) *entities.RedeemCode {
	code := &entities.RedeemCode{
		Code:    opts.String("code", ""),
		Amount:  opts.Int("amount", 0),
		MaxUses: int(opts.Int("max_uses", 1)),
		Note:    opts.String("note", ""),
	}
	if opts.Has("expires_in_hours") {
		expires := now.Add(time.Duration(opts.Int("expires_in_hours", 0)) * time.Hour)
		code.ExpiresAt = &expires
	}
	return code
}

// editFromOptions builds a partial edit from the edit subcommand
func editFromOptions(opts common.Options, now time.Time) entities.CodeEdit {
	var edit entities.CodeEdit
	if opts.Has("amount") {
		v := opts.Int("amount", 0)
		edit.Amount = &v
	}
	if opts.Has("max_uses") {
		v := int(opts.Int("max_uses", 0))
		edit.MaxUses = &v
	}
	if opts.Has("expires_in_hours") {
		v := now.Add(time.Duration(opts.Int("expires_in_hours", 0)) * time.Hour)
		edit.ExpiresAt = &v
	}
	if v, _ := opts.Bool("clear_expiry"); v {
		edit.ClearExpiry = true
	}
	if opts.Has("note") {
		v := opts.String("note", "")
		edit.Note = &v
	}
	if v, ok := opts.Bool("enabled"); ok {
		edit.Enabled = &v
	}
	return edit
}

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	created, err := f.codes.Create(ctx, actor, codeFromOptions(common.NewOptions(options), time.Now()))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": actor.GuildID,
		"code":     created.Code,
		"amount":   created.Amount,
		"max_uses": created.MaxUses,
	}).Info("Redeem code created")

	common.RespondWithContent(s, i, "✅ Created "+describeCode(created), true)
}

func (f *Feature) handleEdit(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	opts := common.NewOptions(options)

	updated, err := f.codes.Edit(ctx, actor, opts.String("code", ""), editFromOptions(opts, time.Now()))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithContent(s, i, "✅ Updated "+describeCode(updated), true)
}

func (f *Feature) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	code := entities.NormalizeCode(common.NewOptions(options).String("code", ""))

	if err := f.codes.Delete(ctx, actor, code); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithContent(s, i, fmt.Sprintf("🗑️ Deleted code `%s`.", code), true)
}

func (f *Feature) handleDisable(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	code := entities.NormalizeCode(common.NewOptions(options).String("code", ""))

	if err := f.codes.Disable(ctx, actor, code); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithContent(s, i, fmt.Sprintf("⛔ Disabled code `%s`.", code), true)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	list, err := f.codes.List(ctx, actor)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Redeem codes",
		Color:       common.ColorInfo,
		Description: formatCodeList(list),
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to code list: %v", err)
	}
}

func describeCode(code *entities.RedeemCode) string {
	parts := []string{
		fmt.Sprintf("`%s`", code.Code),
		fmt.Sprintf("worth %s", utils.FormatThousands(code.Amount)),
		fmt.Sprintf("%d/%d uses", code.Uses, code.MaxUses),
	}
	if code.ExpiresAt != nil {
		parts = append(parts, "expires "+common.FormatDiscordTimestamp(*code.ExpiresAt, "R"))
	}
	if code.Disabled {
		parts = append(parts, "disabled")
	}
	if code.Note != "" {
		parts = append(parts, "("+code.Note+")")
	}
	return strings.Join(parts, ", ")
}

func formatCodeList(list []*entities.RedeemCode) string {
	if len(list) == 0 {
		return "_No codes yet_"
	}
	lines := make([]string, 0, len(list))
	for _, code := range list {
		lines = append(lines, "• "+describeCode(code))
	}
	return strings.Join(lines, "\n")
}
