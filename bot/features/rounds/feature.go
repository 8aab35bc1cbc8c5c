package rounds

import (
	"context"
	"sync"

	"guildledger/application/dto"
	"guildledger/bot/common"
	"guildledger/domain/entities"
	"guildledger/domain/games"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// RoundService is the slice of the round registry the bot drives
type RoundService interface {
	StartBlackjack(ctx context.Context, actor entities.Actor, bet int64) (*dto.RoundDTO, error)
	StartHiLo(ctx context.Context, actor entities.Actor, bet int64) (*dto.RoundDTO, error)
	StartCrash(ctx context.Context, actor entities.Actor, bet int64) (*dto.RoundDTO, error)
	Act(ctx context.Context, actor entities.Actor, roundID string, action games.Action) (*dto.RoundDTO, error)
}

// Feature runs the button-driven games and keeps their messages current
// when the registry advances a round on its own (crash ticks, timeouts).
type Feature struct {
	session *discordgo.Session
	rounds  RoundService

	mu       sync.Mutex
	messages map[string]*roundMessage // round id -> message that shows it

	// draw edits a round message; redraw unless replaced in tests
	draw func(interaction *discordgo.Interaction, round dto.RoundDTO)
}

// roundMessage serialises the edits of one round's message. Only the newest
// pending view is drawn, and nothing replaces a settled view.
type roundMessage struct {
	interaction *discordgo.Interaction

	mu      sync.Mutex
	pending *dto.RoundDTO
	final   bool
	drawing bool
}

func New(session *discordgo.Session, rounds RoundService) *Feature {
	f := &Feature{
		session:  session,
		rounds:   rounds,
		messages: make(map[string]*roundMessage),
	}
	f.draw = f.redraw
	return f
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleStart(s, i)
}

func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleButton(s, i)
}

func (f *Feature) track(roundID string, interaction *discordgo.Interaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[roundID] = &roundMessage{interaction: interaction}
}

func (f *Feature) forget(roundID string) *roundMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := f.messages[roundID]
	delete(f.messages, roundID)
	return msg
}

func (f *Feature) lookup(roundID string) *roundMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[roundID]
}

// OnUpdate redraws a round the registry advanced
func (f *Feature) OnUpdate(round dto.RoundDTO) {
	if msg := f.lookup(round.ID); msg != nil {
		f.enqueue(msg, round)
	}
}

// OnSettled shows the final state of a round that ended without a button press
func (f *Feature) OnSettled(round dto.RoundDTO) {
	if msg := f.forget(round.ID); msg != nil {
		f.enqueue(msg, round)
	}
}

// enqueue records the view to draw and starts a drawer unless one is running
func (f *Feature) enqueue(msg *roundMessage, round dto.RoundDTO) {
	msg.mu.Lock()
	defer msg.mu.Unlock()

	if msg.final {
		return
	}
	msg.pending = &round
	msg.final = round.Settled
	if !msg.drawing {
		msg.drawing = true
		go f.drain(msg)
	}
}

func (f *Feature) drain(msg *roundMessage) {
	for {
		msg.mu.Lock()
		round := msg.pending
		msg.pending = nil
		if round == nil {
			msg.drawing = false
			msg.mu.Unlock()
			return
		}
		msg.mu.Unlock()

		f.draw(msg.interaction, *round)
	}
}

func (f *Feature) redraw(interaction *discordgo.Interaction, round dto.RoundDTO) {
	if err := common.EditOriginal(f.session, interaction, RoundEmbed(round), RoundComponents(round)); err != nil {
		log.WithFields(log.Fields{
			"round_id": round.ID,
			"settled":  round.Settled,
		}).WithError(err).Warn("Failed to update round message")
	}
}
