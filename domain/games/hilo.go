package games

import (
	"guildledger/domain/apperr"
	"guildledger/domain/entities"
)

// HiLoDetail records the two cards of a hi-lo round
type HiLoDetail struct {
	Base    string
	Next    string
	Guess   string
	Expired bool
}

func (d HiLoDetail) metadata() map[string]any {
	return map[string]any{"base": d.Base, "next": d.Next, "guess": d.Guess, "expired": d.Expired}
}

// HiLo shows a base card and pays even money for guessing whether the next
// card ranks higher or lower. Aces are high and equal ranks push.
type HiLo struct {
	stake   Stake
	deck    *Deck
	Base    Card
	Next    *Card
	phase   Phase
	outcome *Outcome
}

// NewHiLo shuffles a deck and reveals the base card
func NewHiLo(s Stake, rng RNG) (*HiLo, error) {
	return DealHiLo(s, NewDeck(rng))
}

// DealHiLo reveals the base card from deck
func DealHiLo(s Stake, deck *Deck) (*HiLo, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &HiLo{stake: s, deck: deck, Base: deck.Draw(), phase: PhaseOpen}, nil
}

func (h *HiLo) Game() entities.TransactionType { return entities.TransactionTypeHiLo }

func (h *HiLo) Phase() Phase { return h.phase }

func (h *HiLo) Exposure() int64 { return h.stake.Bet }

func (h *HiLo) Act(action Action) error {
	if h.phase.IsTerminal() {
		return apperr.ErrRoundFinished
	}
	if action != ActionHigher && action != ActionLower {
		return unsupported(h.Game(), action)
	}

	next := h.deck.Draw()
	h.Next = &next
	detail := HiLoDetail{Base: h.Base.String(), Next: next.String(), Guess: string(action)}

	var o Outcome
	switch {
	case next.Rank == h.Base.Rank:
		o = push(h.Game(), h.stake.Bet, detail)
	case (action == ActionHigher) == (next.Rank > h.Base.Rank):
		o = win(h.Game(), h.stake, EvenMoneyMultiplier, detail)
	default:
		o = loss(h.Game(), h.stake.Bet, detail)
	}
	h.outcome = &o
	h.phase = PhaseSettled
	return nil
}

func (h *HiLo) Expire() {
	if h.phase.IsTerminal() {
		return
	}
	o := loss(h.Game(), h.stake.Bet, HiLoDetail{Base: h.Base.String(), Expired: true})
	h.outcome = &o
	h.phase = PhaseSettled
}

func (h *HiLo) Outcome() (Outcome, bool) {
	if h.outcome == nil {
		return Outcome{}, false
	}
	return *h.outcome, true
}

var (
	_ Round = (*Blackjack)(nil)
	_ Round = (*Crash)(nil)
	_ Round = (*HiLo)(nil)
)
