package games

import (
	"guildledger/domain/apperr"
	"guildledger/domain/entities"
)

// DealerStandsOn is the total at which the dealer stops drawing
const DealerStandsOn = 17

// BlackjackDetail is the final table of a blackjack round
type BlackjackDetail struct {
	Player      []string
	Dealer      []string
	PlayerTotal int
	DealerTotal int
	Doubled     bool
	Expired     bool
}

func (d BlackjackDetail) metadata() map[string]any {
	return map[string]any{
		"player":       d.Player,
		"dealer":       d.Dealer,
		"player_total": d.PlayerTotal,
		"dealer_total": d.DealerTotal,
		"doubled":      d.Doubled,
		"expired":      d.Expired,
	}
}

// Blackjack is a single-deck round against a dealer who draws below 17
type Blackjack struct {
	stake   Stake
	deck    *Deck
	Player  Hand
	Dealer  Hand
	phase   Phase
	doubled bool
	acted   bool
	outcome *Outcome
}

// NewBlackjack shuffles a fresh deck and deals the opening hands
func NewBlackjack(s Stake, rng RNG) (*Blackjack, error) {
	return DealBlackjack(s, NewDeck(rng))
}

// DealBlackjack deals player, dealer, player, dealer from deck. A natural 21
// skips straight to the dealer.
func DealBlackjack(s Stake, deck *Deck) (*Blackjack, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b := &Blackjack{stake: s, deck: deck, phase: PhasePlayerTurn}
	b.Player = append(b.Player, deck.Draw())
	b.Dealer = append(b.Dealer, deck.Draw())
	b.Player = append(b.Player, deck.Draw())
	b.Dealer = append(b.Dealer, deck.Draw())

	if b.Player.IsBlackjack() {
		b.dealerTurn()
	}
	return b, nil
}

func (b *Blackjack) Game() entities.TransactionType { return entities.TransactionTypeBlackjack }

func (b *Blackjack) Phase() Phase { return b.phase }

func (b *Blackjack) Exposure() int64 { return b.stake.Bet }

// CanDouble reports whether doubling is still allowed
func (b *Blackjack) CanDouble() bool {
	return b.phase == PhasePlayerTurn && !b.acted
}

// DealerUpCard is the dealer card visible during the player's turn
func (b *Blackjack) DealerUpCard() Card {
	return b.Dealer[0]
}

func (b *Blackjack) Act(action Action) error {
	if b.phase.IsTerminal() {
		return apperr.ErrRoundFinished
	}

	switch action {
	case ActionHit:
		b.acted = true
		b.Player = append(b.Player, b.deck.Draw())
		b.afterDraw()
	case ActionStand:
		b.acted = true
		b.dealerTurn()
	case ActionDouble:
		if !b.CanDouble() {
			return apperr.InvalidParameter("double is only allowed as the first action")
		}
		b.acted = true
		b.doubled = true
		b.stake.Bet *= 2
		b.Player = append(b.Player, b.deck.Draw())
		if b.Player.IsBust() {
			b.settle(false)
		} else {
			b.dealerTurn()
		}
	default:
		return unsupported(b.Game(), action)
	}
	return nil
}

func (b *Blackjack) afterDraw() {
	switch v := b.Player.Value(); {
	case v > 21:
		b.settle(false)
	case v == 21:
		b.dealerTurn()
	}
}

func (b *Blackjack) dealerTurn() {
	b.phase = PhaseDealerTurn
	for b.Dealer.Value() < DealerStandsOn {
		b.Dealer = append(b.Dealer, b.deck.Draw())
	}
	b.settle(false)
}

func (b *Blackjack) Expire() {
	if b.phase.IsTerminal() {
		return
	}
	b.settle(true)
}

func (b *Blackjack) settle(expired bool) {
	detail := BlackjackDetail{
		Player:      b.Player.Strings(),
		Dealer:      b.Dealer.Strings(),
		PlayerTotal: b.Player.Value(),
		DealerTotal: b.Dealer.Value(),
		Doubled:     b.doubled,
		Expired:     expired,
	}

	var o Outcome
	p, d := detail.PlayerTotal, detail.DealerTotal
	switch {
	case expired, p > 21:
		o = loss(b.Game(), b.stake.Bet, detail)
	case d > 21, p > d:
		o = win(b.Game(), b.stake, EvenMoneyMultiplier, detail)
	case p < d:
		o = loss(b.Game(), b.stake.Bet, detail)
	default:
		o = push(b.Game(), b.stake.Bet, detail)
	}

	b.outcome = &o
	b.phase = PhaseSettled
}

func (b *Blackjack) Outcome() (Outcome, bool) {
	if b.outcome == nil {
		return Outcome{}, false
	}
	return *b.outcome, true
}
