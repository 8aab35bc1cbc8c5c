package games

import "strconv"

// Suit of a playing card
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

var suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Rank values; aces rank highest
const (
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
	RankAce   = 14
)

// Card is a single playing card. Rank runs 2..14 with the ace high.
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

// String renders the card as rank followed by suit, e.g. "A♠" or "10♥"
func (c Card) String() string {
	var rank string
	switch c.Rank {
	case RankJack:
		rank = "J"
	case RankQueen:
		rank = "Q"
	case RankKing:
		rank = "K"
	case RankAce:
		rank = "A"
	default:
		rank = strconv.Itoa(c.Rank)
	}
	return rank + string(c.Suit)
}

// IsAce checks if the card is an ace
func (c Card) IsAce() bool {
	return c.Rank == RankAce
}

// BlackjackValue counts faces as 10 and the ace as 11
func (c Card) BlackjackValue() int {
	switch {
	case c.IsAce():
		return 11
	case c.Rank >= 10:
		return 10
	default:
		return c.Rank
	}
}

// Deck is an ordered pile of cards dealt from the top
type Deck struct {
	cards []Card
	next  int
}

// NewDeck returns a full 52-card deck shuffled with rng
func NewDeck(rng RNG) *Deck {
	cards := make([]Card, 0, 52)
	for _, suit := range suits {
		for rank := 2; rank <= RankAce; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	// Fisher-Yates
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return &Deck{cards: cards}
}

// NewStackedDeck deals the given cards in order. Used to script rounds.
func NewStackedDeck(cards ...Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Draw deals the top card. A single round never exhausts a full deck; an
// exhausted stacked deck panics.
func (d *Deck) Draw() Card {
	if d.next >= len(d.cards) {
		panic("games: deck exhausted")
	}
	c := d.cards[d.next]
	d.next++
	return c
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Hand is a set of cards held by one side of a blackjack round
type Hand []Card

// Value returns the best blackjack total, downgrading aces from 11 to 1 as needed
func (h Hand) Value() int {
	total, aces := 0, 0
	for _, c := range h {
		total += c.BlackjackValue()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsBlackjack reports a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}

// IsBust reports a total over 21
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// Strings renders each card
func (h Hand) Strings() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.String()
	}
	return out
}
