// Package cards turns recognized reference labels into playing cards.
//
// Labels come from reference file names, so several spellings are accepted:
//
//	AceOfSpades
//	ace of spades
//	10_of_hearts
//	ten-of-hearts
//	QueenOfDiamonds
package cards

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/paulhankin/poker"
)

// ErrUnknownLabel is returned when a label does not name a playing card.
var ErrUnknownLabel = errors.New("unknown card label")

// Card is a standard playing card. Rank runs from 1 (ace) to 13 (king).
type Card struct {
	Rank int    `json:"rank"`
	Suit string `json:"suit"`

	card poker.Card
}

var suits = map[string]poker.Suit{
	"clubs":    poker.Club,
	"diamonds": poker.Diamond,
	"hearts":   poker.Heart,
	"spades":   poker.Spade,
}

var rankWords = map[string]int{
	"ace": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
	"eight": 8, "nine": 9, "ten": 10, "jack": 11, "queen": 12, "king": 13,
}

var rankNames = [...]string{"", "Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Jack", "Queen", "King"}

// ParseLabel parses "<rank> of <suit>" in any of the accepted spellings.
func ParseLabel(label string) (Card, error) {
	words := splitWords(label)
	if len(words) != 3 || words[1] != "of" {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}

	rank, ok := rankWords[words[0]]
	if !ok {
		n, err := strconv.Atoi(words[0])
		if err != nil {
			return Card{}, fmt.Errorf("%w: rank %q", ErrUnknownLabel, words[0])
		}
		rank = n
	}
	if rank < 1 || rank > 13 {
		return Card{}, fmt.Errorf("%w: rank %d out of range", ErrUnknownLabel, rank)
	}

	suitName := words[2]
	if !strings.HasSuffix(suitName, "s") {
		suitName += "s"
	}
	suit, ok := suits[suitName]
	if !ok {
		return Card{}, fmt.Errorf("%w: suit %q", ErrUnknownLabel, words[2])
	}

	c, err := poker.MakeCard(suit, poker.Rank(rank))
	if err != nil {
		return Card{}, fmt.Errorf("%w: %v", ErrUnknownLabel, err)
	}
	return Card{Rank: rank, Suit: suitName, card: c}, nil
}

// splitWords lowercases s and splits it on spaces, underscores, hyphens and
// camel-case boundaries.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '_' || r == '-' || r == '.':
			flush()
		case unicode.IsUpper(r):
			flush()
			cur = append(cur, r)
		case unicode.IsDigit(r) && len(cur) > 0 && !unicode.IsDigit(cur[len(cur)-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

// String returns the canonical label, e.g. "AceOfSpades".
func (c Card) String() string {
	if c.Rank < 1 || c.Rank > 13 {
		return "Unknown"
	}
	s := c.Suit
	if s != "" {
		s = strings.ToUpper(s[:1]) + s[1:]
	}
	return rankNames[c.Rank] + "Of" + s
}

// BlackjackValue scores the card for blackjack: aces count 1, face cards 10.
func (c Card) BlackjackValue() int {
	if c.Rank > 10 {
		return 10
	}
	return c.Rank
}

// HandValue returns the blackjack total of hand. One ace counts 11 when that does
// not bust the hand.
func HandValue(hand []Card) int {
	total, aces := 0, 0
	for _, c := range hand {
		total += c.BlackjackValue()
		if c.Rank == 1 {
			aces++
		}
	}
	if aces > 0 && total+10 <= 21 {
		total += 10
	}
	return total
}

// Describe names the best poker hand formed by hand.
func Describe(hand []Card) (string, error) {
	pc := make([]poker.Card, len(hand))
	for i, c := range hand {
		pc[i] = c.card
	}
	return poker.Describe(pc)
}
