package game

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateName
	StateRequest
	StateDice
	StateRetryDecision
	StateCardSelection
	StateCardDescription
	StateCardEmotions
	StateCardPurpose
	StateSelfImprovement
	StateAdvice
	StateGiftStart
	StateGiftCard1
	StateGiftCard2
	StateOffer
	StateInstagramNick
)

var stateNames = map[State]string{
	StateIdle:            "idle",
	StateName:            "name",
	StateRequest:         "request",
	StateDice:            "dice",
	StateRetryDecision:   "retry_decision",
	StateCardSelection:   "card_selection",
	StateCardDescription: "card_description",
	StateCardEmotions:    "card_emotions",
	StateCardPurpose:     "card_purpose",
	StateSelfImprovement: "self_improvement",
	StateAdvice:          "advice",
	StateGiftStart:       "gift_start",
	StateGiftCard1:       "gift_card_1",
	StateGiftCard2:       "gift_card_2",
	StateOffer:           "offer",
	StateInstagramNick:   "instagram_nick",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return StateIdle, fmt.Errorf("unknown state: %s", name)
}

// UIHandle names a sent message the session may edit or delete later.
type UIHandle int

const (
	UIRetryPrompt UIHandle = iota
	UIDeck
	UIGiftPrompt
	UIGift2Prompt
)

// Session is the transient dialogue position of one user.
type Session struct {
	State  State
	ChatId int64

	Deck         []string
	Cursor       int
	DiceAttempts int
	PendingRoll  int
	// RollSettled marks a pending roll whose result arrived but could not be committed.
	RollSettled  bool
	Card         string
	GiftCard1    string

	UI        map[UIHandle]int
	StartedAt time.Time
}

func NewSession(chatId int64) *Session {
	return &Session{State: StateIdle, ChatId: chatId, UI: map[UIHandle]int{}, StartedAt: time.Now()}
}

// clone copies s without sharing its deck or UI handles.
func (s *Session) clone() Session {
	c := *s
	c.Deck = slices.Clone(s.Deck)
	c.UI = maps.Clone(s.UI)
	return c
}

// forget drops a handle without touching the message.
func (s *Session) forget(h UIHandle) {
	delete(s.UI, h)
}
