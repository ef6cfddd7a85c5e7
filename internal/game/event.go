package game

import (
	"fmt"
	"strconv"
	"strings"
)

type EventKind int

const (
	EventStart EventKind = iota
	EventText
	EventStartGame
	EventRollDice
	EventDiceSettled
	EventRetryDice
	EventContinueAnyway
	EventCardPrev
	EventCardNext
	EventCardSelect
	EventGiftStart
	EventGiftPrev
	EventGiftNext
	EventGiftSelect
	EventWantDiscount
	EventNoop
)

var eventNames = [...]string{
	EventStart:          "start",
	EventText:           "text",
	EventStartGame:      "start_game",
	EventRollDice:       "roll_dice",
	EventDiceSettled:    "dice_settled",
	EventRetryDice:      "retry_dice",
	EventContinueAnyway: "continue_anyway",
	EventCardPrev:       "card_prev",
	EventCardNext:       "card_next",
	EventCardSelect:     "card_select",
	EventGiftStart:      "start_gift_selection",
	EventGiftPrev:       "gift_prev",
	EventGiftNext:       "gift_next",
	EventGiftSelect:     "gift_select",
	EventWantDiscount:   "want_discount",
	EventNoop:           "noop",
}

func (k EventKind) String() string {
	if int(k) >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one inbound user action, or a scheduled continuation.
type Event struct {
	Kind     EventKind
	UserId   int64
	ChatId   int64
	Username string
	Text     string
	// Cursor is the deck position the clicked button was rendered for.
	Cursor int
	// Slot is the gift pick (1 or 2) a gift button belongs to.
	Slot int
	// Value carries the dice outcome of EventDiceSettled.
	Value int
}

// Callback data of the inline buttons.
const (
	actionStartGame      = "start_game"
	actionRollDice       = "roll_dice"
	actionRetryDice      = "retry_dice"
	actionContinueAnyway = "continue_anyway"
	actionGiftStart      = "start_gift_selection"
	actionWantDiscount   = "want_discount"

	cardPrefix = "card"
	giftPrefix = "gift"
)

var simpleActions = map[string]EventKind{
	actionStartGame:      EventStartGame,
	actionRollDice:       EventRollDice,
	actionRetryDice:      EventRetryDice,
	actionContinueAnyway: EventContinueAnyway,
	actionGiftStart:      EventGiftStart,
	actionWantDiscount:   EventWantDiscount,
}

// ParseCallback decodes inline button data into an event with Kind, Cursor and Slot set.
func ParseCallback(data string) (Event, bool) {
	if kind, ok := simpleActions[data]; ok {
		return Event{Kind: kind}, true
	}

	parts := strings.Split(data, "_")
	var ev Event
	switch {
	case len(parts) >= 2 && parts[0] == cardPrefix:
		parts = parts[1:]
	case len(parts) >= 3 && parts[0] == giftPrefix:
		slot, err := strconv.Atoi(parts[1])
		if err != nil || (slot != 1 && slot != 2) {
			return Event{}, false
		}
		ev.Slot = slot
		parts = parts[2:]
	default:
		return Event{}, false
	}

	if len(parts) == 1 && parts[0] == "number" {
		return Event{Kind: EventNoop, Slot: ev.Slot}, true
	}
	if len(parts) != 2 {
		return Event{}, false
	}
	cursor, err := strconv.Atoi(parts[1])
	if err != nil || cursor < 0 {
		return Event{}, false
	}
	ev.Cursor = cursor

	gift := ev.Slot != 0
	switch parts[0] {
	case "prev":
		ev.Kind = pick(gift, EventGiftPrev, EventCardPrev)
	case "next":
		ev.Kind = pick(gift, EventGiftNext, EventCardNext)
	case "select":
		ev.Kind = pick(gift, EventGiftSelect, EventCardSelect)
	default:
		return Event{}, false
	}
	return ev, true
}

func pick(cond bool, a, b EventKind) EventKind {
	if cond {
		return a
	}
	return b
}

// deckPrefix is the callback prefix of a deck's buttons: "card" or "gift_<slot>".
func deckPrefix(slot int) string {
	if slot == 0 {
		return cardPrefix
	}
	return fmt.Sprintf("%s_%d", giftPrefix, slot)
}
