package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		want Event
		ok   bool
	}{
		{data: "start_game", want: Event{Kind: EventStartGame}, ok: true},
		{data: "roll_dice", want: Event{Kind: EventRollDice}, ok: true},
		{data: "start_gift_selection", want: Event{Kind: EventGiftStart}, ok: true},
		{data: "want_discount", want: Event{Kind: EventWantDiscount}, ok: true},
		{data: "card_prev_3", want: Event{Kind: EventCardPrev, Cursor: 3}, ok: true},
		{data: "card_next_0", want: Event{Kind: EventCardNext}, ok: true},
		{data: "card_select_12", want: Event{Kind: EventCardSelect, Cursor: 12}, ok: true},
		{data: "card_number", want: Event{Kind: EventNoop}, ok: true},
		{data: "gift_1_next_2", want: Event{Kind: EventGiftNext, Slot: 1, Cursor: 2}, ok: true},
		{data: "gift_2_select_0", want: Event{Kind: EventGiftSelect, Slot: 2}, ok: true},
		{data: "gift_2_number", want: Event{Kind: EventNoop, Slot: 2}, ok: true},
		{data: "gift_3_next_0"},
		{data: "gift_next_0"},
		{data: "card_jump_1"},
		{data: "card_next_-1"},
		{data: "card_next_x"},
		{data: ""},
		{data: "something"},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, ok := ParseCallback(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeckKeyboardRoundTrip(t *testing.T) {
	for _, slot := range []int{0, 1, 2} {
		kb := deckKeyboard(deckPrefix(slot), 1, 3)
		for _, row := range kb {
			for _, b := range row {
				ev, ok := ParseCallback(b.Data)
				assert.True(t, ok, b.Data)
				assert.Equal(t, slot, ev.Slot, b.Data)
			}
		}
	}
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "dice_settled", EventDiceSettled.String())
	assert.Equal(t, "event(99)", EventKind(99).String())
}
