package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		path := []struct {
			event string
			want  State
		}{
			{trStartGame, StateName},
			{trNameGiven, StateRequest},
			{trWishGiven, StateDice},
			{trDiceLost, StateRetryDecision},
			{trRetry, StateDice},
			{trDiceExhausted, StateCardSelection},
			{trCardChosen, StateCardDescription},
			{trDescribed, StateCardEmotions},
			{trFelt, StateCardPurpose},
			{trPurposeFound, StateSelfImprovement},
			{trUnsure, StateAdvice},
			{trAdvised, StateGiftStart},
			{trGiftsOpened, StateGiftCard1},
			{trFirstGift, StateGiftCard2},
			{trSecondGift, StateOffer},
			{trWantDiscount, StateInstagramNick},
			{trDiscountClaim, StateIdle},
		}
		current := StateIdle
		for _, step := range path {
			m := newMachine(current, func(context.Context, State) {})
			require.NoError(t, m.Event(context.Background(), step.event), step.event)
			next, err := ParseState(m.Current())
			require.NoError(t, err)
			assert.Equal(t, step.want, next, step.event)
			current = next
		}
	})

	t.Run("invalid transition", func(t *testing.T) {
		m := newMachine(StateName, func(context.Context, State) {})
		assert.Error(t, m.Event(context.Background(), trDiceWon))
		assert.Equal(t, StateName.String(), m.Current())
	})

	t.Run("leave callback", func(t *testing.T) {
		var left []State
		m := newMachine(StateGiftCard1, func(_ context.Context, s State) { left = append(left, s) })
		require.NoError(t, m.Event(context.Background(), trFirstGift))
		assert.Equal(t, []State{StateGiftCard1}, left)
	})

	t.Run("discount from idle", func(t *testing.T) {
		m := newMachine(StateIdle, func(context.Context, State) {})
		require.NoError(t, m.Event(context.Background(), trWantDiscount))
		assert.Equal(t, StateInstagramNick.String(), m.Current())
	})
}

func TestEveryHandledStateIsInGraph(t *testing.T) {
	for state := range table {
		_, err := ParseState(state.String())
		assert.NoError(t, err)
	}
	for s := StateIdle; s <= StateInstagramNick; s++ {
		name := s.String()
		parsed, err := ParseState(name)
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseState("nowhere")
	assert.Error(t, err)
}

func TestDiagram(t *testing.T) {
	d := Diagram()
	assert.Contains(t, d, "digraph fsm")
	assert.Contains(t, d, `"gift_card_1" -> "gift_card_2"`)
	assert.Contains(t, d, "first_gift")
}
