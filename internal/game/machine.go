package game

import (
	"context"

	"github.com/looplab/fsm"
)

// Named transitions of the dialogue graph.
const (
	trStartGame     = "start_game"
	trNameGiven     = "name_given"
	trWishGiven     = "wish_given"
	trDiceWon       = "dice_won"
	trDiceLost      = "dice_lost"
	trDiceExhausted = "dice_exhausted"
	trRetry         = "retry"
	trContinue      = "continue"
	trCardChosen    = "card_chosen"
	trDescribed     = "described"
	trFelt          = "felt"
	trPurposeFound  = "purpose_found"
	trUnsure        = "unsure"
	trImproved      = "improved"
	trAdvised       = "advised"
	trGiftsOpened   = "gifts_opened"
	trFirstGift     = "first_gift"
	trSecondGift    = "second_gift"
	trWantDiscount  = "want_discount"
	trDiscountClaim = "discount_claimed"
)

var transitions = fsm.Events{
	{Name: trStartGame, Src: states(StateIdle), Dst: StateName.String()},
	{Name: trNameGiven, Src: states(StateName), Dst: StateRequest.String()},
	{Name: trWishGiven, Src: states(StateRequest), Dst: StateDice.String()},
	{Name: trDiceWon, Src: states(StateDice), Dst: StateCardSelection.String()},
	{Name: trDiceLost, Src: states(StateDice), Dst: StateRetryDecision.String()},
	{Name: trDiceExhausted, Src: states(StateDice), Dst: StateCardSelection.String()},
	{Name: trRetry, Src: states(StateRetryDecision), Dst: StateDice.String()},
	{Name: trContinue, Src: states(StateRetryDecision), Dst: StateCardSelection.String()},
	{Name: trCardChosen, Src: states(StateCardSelection), Dst: StateCardDescription.String()},
	{Name: trDescribed, Src: states(StateCardDescription), Dst: StateCardEmotions.String()},
	{Name: trFelt, Src: states(StateCardEmotions), Dst: StateCardPurpose.String()},
	{Name: trPurposeFound, Src: states(StateCardPurpose), Dst: StateSelfImprovement.String()},
	{Name: trUnsure, Src: states(StateSelfImprovement), Dst: StateAdvice.String()},
	{Name: trImproved, Src: states(StateSelfImprovement), Dst: StateGiftStart.String()},
	{Name: trAdvised, Src: states(StateAdvice), Dst: StateGiftStart.String()},
	{Name: trGiftsOpened, Src: states(StateGiftStart), Dst: StateGiftCard1.String()},
	{Name: trFirstGift, Src: states(StateGiftCard1), Dst: StateGiftCard2.String()},
	{Name: trSecondGift, Src: states(StateGiftCard2), Dst: StateOffer.String()},
	{Name: trWantDiscount, Src: states(StateOffer, StateIdle), Dst: StateInstagramNick.String()},
	{Name: trDiscountClaim, Src: states(StateInstagramNick), Dst: StateIdle.String()},
}

// exitCleanup lists the messages deleted when a state is left.
var exitCleanup = map[State][]UIHandle{
	StateRetryDecision: {UIRetryPrompt},
	StateGiftCard1:     {UIGiftPrompt, UIDeck},
	StateGiftCard2:     {UIDeck, UIGift2Prompt},
}

func states(ss ...State) []string {
	names := make([]string, len(ss))
	for i, s := range ss {
		names[i] = s.String()
	}
	return names
}

// newMachine builds the graph positioned at current. onLeave runs before the state changes.
func newMachine(current State, onLeave func(ctx context.Context, from State)) *fsm.FSM {
	return fsm.NewFSM(current.String(), transitions, fsm.Callbacks{
		"leave_state": func(ctx context.Context, e *fsm.Event) {
			from, err := ParseState(e.Src)
			if err == nil {
				onLeave(ctx, from)
			}
		},
	})
}

// Diagram renders the dialogue graph in graphviz format.
func Diagram() string {
	return fsm.Visualize(newMachine(StateIdle, func(context.Context, State) {}))
}
