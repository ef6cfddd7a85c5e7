package game

import (
	"fmt"
	"strconv"
	"strings"

	"wishbot/internal/assets"
	"wishbot/internal/entities"
	"wishbot/internal/metrics"
)

type handlerFunc func(t *turn) error

// table maps (state, event) to the handler that may move the dialogue on.
var table = map[State]map[EventKind]handlerFunc{
	StateIdle: {
		EventStartGame:    (*turn).onStartGame,
		EventWantDiscount: (*turn).onWantDiscount,
	},
	StateName:    {EventText: (*turn).onName},
	StateRequest: {EventText: (*turn).onWish},
	StateDice: {
		EventRollDice:    (*turn).onRollDice,
		EventDiceSettled: (*turn).onDiceSettled,
	},
	StateRetryDecision: {
		EventRetryDice:      (*turn).onRetryDice,
		EventContinueAnyway: (*turn).onContinueAnyway,
	},
	StateCardSelection: {
		EventCardPrev:   func(t *turn) error { return t.page(assets.Cards, 0, -1) },
		EventCardNext:   func(t *turn) error { return t.page(assets.Cards, 0, 1) },
		EventCardSelect: (*turn).onCardSelect,
	},
	StateCardDescription: {EventText: answer(1, "card_description", trDescribed, askEmotionsMsg)},
	StateCardEmotions:    {EventText: answer(2, "card_emotions", trFelt, askPurposeMsg)},
	StateCardPurpose:     {EventText: answer(3, "card_purpose", trPurposeFound, askSelfImprovementMsg)},
	StateSelfImprovement: {EventText: (*turn).onSelfImprovement},
	StateAdvice:          {EventText: (*turn).onAdvice},
	StateGiftStart:       {EventGiftStart: (*turn).onGiftStart},
	StateGiftCard1: {
		EventGiftPrev:   giftPage(1, -1),
		EventGiftNext:   giftPage(1, 1),
		EventGiftSelect: (*turn).onFirstGift,
	},
	StateGiftCard2: {
		EventGiftPrev:   giftPage(2, -1),
		EventGiftNext:   giftPage(2, 1),
		EventGiftSelect: (*turn).onSecondGift,
	},
	StateOffer:         {EventWantDiscount: (*turn).onWantDiscount},
	StateInstagramNick: {EventText: (*turn).onInstagramNick},
}

func lookup(state State, kind EventKind) handlerFunc {
	switch kind {
	case EventStart:
		return (*turn).onStart
	case EventNoop:
		return func(*turn) error { return nil }
	}
	return table[state][kind]
}

func (t *turn) onStart() error {
	t.sessions.Clear(t.ev.UserId)
	*t.s = *NewSession(t.s.ChatId)
	// answers and funnel events reference the user row
	var fields entities.UserFields
	if t.ev.Username != "" {
		fields.Handle = &t.ev.Username
	}
	if err := t.repo.UpsertUser(t.ctx, t.ev.UserId, fields); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	t.step("start")
	_, err := t.say(welcomeMsg, Keyboard{{{Text: startGameButton, Data: actionStartGame}}})
	return err
}

func (t *turn) onStartGame() error {
	t.step("game_started")
	if err := t.transition(trStartGame); err != nil {
		return err
	}
	_, err := t.say(askNameMsg, nil)
	return err
}

func (t *turn) onName() error {
	name, ok := t.text()
	if !ok {
		return nil
	}
	fields := entities.UserFields{DisplayName: &name}
	if t.ev.Username != "" {
		fields.Handle = &t.ev.Username
	}
	if err := t.repo.UpsertUser(t.ctx, t.ev.UserId, fields); err != nil {
		return fmt.Errorf("save name: %w", err)
	}
	t.step("name_collected")
	if err := t.transition(trNameGiven); err != nil {
		return err
	}
	if _, err := t.say(wishIntroMsg, nil); err != nil {
		return err
	}
	_, err := t.say(askWishMsg, nil)
	return err
}

func (t *turn) onWish() error {
	wish, ok := t.text()
	if !ok {
		return nil
	}
	if err := t.repo.UpsertUser(t.ctx, t.ev.UserId, entities.UserFields{Wish: &wish}); err != nil {
		return fmt.Errorf("save wish: %w", err)
	}
	t.step("request_collected")
	if err := t.transition(trWishGiven); err != nil {
		return err
	}
	_, err := t.say(rollPromptMsg, rollKeyboard())
	return err
}

func (t *turn) onRollDice() error {
	if t.s.PendingRoll != 0 {
		if t.s.RollSettled {
			return t.settleRoll()
		}
		t.l.Debug("dice is already rolling")
		return nil
	}
	value, err := t.dice.Roll(t.ctx, t.s.ChatId)
	if err != nil {
		t.l.Error("error rolling dice", "err", err.Error())
		_, err = t.say(diceFailedMsg, rollKeyboard())
		return err
	}
	t.l.Info("dice rolled, waiting for the animation", "value", value)
	t.s.PendingRoll = value
	t.sched.After(t.cfg.DiceDelay, Event{Kind: EventDiceSettled, UserId: t.ev.UserId, ChatId: t.s.ChatId, Value: value})
	return nil
}

func (t *turn) onDiceSettled() error {
	if t.s.PendingRoll == 0 || t.s.PendingRoll != t.ev.Value || t.s.RollSettled {
		t.l.Debug("stale dice result", "value", t.ev.Value, "pending", t.s.PendingRoll)
		return nil
	}
	return t.settleRoll()
}

// settleRoll commits the pending roll. When the roll leads to the cards and the deck
// is unusable nothing is committed and the next roll click only retries the deck.
func (t *turn) settleRoll() error {
	value := t.s.PendingRoll
	won := value == 1
	exhausted := !won && t.s.DiceAttempts+1 >= 2

	var deck []string
	if won || exhausted {
		var err error
		if deck, err = t.loadDeck(assets.Cards); err != nil {
			t.s.RollSettled = true
			return t.assetProblem(err, noCardsMsg)
		}
	}

	if err := t.repo.UpsertUser(t.ctx, t.ev.UserId, entities.UserFields{DiceResult: &value}); err != nil {
		return fmt.Errorf("save dice result: %w", err)
	}
	t.s.PendingRoll = 0
	t.s.RollSettled = false
	t.s.DiceAttempts++
	t.step("dice_rolled_" + strconv.Itoa(value))
	metrics.DiceRolls.WithLabelValues(strconv.Itoa(value)).Inc()

	switch {
	case won:
		return t.openCardSelection(trDiceWon, diceWonMsg, deck)
	case exhausted:
		t.step("dice_attempts_exhausted")
		return t.openCardSelection(trDiceExhausted, diceExhaustedMsg, deck)
	default:
		t.step("dice_failed")
		if err := t.transition(trDiceLost); err != nil {
			return err
		}
		id, err := t.say(diceLostMsg, Keyboard{
			{{Text: retryButton, Data: actionRetryDice}},
			{{Text: continueButton, Data: actionContinueAnyway}},
		})
		if err != nil {
			return err
		}
		t.s.UI[UIRetryPrompt] = id
		return nil
	}
}

func (t *turn) onRetryDice() error {
	t.step("dice_retry")
	id, hasPrompt := t.s.UI[UIRetryPrompt]
	t.s.forget(UIRetryPrompt)
	if err := t.transition(trRetry); err != nil {
		return err
	}
	if hasPrompt {
		err := t.out.EditText(t.ctx, t.s.ChatId, id, rerollPromptMsg, rollKeyboard())
		if err == nil {
			return nil
		}
		t.l.Warn("error editing retry prompt", "messageId", id, "err", err.Error())
	}
	_, err := t.say(rerollPromptMsg, rollKeyboard())
	return err
}

func (t *turn) onContinueAnyway() error {
	deck, err := t.loadDeck(assets.Cards)
	if err != nil {
		return t.assetProblem(err, noCardsMsg)
	}
	t.step("continued_anyway")
	return t.openCardSelection(trContinue, chooseCardMsg, deck)
}

// openCardSelection shows an already loaded card deck.
func (t *turn) openCardSelection(transition, intro string, deck []string) error {
	if err := t.transition(transition); err != nil {
		return err
	}
	t.openDeck(deck)
	t.s.forget(UIDeck)
	if _, err := t.say(intro, nil); err != nil {
		return err
	}
	return t.showDeck(assets.Cards, 0)
}

func (t *turn) onCardSelect() error {
	card, ok := t.selected()
	if !ok {
		return nil
	}
	if err := t.repo.UpsertUser(t.ctx, t.ev.UserId, entities.UserFields{Card1: &card}); err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	t.step("card_selected")
	if err := t.transition(trCardChosen); err != nil {
		return err
	}
	t.s.Card = card
	// the chosen card stays on screen
	t.s.forget(UIDeck)
	_, err := t.say(askDescriptionMsg, nil)
	return err
}

// answer handles the linear reflective questions.
func answer(ordinal int, step, transition, next string) handlerFunc {
	return func(t *turn) error {
		text, ok := t.text()
		if !ok {
			return nil
		}
		if err := t.repo.AppendAnswer(t.ctx, t.ev.UserId, ordinal, text); err != nil {
			return fmt.Errorf("save answer %d: %w", ordinal, err)
		}
		t.step(step)
		if err := t.transition(transition); err != nil {
			return err
		}
		_, err := t.say(next, nil)
		return err
	}
}

func (t *turn) onSelfImprovement() error {
	text, ok := t.text()
	if !ok {
		return nil
	}
	if !t.isUnsure(text) {
		if err := t.repo.AppendAnswer(t.ctx, t.ev.UserId, 4, text); err != nil {
			return fmt.Errorf("save answer 4: %w", err)
		}
		t.step("self_improvement")
		return t.offerGifts(trImproved)
	}

	t.step("advice_requested")
	if err := t.transition(trUnsure); err != nil {
		return err
	}
	t.showMentorCard()
	_, err := t.say(askAdviceMsg, nil)
	return err
}

func (t *turn) isUnsure(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range t.cfg.phrases() {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// showMentorCard draws a random card for the advice question and records it as the second card.
func (t *turn) showMentorCard() {
	card, ok, err := t.decks.PickRandom(assets.Cards)
	if err != nil || !ok {
		t.l.Warn("no mentor card to show", "err", err)
		return
	}
	if err = t.repo.UpsertUser(t.ctx, t.ev.UserId, entities.UserFields{Card2: &card}); err != nil {
		t.l.Error("error saving mentor card", "err", err.Error())
		return
	}
	path := t.decks.Resolve(assets.Cards, card)
	if !t.decks.Exists(path) {
		return
	}
	if _, err = t.out.SendPhoto(t.ctx, t.s.ChatId, path, nil); err != nil {
		t.l.Warn("error sending mentor card", "err", err.Error())
	}
}

func (t *turn) onAdvice() error {
	text, ok := t.text()
	if !ok {
		return nil
	}
	if err := t.repo.AppendAnswer(t.ctx, t.ev.UserId, 4, text); err != nil {
		return fmt.Errorf("save advice: %w", err)
	}
	t.step("advice_given")
	return t.offerGifts(trAdvised)
}

// offerGifts is the screen both self-improvement branches end on.
func (t *turn) offerGifts(transition string) error {
	if err := t.transition(transition); err != nil {
		return err
	}
	if _, err := t.say(reflectionDoneMsg, nil); err != nil {
		return err
	}
	id, err := t.say(giftOfferMsg, Keyboard{{{Text: giftStartButton, Data: actionGiftStart}}})
	if err != nil {
		return err
	}
	t.s.UI[UIGiftPrompt] = id
	return nil
}

func (t *turn) onGiftStart() error {
	deck, err := t.loadDeck(assets.GiftCards)
	if err != nil {
		return t.assetProblem(err, noGiftCardsMsg)
	}
	t.step("gift_selection_started")
	if err = t.transition(trGiftsOpened); err != nil {
		return err
	}
	if id, ok := t.s.UI[UIGiftPrompt]; ok {
		if err = t.out.EditText(t.ctx, t.s.ChatId, id, firstGiftMsg, nil); err != nil {
			t.l.Warn("error editing gift prompt", "messageId", id, "err", err.Error())
			t.s.forget(UIGiftPrompt)
		}
	}
	if _, ok := t.s.UI[UIGiftPrompt]; !ok {
		if id, err := t.say(firstGiftMsg, nil); err == nil {
			t.s.UI[UIGiftPrompt] = id
		}
	}
	t.openDeck(deck)
	t.s.forget(UIDeck)
	return t.showDeck(assets.GiftCards, 1)
}

func giftPage(slot, delta int) handlerFunc {
	return func(t *turn) error {
		if t.ev.Slot != slot {
			t.l.Debug("button of another gift deck", "slot", t.ev.Slot)
			return nil
		}
		return t.page(assets.GiftCards, slot, delta)
	}
}

func (t *turn) onFirstGift() error {
	if t.ev.Slot != 1 {
		return nil
	}
	gift, ok := t.selected()
	if !ok {
		return nil
	}
	rest := without(t.s.Deck, gift)
	if len(rest) == 0 {
		_, err := t.say(noMoreGiftCardsMsg, nil)
		return err
	}
	if err := t.checkAsset(assets.GiftCards, rest[0]); err != nil {
		return t.assetProblem(err, noMoreGiftCardsMsg)
	}
	if err := t.repo.UpsertUser(t.ctx, t.ev.UserId, entities.UserFields{GiftCard1: &gift}); err != nil {
		return fmt.Errorf("save first gift: %w", err)
	}
	t.step("gift_card_1")
	if err := t.transition(trFirstGift); err != nil {
		return err
	}
	t.s.GiftCard1 = gift
	t.openDeck(rest)
	if id, err := t.say(secondGiftMsg, nil); err == nil {
		t.s.UI[UIGift2Prompt] = id
	}
	return t.showDeck(assets.GiftCards, 2)
}

func (t *turn) onSecondGift() error {
	if t.ev.Slot != 2 {
		return nil
	}
	gift, ok := t.selected()
	if !ok {
		return nil
	}
	if err := t.repo.UpsertUser(t.ctx, t.ev.UserId, entities.UserFields{GiftCard2: &gift}); err != nil {
		return fmt.Errorf("save second gift: %w", err)
	}
	t.step("gift_card_2")
	if err := t.transition(trSecondGift); err != nil {
		return err
	}
	t.s.Deck = nil
	if _, err := t.say(giftsDoneMsg, nil); err != nil {
		return err
	}
	if _, err := t.say(fullGameOfferMsg, Keyboard{{{Text: learnMoreButton, URL: t.instagramURL()}}}); err != nil {
		return err
	}
	_, err := t.say(discountOfferMsg, Keyboard{{{Text: wantDiscountButton, Data: actionWantDiscount}}})
	return err
}

func (t *turn) onWantDiscount() error {
	t.step("discount_requested")
	if err := t.transition(trWantDiscount); err != nil {
		return err
	}
	_, err := t.say(askInstagramMsg, nil)
	return err
}

func (t *turn) onInstagramNick() error {
	nick, ok := t.text()
	if !ok {
		return nil
	}
	if err := t.repo.UpsertUser(t.ctx, t.ev.UserId, entities.UserFields{
		SocialHandle:    &nick,
		DiscountClaimed: entities.Ptr(true),
	}); err != nil {
		return fmt.Errorf("save instagram nick: %w", err)
	}
	t.step("discount_claimed")
	if err := t.transition(trDiscountClaim); err != nil {
		return err
	}
	t.finished = true
	if t.leads != nil {
		if err := t.leads.PutContext(t.ctx, entities.Lead{UserId: t.ev.UserId, SocialHandle: nick}); err != nil {
			t.l.Warn("lead was not queued", "err", err.Error())
		}
	}
	_, err := t.say(discountClaimedMsg, Keyboard{{{Text: openInstagramButton, URL: t.instagramURL()}}})
	return err
}

func (t *turn) instagramURL() string {
	return "https://instagram.com/" + strings.TrimPrefix(t.cfg.InstagramAccount, "@")
}

func rollKeyboard() Keyboard {
	return Keyboard{{{Text: rollDiceButton, Data: actionRollDice}}}
}
