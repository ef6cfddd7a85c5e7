package game

import (
	"fmt"

	"wishbot/internal/assets"
)

// clamp keeps a cursor inside a deck of size n.
func clamp(cursor, n int) int {
	if cursor < 0 || n == 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func without(deck []string, name string) []string {
	rest := make([]string, 0, len(deck))
	for _, d := range deck {
		if d != name {
			rest = append(rest, d)
		}
	}
	return rest
}

func deckKeyboard(prefix string, cursor, n int) Keyboard {
	var kb Keyboard
	if n > 1 {
		var nav []Button
		if cursor > 0 {
			nav = append(nav, Button{Text: prevButton, Data: fmt.Sprintf("%s_prev_%d", prefix, cursor)})
		}
		nav = append(nav, Button{Text: fmt.Sprintf("%d/%d", cursor+1, n), Data: prefix + "_number"})
		if cursor < n-1 {
			nav = append(nav, Button{Text: nextButton, Data: fmt.Sprintf("%s_next_%d", prefix, cursor)})
		}
		kb = append(kb, nav)
	}
	return append(kb, []Button{{Text: selectButton, Data: fmt.Sprintf("%s_select_%d", prefix, cursor)}})
}

// loadDeck lists a category and checks that its first image can be shown.
func (t *turn) loadDeck(category assets.Category) ([]string, error) {
	names, err := t.decks.List(category)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrEmptyDeck
	}
	if err = t.checkAsset(category, names[0]); err != nil {
		return nil, err
	}
	return names, nil
}

func (t *turn) checkAsset(category assets.Category, name string) error {
	if path := t.decks.Resolve(category, name); !t.decks.Exists(path) {
		return fmt.Errorf("%w: %s", ErrMissingAsset, path)
	}
	return nil
}

// showDeck renders the card under the cursor, editing the deck message when there is one.
func (t *turn) showDeck(category assets.Category, slot int) error {
	path := t.decks.Resolve(category, t.s.Deck[t.s.Cursor])
	kb := deckKeyboard(deckPrefix(slot), t.s.Cursor, len(t.s.Deck))

	if id, ok := t.s.UI[UIDeck]; ok {
		err := t.out.EditPhoto(t.ctx, t.s.ChatId, id, path, kb)
		if err == nil {
			return nil
		}
		t.l.Warn("error editing deck message, sending a new one", "messageId", id, "err", err.Error())
	}

	id, err := t.out.SendPhoto(t.ctx, t.s.ChatId, path, kb)
	if err != nil {
		return fmt.Errorf("send card: %w", err)
	}
	t.s.UI[UIDeck] = id
	return nil
}

// openDeck makes deck the working deck at cursor 0.
func (t *turn) openDeck(deck []string) {
	t.s.Deck = deck
	t.s.Cursor = 0
}

// page moves the cursor by delta. Moves that hit a deck edge leave everything as is.
func (t *turn) page(category assets.Category, slot, delta int) error {
	if t.ev.Cursor >= len(t.s.Deck) {
		t.l.Debug("stale page button", "cursor", t.ev.Cursor)
		return nil
	}
	next := clamp(t.ev.Cursor+delta, len(t.s.Deck))
	if next == t.ev.Cursor || next == t.s.Cursor {
		return nil
	}
	if err := t.checkAsset(category, t.s.Deck[next]); err != nil {
		return t.assetProblem(err, "")
	}
	t.s.Cursor = next
	return t.showDeck(category, slot)
}

// selected returns the card a select button was rendered for.
func (t *turn) selected() (string, bool) {
	if t.ev.Cursor < 0 || t.ev.Cursor >= len(t.s.Deck) {
		t.l.Debug("stale select button", "cursor", t.ev.Cursor)
		return "", false
	}
	return t.s.Deck[t.ev.Cursor], true
}
