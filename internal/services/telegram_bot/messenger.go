package telegram_bot

import (
	"context"
	"fmt"
	"strconv"

	"wishbot/internal/game"

	tele "gopkg.in/telebot.v3"
)

// botAPI is the part of *tele.Bot used to deliver messages.
type botAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	EditMedia(msg tele.Editable, media tele.Inputtable, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Messenger implements game.Messenger on top of the Bot API.
type Messenger struct {
	bot botAPI
}

func NewMessenger(bot botAPI) *Messenger {
	return &Messenger{bot: bot}
}

func (m *Messenger) SendText(_ context.Context, chatId int64, text string, kb game.Keyboard) (int, error) {
	msg, err := m.bot.Send(tele.ChatID(chatId), text, options(kb)...)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (m *Messenger) SendPhoto(_ context.Context, chatId int64, path string, kb game.Keyboard) (int, error) {
	msg, err := m.bot.Send(tele.ChatID(chatId), &tele.Photo{File: tele.FromDisk(path)}, options(kb)...)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (m *Messenger) EditText(_ context.Context, chatId int64, messageId int, text string, kb game.Keyboard) error {
	_, err := m.bot.Edit(stored(chatId, messageId), text, options(kb)...)
	return err
}

func (m *Messenger) EditPhoto(_ context.Context, chatId int64, messageId int, path string, kb game.Keyboard) error {
	_, err := m.bot.EditMedia(stored(chatId, messageId), &tele.Photo{File: tele.FromDisk(path)}, options(kb)...)
	return err
}

func (m *Messenger) Delete(_ context.Context, chatId int64, messageId int) error {
	return m.bot.Delete(stored(chatId, messageId))
}

// Roller throws the animated Telegram dice and reads its value.
type Roller struct {
	bot botAPI
}

func NewRoller(bot botAPI) *Roller {
	return &Roller{bot: bot}
}

func (r *Roller) Roll(_ context.Context, chatId int64) (int, error) {
	msg, err := r.bot.Send(tele.ChatID(chatId), tele.Cube)
	if err != nil {
		return 0, err
	}
	if msg.Dice == nil || msg.Dice.Value < 1 || msg.Dice.Value > 6 {
		return 0, fmt.Errorf("unexpected dice message %d", msg.ID)
	}
	return msg.Dice.Value, nil
}

func stored(chatId int64, messageId int) tele.StoredMessage {
	return tele.StoredMessage{MessageID: strconv.Itoa(messageId), ChatID: chatId}
}

func options(kb game.Keyboard) []interface{} {
	if len(kb) == 0 {
		return nil
	}
	return []interface{}{toMarkup(kb)}
}

func toMarkup(kb game.Keyboard) *tele.ReplyMarkup {
	rows := make([][]tele.InlineButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL})
		}
		rows = append(rows, buttons)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}
