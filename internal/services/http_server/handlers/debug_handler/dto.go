package debug_handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

type Action string

const (
	actionEvent      Action = "event"
	actionGetUser    Action = "get_user"
	actionGetSession Action = "get_session"
)

type actionDto struct {
	Action Action `json:"action" validate:"required"`
}

type debugRequestDto struct {
	actionDto
	Data interface{} `json:"-"`
}

func (d *debugRequestDto) UnmarshalJSON(bytes []byte) error {
	if err := jsoniter.Unmarshal(bytes, &d.actionDto); err != nil {
		return err
	}

	v := validator.New()
	if err := v.Struct(d); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	var err error
	switch d.Action {
	case actionEvent:
		wrapper := &struct {
			Data *eventRequestData `json:"data"`
		}{}
		_ = jsoniter.Unmarshal(bytes, wrapper) // not the first unmarshal
		d.Data = wrapper.Data
		if wrapper.Data != nil {
			err = v.Struct(wrapper.Data)
		}
	case actionGetUser, actionGetSession:
		wrapper := &struct {
			Data *userRequestData `json:"data"`
		}{}
		_ = jsoniter.Unmarshal(bytes, wrapper) // not the first unmarshal
		d.Data = wrapper.Data
		if wrapper.Data != nil {
			err = v.Struct(wrapper.Data)
		}
	}
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// eventRequestData is a user action played against the game as if it came from Telegram.
type eventRequestData struct {
	UserId   int64  `json:"user_id" validate:"required"`
	ChatId   int64  `json:"chat_id"`
	Text     string `json:"text" validate:"required_without=Callback"`
	Callback string `json:"callback" validate:"required_without=Text"`
}

type userRequestData struct {
	Id int64 `json:"id" validate:"required"`
}

type sessionResponseDto struct {
	State        string   `json:"state"`
	Deck         []string `json:"deck"`
	Cursor       int      `json:"cursor"`
	DiceAttempts int      `json:"dice_attempts"`
	Card         string   `json:"card,omitempty"`
	GiftCard1    string   `json:"gift_card_1,omitempty"`
}
