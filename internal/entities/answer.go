package entities

import "time"

// Answer is one free-text reply to a numbered question. A user may answer the same ordinal twice.
type Answer struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	UserId    int64     `json:"user_id" gorm:"column:identity;index"`
	Ordinal   int       `json:"ordinal"`
	Text      string    `json:"text" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserId;references:Id"`
}

func (Answer) TableName() string { return "answers" }
