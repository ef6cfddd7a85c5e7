package entities

import "time"

type FunnelEvent struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	UserId    int64     `json:"user_id" gorm:"column:identity;index"`
	Step      string    `json:"step" gorm:"type:varchar(64);index"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserId;references:Id"`
}

func (FunnelEvent) TableName() string { return "funnel_events" }
