package entities

import "time"

// User is the funnel record of a single Telegram user.
type User struct {
	Id              int64     `json:"id" gorm:"column:identity;primaryKey;autoIncrement:false"` // tg user id
	DisplayName     string    `json:"display_name" gorm:"column:display_name;type:varchar(255)"`
	Handle          string    `json:"handle" gorm:"column:handle;type:varchar(255)"`
	Wish            string    `json:"wish" gorm:"column:wish;type:text"`
	DiceResult      int       `json:"dice_result" gorm:"column:dice_result"`
	Card1           string    `json:"card_1" gorm:"column:card_1;type:varchar(255)"`
	Card2           string    `json:"card_2" gorm:"column:card_2;type:varchar(255)"`
	GiftCard1       string    `json:"gift_card_1" gorm:"column:gift_card_1;type:varchar(255)"`
	GiftCard2       string    `json:"gift_card_2" gorm:"column:gift_card_2;type:varchar(255)"`
	SocialHandle    string    `json:"social_handle" gorm:"column:social_handle;type:varchar(255)"`
	DiscountClaimed bool      `json:"discount_claimed" gorm:"column:discount_claimed"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;index"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string { return "users" }

// UserFields is a partial update of a User. Nil fields are left untouched.
type UserFields struct {
	DisplayName     *string
	Handle          *string
	Wish            *string
	DiceResult      *int
	Card1           *string
	Card2           *string
	GiftCard1       *string
	GiftCard2       *string
	SocialHandle    *string
	DiscountClaimed *bool
}

// Columns returns the column names of the set fields, in declaration order.
func (f UserFields) Columns() []string {
	var cols []string
	for _, field := range []struct {
		col string
		set bool
	}{
		{"display_name", f.DisplayName != nil},
		{"handle", f.Handle != nil},
		{"wish", f.Wish != nil},
		{"dice_result", f.DiceResult != nil},
		{"card_1", f.Card1 != nil},
		{"card_2", f.Card2 != nil},
		{"gift_card_1", f.GiftCard1 != nil},
		{"gift_card_2", f.GiftCard2 != nil},
		{"social_handle", f.SocialHandle != nil},
		{"discount_claimed", f.DiscountClaimed != nil},
	} {
		if field.set {
			cols = append(cols, field.col)
		}
	}
	return cols
}

// Apply copies the set fields onto u.
func (f UserFields) Apply(u *User) {
	if f.DisplayName != nil {
		u.DisplayName = *f.DisplayName
	}
	if f.Handle != nil {
		u.Handle = *f.Handle
	}
	if f.Wish != nil {
		u.Wish = *f.Wish
	}
	if f.DiceResult != nil {
		u.DiceResult = *f.DiceResult
	}
	if f.Card1 != nil {
		u.Card1 = *f.Card1
	}
	if f.Card2 != nil {
		u.Card2 = *f.Card2
	}
	if f.GiftCard1 != nil {
		u.GiftCard1 = *f.GiftCard1
	}
	if f.GiftCard2 != nil {
		u.GiftCard2 = *f.GiftCard2
	}
	if f.SocialHandle != nil {
		u.SocialHandle = *f.SocialHandle
	}
	if f.DiscountClaimed != nil {
		u.DiscountClaimed = *f.DiscountClaimed
	}
}

// Ptr is a helper for building UserFields literals.
func Ptr[T any](v T) *T {
	return &v
}
