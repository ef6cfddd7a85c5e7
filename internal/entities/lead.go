package entities

// Lead is a user who claimed the discount and should be contacted by an operator.
type Lead struct {
	UserId       int64
	SocialHandle string
}
