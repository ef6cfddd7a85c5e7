package admin

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	noAccessMsg     = "Sorry, you have no access to the admin panel."
	userUsageMsg    = "Usage: /user <user_id>"
	userNotFoundMsg = "User with ID %s not found."
	noUsersMsg      = "No users yet."
	reportFailedMsg = "Could not build the report. Please try again later."

	notSet      = "not set"
	wishPreview = 50
	timeLayout  = "2006-01-02 15:04:05"
)

func orNotSet(s string) string {
	if s == "" {
		return notSet
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(timeLayout)
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= wishPreview {
		return orNotSet(s)
	}
	return string(r[:wishPreview]) + "..."
}

func renderSummary(s *Summary) string {
	var b strings.Builder
	b.WriteString("📊 Admin panel\n\n")
	fmt.Fprintf(&b, "👥 Total users: %d\n\n", s.TotalUsers)
	b.WriteString("📈 Funnel:\n")
	for _, step := range s.Steps {
		fmt.Fprintf(&b, "  • %s: %d\n", step.Step, step.Count)
	}
	b.WriteString("\nCommands:\n")
	b.WriteString("/users - list of users\n")
	b.WriteString("/stats - detailed statistics\n")
	b.WriteString("/user <user_id> - data of one user")
	return b.String()
}

func renderUsers(p *UsersPage) string {
	if len(p.Users) == 0 {
		return noUsersMsg
	}
	var b strings.Builder
	b.WriteString("👥 Users:\n\n")
	for _, u := range p.Users {
		fmt.Fprintf(&b, "ID: %d\n", u.Id)
		fmt.Fprintf(&b, "Name: %s\n", orNotSet(u.DisplayName))
		fmt.Fprintf(&b, "Wish: %s\n", preview(u.Wish))
		fmt.Fprintf(&b, "Discount: %s\n", yesNo(u.DiscountClaimed))
		fmt.Fprintf(&b, "Date: %s\n\n", formatTime(u.CreatedAt))
	}
	if p.Remaining > 0 {
		fmt.Fprintf(&b, "... and %d more users", p.Remaining)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStats(s *Stats) string {
	var b strings.Builder
	b.WriteString("📊 Detailed statistics\n\n")
	fmt.Fprintf(&b, "👥 Total users: %d\n", s.TotalUsers)
	fmt.Fprintf(&b, "🎁 Discounts claimed: %d\n", s.DiscountsClaimed)
	fmt.Fprintf(&b, "📈 Discount conversion: %s\n\n", formatPercent(s.DiscountConversion))
	b.WriteString("📋 Funnel steps:\n")
	for _, step := range s.Steps {
		fmt.Fprintf(&b, "  • %s: %d (%s)\n", step.Step, step.Count, formatPercent(step.Percent))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderUser(d *UserDetail) string {
	u := d.User
	var b strings.Builder
	b.WriteString("👤 User data:\n\n")
	fmt.Fprintf(&b, "ID: %d\n", u.Id)
	fmt.Fprintf(&b, "Name: %s\n", orNotSet(u.DisplayName))
	fmt.Fprintf(&b, "Username: %s\n", orNotSet(u.Handle))
	fmt.Fprintf(&b, "Wish: %s\n", orNotSet(u.Wish))
	if u.DiceResult == 0 {
		fmt.Fprintf(&b, "Dice result: %s\n", notSet)
	} else {
		fmt.Fprintf(&b, "Dice result: %d\n", u.DiceResult)
	}
	fmt.Fprintf(&b, "Card 1: %s\n", orNotSet(u.Card1))
	fmt.Fprintf(&b, "Card 2: %s\n", orNotSet(u.Card2))
	fmt.Fprintf(&b, "Gift 1: %s\n", orNotSet(u.GiftCard1))
	fmt.Fprintf(&b, "Gift 2: %s\n", orNotSet(u.GiftCard2))
	fmt.Fprintf(&b, "Instagram: %s\n", orNotSet(u.SocialHandle))
	fmt.Fprintf(&b, "Discount: %s\n", yesNo(u.DiscountClaimed))
	fmt.Fprintf(&b, "Created: %s\n", formatTime(u.CreatedAt))
	fmt.Fprintf(&b, "Updated: %s", formatTime(u.UpdatedAt))
	if len(d.Answers) > 0 {
		b.WriteString("\n\n📝 Answers:\n")
		for _, a := range d.Answers {
			fmt.Fprintf(&b, "%d. %s\n", a.Ordinal, a.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
