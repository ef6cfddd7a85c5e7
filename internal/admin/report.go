// Package admin builds operator reports over the funnel data.
package admin

import (
	"math"
	"sort"

	"wishbot/internal/entities"
)

const PageSize = 20

type StepCount struct {
	Step    string  `json:"step"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

type Summary struct {
	TotalUsers int         `json:"total_users"`
	Steps      []StepCount `json:"steps"`
}

type UsersPage struct {
	Users     []*entities.User `json:"users"`
	Remaining int              `json:"remaining"`
}

type Stats struct {
	TotalUsers         int         `json:"total_users"`
	DiscountsClaimed   int         `json:"discounts_claimed"`
	DiscountConversion float64     `json:"discount_conversion"`
	Steps              []StepCount `json:"steps"`
}

type UserDetail struct {
	User    *entities.User     `json:"user"`
	Answers []*entities.Answer `json:"answers"`
}

// Percent returns count/total*100 rounded to 2 decimals, or 0 when total is 0.
func Percent(count int64, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}

func steps(counts map[string]int64, total int) []StepCount {
	res := make([]StepCount, 0, len(counts))
	for step, count := range counts {
		res = append(res, StepCount{Step: step, Count: count, Percent: Percent(count, total)})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Step < res[j].Step })
	return res
}

func BuildSummary(users []*entities.User, counts map[string]int64) Summary {
	return Summary{TotalUsers: len(users), Steps: steps(counts, len(users))}
}

// PageUsers keeps the first limit users and counts the rest.
func PageUsers(users []*entities.User, limit int) UsersPage {
	if limit <= 0 || len(users) <= limit {
		return UsersPage{Users: users}
	}
	return UsersPage{Users: users[:limit], Remaining: len(users) - limit}
}

func BuildStats(users []*entities.User, counts map[string]int64) Stats {
	claimed := 0
	for _, u := range users {
		if u.DiscountClaimed {
			claimed++
		}
	}
	return Stats{
		TotalUsers:         len(users),
		DiscountsClaimed:   claimed,
		DiscountConversion: Percent(int64(claimed), len(users)),
		Steps:              steps(counts, len(users)),
	}
}
