package client

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format clients are stored with.
const DateLayout = "2006-01-02"

// Client is a fitness program member's profile.
type Client struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	Age       string `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Goal      string `json:"goal"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Genders lists the accepted gender values; empty is also allowed.
var Genders = []string{"male", "female", "other"}

// Filter returns the clients whose full name contains the query,
// case-insensitively. An empty query returns the input unchanged. The input
// slice is never mutated; order is preserved.
func Filter(clients []Client, query string) []Client {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clients
	}
	var matched []Client
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.FullName), q) {
			matched = append(matched, c)
		}
	}
	return matched
}

// parseDate parses a YYYY-MM-DD value at day granularity.
func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
