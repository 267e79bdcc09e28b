package ui

import (
	"fmt"

	"fitterm/internal/client"
)

// row is the display projection of one client record. Building rows is pure
// so the table logic stays testable without a terminal.
type row struct {
	Index int
	ID    int64
	Name  string
	Email string
	Phone string
	Goal  string
	Start string
	End   string
}

const placeholderDash = "—"

func buildRows(clients []client.Client) []row {
	rows := make([]row, 0, len(clients))
	for i, c := range clients {
		rows = append(rows, row{
			Index: i + 1,
			ID:    c.ID,
			Name:  orDash(c.FullName),
			Email: orDash(c.Email),
			Phone: orDash(c.Phone),
			Goal:  orDash(c.Goal),
			Start: orDash(c.StartDate),
			End:   orDash(c.EndDate),
		})
	}
	return rows
}

func orDash(value string) string {
	if value == "" {
		return placeholderDash
	}
	return value
}

// countSummary has three textual forms depending on cardinality.
func countSummary(n int) string {
	switch n {
	case 0:
		return "No clients shown"
	case 1:
		return "1 client shown"
	default:
		return fmt.Sprintf("%d clients shown", n)
	}
}
