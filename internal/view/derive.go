// Package view derives the visible task list from the stored collection.
// Everything here is a pure function of its inputs except Debouncer.
package view

import (
	"slices"
	"strings"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

// Derive scopes tasks to userID, applies the search, status and priority
// filters and stably sorts the result. The input slice is not modified.
func Derive(tasks []model.Task, userID string, c model.Criteria) []model.Task {
	query := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.UserID != userID {
			continue
		}
		if query != "" && !matches(t, query) {
			continue
		}
		if !c.Status.Any() && t.Status != model.Status(c.Status) {
			continue
		}
		if !c.Priority.Any() && t.Priority != model.Priority(c.Priority) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, comparator(c.SortBy, c.SortOrder))
	return out
}

func matches(t model.Task, query string) bool {
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Description), query)
}

// comparator returns the sort function for by/order. Priority compares
// rank(b)-rank(a) before the order flip, so asc yields high to low and
// desc yields low to high.
func comparator(by model.SortBy, order model.SortOrder) func(a, b model.Task) int {
	return func(a, b model.Task) int {
		var c int
		switch by {
		case model.SortByDueDate:
			c = a.DueDate.Time.Compare(b.DueDate.Time)
		case model.SortByPriority:
			c = b.Priority.Rank() - a.Priority.Rank()
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if order == model.SortAsc {
			return c
		}
		return -c
	}
}
