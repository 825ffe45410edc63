package view

import "github.com/BuzzLyutic/taskboard/internal/model"

type Column struct {
	Status model.Status `json:"status"`
	Title  string       `json:"title"`
	Tasks  []model.Task `json:"tasks"`
}

type Board struct {
	Columns []Column `json:"columns"`
	Total   int      `json:"total"`
	Empty   *Empty   `json:"empty,omitempty"`
}

var columnTitles = map[model.Status]string{
	model.StatusTodo:       "To Do",
	model.StatusInProgress: "In Progress",
	model.StatusDone:       "Done",
}

// Columns splits an already derived list into the status columns, keeping
// the derived order inside each column.
func Columns(derived []model.Task) []Column {
	cols := make([]Column, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		col := Column{Status: s, Title: columnTitles[s], Tasks: []model.Task{}}
		for _, t := range derived {
			if t.Status == s {
				col.Tasks = append(col.Tasks, t)
			}
		}
		cols = append(cols, col)
	}
	return cols
}

// NewBoard derives the list for userID and lays it out in columns.
func NewBoard(tasks []model.Task, userID string, c model.Criteria) Board {
	derived := Derive(tasks, userID, c)
	b := Board{Columns: Columns(derived), Total: len(derived)}
	if len(derived) == 0 {
		e := EmptyState(c)
		b.Empty = &e
	}
	return b
}
