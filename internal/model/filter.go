package model

import "fmt"

// All is the wildcard accepted by the status and priority filters.
const All = "all"

type SortBy string

const (
	SortByDueDate   SortBy = "dueDate"
	SortByPriority  SortBy = "priority"
	SortByCreatedAt SortBy = "createdAt"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortByDueDate, SortByPriority, SortByCreatedAt:
		return true
	}
	return false
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// StatusFilter is either a concrete Status or the All wildcard.
type StatusFilter string

func (f StatusFilter) Any() bool { return f == All }

func (f StatusFilter) Valid() bool {
	return f.Any() || Status(f).Valid()
}

func ParseStatusFilter(v string) (StatusFilter, error) {
	f := StatusFilter(v)
	if !f.Valid() {
		return "", fmt.Errorf("unknown status filter %q", v)
	}
	return f, nil
}

// PriorityFilter is either a concrete Priority or the All wildcard.
type PriorityFilter string

func (f PriorityFilter) Any() bool { return f == All }

func (f PriorityFilter) Valid() bool {
	return f.Any() || Priority(f).Valid()
}

func ParsePriorityFilter(v string) (PriorityFilter, error) {
	f := PriorityFilter(v)
	if !f.Valid() {
		return "", fmt.Errorf("unknown priority filter %q", v)
	}
	return f, nil
}

// Criteria drives the derived task view. It lives for one session and is
// never persisted.
type Criteria struct {
	Search    string         `json:"search"`
	Status    StatusFilter   `json:"status"`
	Priority  PriorityFilter `json:"priority"`
	SortBy    SortBy         `json:"sortBy"`
	SortOrder SortOrder      `json:"sortOrder"`
}

func DefaultCriteria() Criteria {
	return Criteria{
		Search:    "",
		Status:    All,
		Priority:  All,
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
	}
}
