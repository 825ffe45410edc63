package view

import "github.com/BuzzLyutic/taskboard/internal/model"

// ParseCriteria builds Criteria from raw strings, e.g. query parameters.
// Empty values take the defaults; out-of-range values are rejected.
func ParseCriteria(search, status, priority, sortBy, sortOrder string) (model.Criteria, error) {
	c := model.DefaultCriteria()
	c.Search = search
	verr := model.NewValidationError()

	if status != "" {
		f, err := model.ParseStatusFilter(status)
		if err != nil {
			verr.Add("status", err.Error())
		}
		c.Status = f
	}
	if priority != "" {
		f, err := model.ParsePriorityFilter(priority)
		if err != nil {
			verr.Add("priority", err.Error())
		}
		c.Priority = f
	}
	if sortBy != "" {
		c.SortBy = model.SortBy(sortBy)
		if !c.SortBy.Valid() {
			verr.Add("sortBy", "unknown sort key "+sortBy)
		}
	}
	if sortOrder != "" {
		c.SortOrder = model.SortOrder(sortOrder)
		if !c.SortOrder.Valid() {
			verr.Add("sortOrder", "unknown sort order "+sortOrder)
		}
	}

	if err := verr.OrNil(); err != nil {
		return model.Criteria{}, err
	}
	return c, nil
}

// HasActiveFilters reports whether c differs from the defaults in a way
// the user would call filtering.
func HasActiveFilters(c model.Criteria) bool {
	return c.Search != "" ||
		!c.Status.Any() ||
		!c.Priority.Any() ||
		c.SortBy != model.SortByCreatedAt
}

type Empty struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CanCreate   bool   `json:"canCreate"`
}

// EmptyState describes an empty derived list.
func EmptyState(c model.Criteria) Empty {
	if c.Search != "" || !c.Status.Any() || !c.Priority.Any() {
		return Empty{
			Title:       "No tasks found",
			Description: "Try adjusting your filters or search query",
		}
	}
	return Empty{
		Title:       "No tasks yet",
		Description: "Create your first task to get started with managing your work",
		CanCreate:   true,
	}
}
