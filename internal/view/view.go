// Package view derives display-ready projections of a task collection.
//
// Everything here is a pure function of its inputs: a View is recomputed from
// the latest collection on every call and never cached.
package view

import (
	"sort"
	"strings"

	"todo-cli/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists filters in tab order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter normalizes s. Unknown values map to FilterAll.
func ParseFilter(s string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterActive, FilterCompleted:
		return f
	default:
		return FilterAll
	}
}

func (f Filter) keep(t model.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

type Sort string

const (
	SortDefault  Sort = "default"
	SortDateAsc  Sort = "date-asc"
	SortDateDesc Sort = "date-desc"
	SortNameAsc  Sort = "name-asc"
	SortNameDesc Sort = "name-desc"
)

// Sorts lists sort modes in menu order.
var Sorts = []Sort{SortDefault, SortDateAsc, SortDateDesc, SortNameAsc, SortNameDesc}

// ParseSort normalizes s. Unknown values map to SortDefault.
func ParseSort(s string) Sort {
	switch so := Sort(strings.ToLower(strings.TrimSpace(s))); so {
	case SortDateAsc, SortDateDesc, SortNameAsc, SortNameDesc:
		return so
	default:
		return SortDefault
	}
}

func (s Sort) Label() string {
	switch s {
	case SortDateAsc:
		return "Oldest First"
	case SortDateDesc:
		return "Newest First"
	case SortNameAsc:
		return "Name (A-Z)"
	case SortNameDesc:
		return "Name (Z-A)"
	default:
		return "Default"
	}
}

type View struct {
	Items []model.Task `json:"items"`

	Filter Filter `json:"filter"`
	Sort   Sort   `json:"sort"`

	// Counts are always over the full collection, not the filtered items.
	Total          int `json:"total"`
	RemainingCount int `json:"remainingCount"`
	CompletedCount int `json:"completedCount"`
}

// Projector holds the locale used for name ordering.
// The zero value collates with the root (language-neutral) ordering.
type Projector struct {
	Locale language.Tag
}

// DefaultLocale is used when no locale is configured.
var DefaultLocale = language.English

// ParseLocale parses a BCP 47 tag; an empty string yields DefaultLocale.
func ParseLocale(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLocale, nil
	}
	return language.Parse(s)
}

// Project filters tasks, then stably sorts the survivors. tasks is not modified.
func (p Projector) Project(tasks []model.Task, filter Filter, sortMode Sort) View {
	filter = ParseFilter(string(filter))
	sortMode = ParseSort(string(sortMode))

	v := View{
		Items:  make([]model.Task, 0, len(tasks)),
		Filter: filter,
		Sort:   sortMode,
		Total:  len(tasks),
	}
	for _, t := range tasks {
		if !t.Completed {
			v.RemainingCount++
		}
		if filter.keep(t) {
			v.Items = append(v.Items, t)
		}
	}
	v.CompletedCount = v.Total - v.RemainingCount

	items := v.Items
	switch sortMode {
	case SortDateAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	case SortDateDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[j].CreatedAt.Before(items[i].CreatedAt) })
	case SortNameAsc, SortNameDesc:
		// Collators carry a buffer and are not safe to share.
		c := collate.New(p.Locale)
		desc := sortMode == SortNameDesc
		sort.SliceStable(items, func(i, j int) bool {
			if desc {
				return c.CompareString(items[j].Text, items[i].Text) < 0
			}
			return c.CompareString(items[i].Text, items[j].Text) < 0
		})
	}
	return v
}

// Project uses a Projector for DefaultLocale.
func Project(tasks []model.Task, filter Filter, sortMode Sort) View {
	return Projector{Locale: DefaultLocale}.Project(tasks, filter, sortMode)
}
