package view

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"todo-cli/internal/model"

	"golang.org/x/text/language"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func task(id, text string, completed bool, ageMinutes int) model.Task {
	return model.Task{
		ID:        model.TaskID(id),
		Text:      text,
		Completed: completed,
		CreatedAt: t0.Add(time.Duration(ageMinutes) * time.Minute),
	}
}

func texts(ts []model.Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Text)
	}
	return out
}

func sampleTasks() []model.Task {
	return []model.Task{
		task("1", "Walk dog", false, 2),
		task("2", "buy milk", true, 0),
		task("3", "Call mom", false, 1),
		task("4", "Émile's book", true, 3),
	}
}

func TestProject_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filter Filter
		want   []string
	}{
		{filter: FilterAll, want: []string{"Walk dog", "buy milk", "Call mom", "Émile's book"}},
		{filter: FilterActive, want: []string{"Walk dog", "Call mom"}},
		{filter: FilterCompleted, want: []string{"buy milk", "Émile's book"}},
		{filter: "", want: []string{"Walk dog", "buy milk", "Call mom", "Émile's book"}},
		{filter: "bogus", want: []string{"Walk dog", "buy milk", "Call mom", "Émile's book"}},
	}
	for _, tc := range tests {
		v := Project(sampleTasks(), tc.filter, SortDefault)
		if got := texts(v.Items); fmt.Sprint(got) != fmt.Sprint(tc.want) {
			t.Fatalf("filter %q: got %v want %v", tc.filter, got, tc.want)
		}
	}
}

func TestProject_Sorts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sort Sort
		want []string
	}{
		{sort: SortDefault, want: []string{"Walk dog", "buy milk", "Call mom", "Émile's book"}},
		{sort: "unknown", want: []string{"Walk dog", "buy milk", "Call mom", "Émile's book"}},
		{sort: SortDateAsc, want: []string{"buy milk", "Call mom", "Walk dog", "Émile's book"}},
		{sort: SortDateDesc, want: []string{"Émile's book", "Walk dog", "Call mom", "buy milk"}},
		// Locale-aware: case and accents do not push words to the end like a byte compare would.
		{sort: SortNameAsc, want: []string{"buy milk", "Call mom", "Émile's book", "Walk dog"}},
		{sort: SortNameDesc, want: []string{"Walk dog", "Émile's book", "Call mom", "buy milk"}},
	}
	for _, tc := range tests {
		v := Project(sampleTasks(), FilterAll, tc.sort)
		if got := texts(v.Items); fmt.Sprint(got) != fmt.Sprint(tc.want) {
			t.Fatalf("sort %q: got %v want %v", tc.sort, got, tc.want)
		}
	}
}

func TestProject_SortIsAppliedAfterFilter(t *testing.T) {
	t.Parallel()

	v := Project(sampleTasks(), FilterActive, SortNameAsc)
	if got, want := fmt.Sprint(texts(v.Items)), fmt.Sprint([]string{"Call mom", "Walk dog"}); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestProject_SortIsStableForTies(t *testing.T) {
	t.Parallel()

	ts := []model.Task{
		task("a", "same", false, 0),
		task("b", "same", false, 0),
		task("c", "same", false, 0),
	}
	for _, s := range Sorts {
		v := Project(ts, FilterAll, s)
		var ids []string
		for _, it := range v.Items {
			ids = append(ids, string(it.ID))
		}
		if got := strings.Join(ids, ","); got != "a,b,c" {
			t.Fatalf("sort %q reordered ties: %s", s, got)
		}
	}
}

func TestProject_NameDescOnAlreadyDescendingInput(t *testing.T) {
	t.Parallel()

	ts := []model.Task{task("1", "Banana", false, 0), task("2", "Apple", false, 1)}
	v := Project(ts, FilterAll, SortNameDesc)
	if got := fmt.Sprint(texts(v.Items)); got != "[Banana Apple]" {
		t.Fatalf("name-desc: got %s", got)
	}
	v = Project(ts, FilterAll, SortNameAsc)
	if got := fmt.Sprint(texts(v.Items)); got != "[Apple Banana]" {
		t.Fatalf("name-asc: got %s", got)
	}
}

func TestProject_CountsIgnoreFilter(t *testing.T) {
	t.Parallel()

	ts := sampleTasks()
	for _, f := range append(Filters, "bogus") {
		for _, s := range append(Sorts, "bogus") {
			v := Project(ts, f, s)
			if v.RemainingCount != 2 || v.CompletedCount != 2 {
				t.Fatalf("%s/%s: remaining=%d completed=%d", f, s, v.RemainingCount, v.CompletedCount)
			}
			if v.RemainingCount+v.CompletedCount != len(ts) || v.Total != len(ts) {
				t.Fatalf("%s/%s: counts do not add up to %d: %+v", f, s, len(ts), v)
			}
		}
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	ts := sampleTasks()
	before := fmt.Sprint(texts(ts))
	_ = Project(ts, FilterAll, SortNameDesc)
	if after := fmt.Sprint(texts(ts)); after != before {
		t.Fatalf("input reordered: %s -> %s", before, after)
	}
}

func TestProject_EmptyCollection(t *testing.T) {
	t.Parallel()

	v := Project(nil, FilterCompleted, SortDateDesc)
	if v.Items == nil || len(v.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", v.Items)
	}
	if v.Total != 0 || v.RemainingCount != 0 || v.CompletedCount != 0 {
		t.Fatalf("expected zero counts, got %+v", v)
	}
}

func TestProjector_SwedishCollation(t *testing.T) {
	t.Parallel()

	// In Swedish, "ö" sorts after "z"; in English it sorts with "o".
	ts := []model.Task{task("1", "öl", false, 0), task("2", "zebra", false, 1)}

	sv := Projector{Locale: language.Swedish}.Project(ts, FilterAll, SortNameAsc)
	if got := fmt.Sprint(texts(sv.Items)); got != "[zebra öl]" {
		t.Fatalf("sv: got %s", got)
	}
	en := Projector{Locale: language.English}.Project(ts, FilterAll, SortNameAsc)
	if got := fmt.Sprint(texts(en.Items)); got != "[öl zebra]" {
		t.Fatalf("en: got %s", got)
	}
}

func TestParseFilterAndSort(t *testing.T) {
	t.Parallel()

	if got := ParseFilter(" Active "); got != FilterActive {
		t.Fatalf("ParseFilter: got %q", got)
	}
	if got := ParseFilter("done"); got != FilterAll {
		t.Fatalf("ParseFilter unknown: got %q", got)
	}
	if got := ParseSort("NAME-DESC"); got != SortNameDesc {
		t.Fatalf("ParseSort: got %q", got)
	}
	if got := ParseSort("priority"); got != SortDefault {
		t.Fatalf("ParseSort unknown: got %q", got)
	}
}

func TestParseLocale(t *testing.T) {
	t.Parallel()

	tag, err := ParseLocale("")
	if err != nil || tag != DefaultLocale {
		t.Fatalf("empty locale: got %v, %v", tag, err)
	}
	if _, err := ParseLocale("not a locale!"); err == nil {
		t.Fatalf("expected error for malformed locale")
	}
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	v := Project(sampleTasks(), FilterCompleted, SortDefault)
	md := Markdown(v)
	for _, want := range []string{
		"## Tasks: Completed",
		"- [x] buy milk",
		"2 remaining, 2 completed",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}

	empty := Markdown(Project(nil, FilterAll, SortDefault))
	if !strings.Contains(empty, "No tasks to show") {
		t.Fatalf("expected empty-state line:\n%s", empty)
	}
	if got := escapeMarkdown("a*b_[c]"); got != `a\*b\_\[c\]` {
		t.Fatalf("escape: got %q", got)
	}
}
