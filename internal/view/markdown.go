package view

import (
	"fmt"
	"strings"
)

// Markdown renders v as a GitHub-style task list with a count header.
func Markdown(v View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Tasks: %s\n\n", ParseFilter(string(v.Filter)).Label())
	if len(v.Items) == 0 {
		b.WriteString("_No tasks to show._\n")
	}
	for _, t := range v.Items {
		box := " "
		if t.Completed {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", box, escapeMarkdown(t.Text))
	}
	fmt.Fprintf(&b, "\n%d remaining, %d completed (sorted by %s)\n", v.RemainingCount, v.CompletedCount, strings.ToLower(v.Sort.Label()))
	return b.String()
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"#", `\#`,
)

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return mdEscaper.Replace(s)
}
