package format

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdowner is implemented by command results that have a markdown rendering.
type Markdowner interface {
	Markdown() string
}

const defaultMarkdownWidth = 80

// WriteMarkdown writes md as-is, or rendered for the terminal when pretty is set.
func WriteMarkdown(w io.Writer, md string, pretty bool, width int) error {
	if !pretty {
		_, err := io.WriteString(w, strings.TrimRight(md, "\n")+"\n")
		return err
	}
	out, err := RenderMarkdown(md, width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// RenderMarkdown renders md with a fixed glamour style. WithAutoStyle is
// avoided because its terminal background query can block.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = defaultMarkdownWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TODO_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	case "ascii":
		return "ascii"
	}
	if os.Getenv("NO_COLOR") != "" {
		return "notty"
	}
	return "dark"
}
