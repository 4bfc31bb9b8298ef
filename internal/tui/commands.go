package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/fred/internal/feed"
	"github.com/pders01/fred/internal/state"
)

type tickMsg time.Time

// FetchDoneMsg is sent by the worker after a result has been merged so the
// screen updates without waiting for the next tick.
type FetchDoneMsg struct {
	Request state.Request
	Err     error
}

type detailRenderedMsg struct {
	key     string
	content string
}

func tick(rate time.Duration) tea.Cmd {
	return tea.Tick(rate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// detailKey identifies a rendered detail so it is only rendered once per
// item and width.
func detailKey(item *feed.Item, activeFeed, width int) string {
	if item == nil {
		return ""
	}
	return fmt.Sprintf("%d|%d|%s|%s", activeFeed, width, item.Link, item.Title)
}

func detailMarkdown(item feed.Item) string {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("# %s\n\n", item.Title))
	if !item.Published.IsZero() {
		content.WriteString(fmt.Sprintf("*Published: %s*\n\n", item.Published.Format(time.RFC1123)))
	}
	if item.Link != "" {
		content.WriteString(fmt.Sprintf("[Read Online](%s)\n\n", item.Link))
	}
	content.WriteString("---\n\n")

	if desc, ok := item.Description(); ok && desc != "" {
		content.WriteString(desc)
	} else {
		content.WriteString("*No description.*")
	}
	return content.String()
}

// detailRenderer serialises glamour rendering. Render commands run on
// their own goroutines and a TermRenderer must not be shared between them.
type detailRenderer struct {
	mu    sync.Mutex
	r     *glamour.TermRenderer
	width int
}

// Render renders md wrapped at width, rebuilding the renderer when the
// width has moved far enough to matter.
func (d *detailRenderer) Render(md string, width int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.r == nil || abs(d.width-width) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		d.r = r
		d.width = width
	}
	return d.r.Render(md)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func renderDetail(d *detailRenderer, item feed.Item, width int, key string) tea.Cmd {
	return func() tea.Msg {
		md := detailMarkdown(item)
		if d == nil {
			return detailRenderedMsg{key: key, content: md}
		}
		rendered, err := d.Render(md, width)
		if err != nil {
			err = wrapErr("rendering item", err)
			return detailRenderedMsg{key: key, content: fmt.Sprintf("%v\n\n%s", err, md)}
		}
		return detailRenderedMsg{key: key, content: rendered}
	}
}
