package ui

import (
	"strings"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/sla"
)

func formatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006")
}

func formatDateTime(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}

// initials turns "Ada Lovelace" into "AL" for the avatar bubble.
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}

// truncate shortens s to at most n runes, with an ellipsis when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// clampRunes hard-cuts s to at most n runes, no ellipsis. Used to enforce
// input limits as the user types.
func clampRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func titleize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func eventValue(e app.Event) string {
	return e.Get("target").Get("value").String()
}

func eventChecked(e app.Event) bool {
	return e.Get("target").Get("checked").Bool()
}

func loadingView(msg string) app.UI {
	return app.Div().Class("loading").Text(msg)
}

func errorBanner(msg string) app.UI {
	return app.Div().Class("alert alert-error").Text(msg)
}

func statusBadge(s model.TicketStatus) app.UI {
	return app.Span().Class("status-badge status-" + string(s)).Text(string(s))
}

func priorityBadge(p model.TicketPriority) app.UI {
	return app.Span().Class("priority-badge priority-" + string(p)).Text(string(p))
}

// slaBadge classifies against the wall clock at render time; the same
// ticket may show differently on the next render, by contract.
func slaBadge(deadline *time.Time) app.UI {
	status := sla.Classify(deadline, time.Now())
	return app.Span().Class("sla-indicator sla-" + string(status)).Text(string(status))
}
