package ui

import (
	"context"
	"strconv"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/policy"
	"github.com/helpdeskmini/webclient/internal/sla"
)

// DashboardPage is the landing screen after login. Staff get the backend
// aggregates plus a recent-ticket feed; plain users get counts derived
// from their own list.
type DashboardPage struct {
	app.Compo

	user    model.User
	tickets []model.Ticket
	stats   *model.DashboardStats
	loading bool
	errMsg  string
	ready   bool
}

func (p *DashboardPage) OnNav(ctx app.Context) {
	p.loading = true
	requireUser(ctx, func(u model.User) {
		p.user = u
		p.ready = true
		p.fetch(ctx)
	})
}

func (p *DashboardPage) fetch(ctx app.Context) {
	ctx.Async(func() {
		tickets, err := backend.Tickets(context.Background())
		ctx.Dispatch(func(ctx app.Context) {
			p.loading = false
			if err != nil {
				p.errMsg = "Failed to load dashboard"
				app.Log("error fetching tickets:", err)
				return
			}
			p.tickets = tickets
		})
	})

	// The aggregates are a separate, optional fetch. If it fails the
	// dashboard still renders from the ticket list.
	if policy.CanViewStats(p.user.Role) {
		ctx.Async(func() {
			stats, err := backend.DashboardStats(context.Background())
			ctx.Dispatch(func(ctx app.Context) {
				if err != nil {
					app.Log("error fetching stats:", err)
					return
				}
				p.stats = stats
			})
		})
	}
}

// ticketSummary is the derived counterpart of the backend aggregates,
// computed over whatever ticket list the viewer can see.
type ticketSummary struct {
	Total    int
	Open     int
	Pending  int
	Resolved int
	Warning  int
}

func summarize(tickets []model.Ticket, now time.Time) ticketSummary {
	var s ticketSummary
	s.Total = len(tickets)
	for _, t := range tickets {
		switch t.Status {
		case model.StatusOpen:
			s.Open++
		case model.StatusPending:
			s.Pending++
		case model.StatusResolved, model.StatusClosed:
			s.Resolved++
		}
		if sla.Classify(t.SLADeadline, now) == sla.StatusWarning {
			s.Warning++
		}
	}
	return s
}

func (p *DashboardPage) Render() app.UI {
	if !p.ready {
		return loadingView("Loading...")
	}
	return shell(p.user, "/dashboard",
		app.Div().Class("page-header").Body(
			app.H2().Text("Dashboard"),
			app.P().Class("page-subtitle").Text(dashboardSubtitle(p.user)),
		),
		app.If(p.errMsg != "", func() app.UI {
			return errorBanner(p.errMsg)
		}),
		app.If(p.loading, func() app.UI {
			return loadingView("Loading dashboard...")
		}).Else(func() app.UI {
			return p.content()
		}),
	)
}

func dashboardSubtitle(u model.User) string {
	switch u.Role {
	case model.RoleAdmin:
		return "Overview of all helpdesk activity"
	case model.RoleAgent:
		return "Tickets assigned to you"
	default:
		return "Your support tickets at a glance"
	}
}

func (p *DashboardPage) content() app.UI {
	summary := summarize(p.tickets, time.Now())
	return app.Div().Body(
		app.If(p.user.Role == model.RoleAdmin && p.stats != nil, func() app.UI {
			return p.totalsGrid()
		}).Else(func() app.UI {
			return p.summaryCards(summary)
		}),
		app.If(showsServerFigures(p.user.Role, p.stats), func() app.UI {
			return p.serverFigures()
		}),
		app.Div().Class("dashboard-columns").Body(
			p.recentTickets(),
			p.sidePanel(summary),
		),
	)
}

// showsServerFigures: agents and admins both get the backend's resolution
// and compliance figures; admins additionally swap the derived counts for
// the backend totals.
func showsServerFigures(r model.Role, stats *model.DashboardStats) bool {
	return stats != nil && policy.CanViewStats(r)
}

// totalsGrid renders the backend's count aggregates verbatim. The client
// does not recompute or sanity check them.
func (p *DashboardPage) totalsGrid() app.UI {
	s := p.stats
	return app.Div().Class("stats-grid").Body(
		statCard("Total Tickets", strconv.Itoa(s.TotalTickets), ""),
		statCard("Open", strconv.Itoa(s.OpenTickets), "stat-open"),
		statCard("Pending", strconv.Itoa(s.PendingTickets), "stat-pending"),
		statCard("Resolved", strconv.Itoa(s.ResolvedTickets), "stat-resolved"),
	)
}

func (p *DashboardPage) serverFigures() app.UI {
	s := p.stats
	return app.Div().Body(
		app.Div().Class("stats-grid").Body(
			statCard("Avg Resolution", formatMinutes(s.AvgResolutionTime), ""),
			statCard("SLA Compliance", strconv.Itoa(s.SLAComplianceRate)+"%", complianceClass(s.SLAComplianceRate)),
		),
		app.If(len(s.PriorityStats) > 0 || len(s.StatusStats) > 0, func() app.UI {
			return app.Div().Class("breakdown-row").Body(
				bucketPanel("By Priority", s.PriorityStats),
				bucketPanel("By Status", s.StatusStats),
			)
		}),
	)
}

func (p *DashboardPage) summaryCards(s ticketSummary) app.UI {
	return app.Div().Class("stats-grid").Body(
		statCard("Total Tickets", strconv.Itoa(s.Total), ""),
		statCard("Open", strconv.Itoa(s.Open), "stat-open"),
		statCard("Pending", strconv.Itoa(s.Pending), "stat-pending"),
		statCard("Resolved", strconv.Itoa(s.Resolved), "stat-resolved"),
	)
}

func statCard(label, value, extra string) app.UI {
	cls := "stat-card"
	if extra != "" {
		cls += " " + extra
	}
	return app.Div().Class(cls).Body(
		app.Div().Class("stat-value").Text(value),
		app.Div().Class("stat-label").Text(label),
	)
}

func bucketPanel(title string, buckets []model.StatBucket) app.UI {
	return app.Div().Class("card breakdown-panel").Body(
		app.H3().Text(title),
		app.If(len(buckets) == 0, func() app.UI {
			return app.P().Class("empty-hint").Text("No tickets yet")
		}).Else(func() app.UI {
			return app.Ul().Class("breakdown-list").Body(
				app.Range(buckets).Slice(func(i int) app.UI {
					b := buckets[i]
					return app.Li().Body(
						app.Span().Class("breakdown-name").Text(titleize(b.ID)),
						app.Span().Class("breakdown-count").Text(strconv.Itoa(b.Count)),
					)
				}),
			)
		}),
	)
}

func (p *DashboardPage) recentTickets() app.UI {
	recent := p.tickets
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return app.Div().Class("card recent-tickets").Body(
		app.Div().Class("card-header").Body(
			app.H3().Text("Recent Tickets"),
			app.A().Href("/tickets").Class("link").Text("View all"),
		),
		app.If(len(recent) == 0, func() app.UI {
			return app.P().Class("empty-hint").Text(emptyTicketsHint(p.user.Role))
		}).Else(func() app.UI {
			return app.Div().Class("recent-list").Body(
				app.Range(recent).Slice(func(i int) app.UI {
					t := recent[i]
					return app.A().Class("recent-item").Href("/tickets/" + t.ID).Body(
						app.Div().Class("recent-item-main").Body(
							app.Div().Class("recent-title").Text(truncate(t.Title, 60)),
							app.Div().Class("recent-meta").Text(formatDate(t.CreatedAt)),
						),
						app.Div().Class("recent-item-badges").Body(
							statusBadge(t.Status),
							priorityBadge(t.Priority),
							slaBadge(t.SLADeadline),
						),
					)
				}),
			)
		}),
	)
}

func (p *DashboardPage) sidePanel(s ticketSummary) app.UI {
	return app.Div().Class("dashboard-side").Body(
		app.If(policy.CanViewStats(p.user.Role), func() app.UI {
			return app.Div().Class("card").Body(
				app.H3().Text("Needs Attention"),
				app.P().Class("attention-count").Text(strconv.Itoa(s.Warning)),
				app.P().Class("empty-hint").Text("tickets within 2 hours of their SLA deadline"),
			)
		}).Else(func() app.UI {
			return app.Div().Class("card").Body(
				app.H3().Text("Need Help?"),
				app.P().Text("Open a ticket and our support team will get back to you."),
				app.A().Href("/tickets/create").Class("btn btn-primary").Text("Create Ticket"),
			)
		}),
		slaLegend(),
	)
}

func slaLegend() app.UI {
	return app.Div().Class("card sla-legend").Body(
		app.H3().Text("SLA Status"),
		app.Ul().Body(
			app.Li().Body(
				app.Span().Class("sla-indicator sla-normal").Text("normal"),
				app.Span().Text(" on track"),
			),
			app.Li().Body(
				app.Span().Class("sla-indicator sla-warning").Text("warning"),
				app.Span().Text(" due within 2 hours"),
			),
			app.Li().Body(
				app.Span().Class("sla-indicator sla-breached").Text("breached"),
				app.Span().Text(" deadline passed"),
			),
		),
	)
}

func emptyTicketsHint(r model.Role) string {
	switch r {
	case model.RoleAgent:
		return "No tickets assigned to you yet"
	case model.RoleAdmin:
		return "No tickets in the system yet"
	default:
		return "You haven't created any tickets yet"
	}
}

func formatMinutes(mins int) string {
	if mins <= 0 {
		return "-"
	}
	if mins < 60 {
		return strconv.Itoa(mins) + "m"
	}
	h := mins / 60
	m := mins % 60
	if m == 0 {
		return strconv.Itoa(h) + "h"
	}
	return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
}

func complianceClass(rate int) string {
	if rate >= 90 {
		return "stat-resolved"
	}
	if rate >= 70 {
		return "stat-pending"
	}
	return "stat-open"
}
