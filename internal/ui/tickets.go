package ui

import (
	"context"
	"strconv"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/policy"
)

// TicketsPage lists the tickets the backend scoped to the caller, with
// client-side filtering over that list. Filters never trigger a refetch.
type TicketsPage struct {
	app.Compo

	user    model.User
	tickets []model.Ticket
	filter  model.TicketFilter
	loading bool
	errMsg  string
	ready   bool
}

func (p *TicketsPage) OnNav(ctx app.Context) {
	p.loading = true
	requireUser(ctx, func(u model.User) {
		p.user = u
		p.ready = true
		p.fetch(ctx)
	})
}

func (p *TicketsPage) fetch(ctx app.Context) {
	p.loading = true
	p.errMsg = ""
	ctx.Async(func() {
		tickets, err := backend.Tickets(context.Background())
		ctx.Dispatch(func(ctx app.Context) {
			p.loading = false
			if err != nil {
				p.errMsg = "Failed to load tickets"
				app.Log("error fetching tickets:", err)
				return
			}
			p.tickets = tickets
		})
	})
}

func (p *TicketsPage) Render() app.UI {
	if !p.ready {
		return loadingView("Loading...")
	}
	visible := p.filter.Apply(p.tickets)
	return shell(p.user, "/tickets",
		app.Div().Class("page-header").Body(
			app.Div().Body(
				app.H2().Text(ticketsHeading(p.user.Role)),
				app.P().Class("page-subtitle").Text(
					"Showing "+strconv.Itoa(len(visible))+" of "+strconv.Itoa(len(p.tickets))+" tickets",
				),
			),
			app.Div().Class("page-actions").Body(
				app.Button().Class("btn btn-outline").Text("Refresh").
					Disabled(p.loading).
					OnClick(func(ctx app.Context, e app.Event) {
						p.fetch(ctx)
					}),
				app.If(policy.CanCreateTicket(p.user.Role), func() app.UI {
					return app.A().Href("/tickets/create").Class("btn btn-primary").Text("Create Ticket")
				}),
			),
		),
		app.If(p.errMsg != "", func() app.UI {
			return errorBanner(p.errMsg)
		}),
		p.filterBar(),
		app.If(p.loading, func() app.UI {
			return loadingView("Loading tickets...")
		}).Else(func() app.UI {
			return p.table(visible)
		}),
	)
}

func ticketsHeading(r model.Role) string {
	switch r {
	case model.RoleAgent:
		return "My Assigned Tickets"
	case model.RoleAdmin:
		return "All Tickets"
	default:
		return "My Tickets"
	}
}

func (p *TicketsPage) filterBar() app.UI {
	return app.Div().Class("filter-bar").Body(
		filterSelect("All Statuses", p.filter.Status, statusOptions(), func(v string) {
			p.filter.Status = v
		}),
		filterSelect("All Priorities", p.filter.Priority, priorityOptions(), func(v string) {
			p.filter.Priority = v
		}),
		filterSelect("All Categories", p.filter.Category, categoryOptions(), func(v string) {
			p.filter.Category = v
		}),
		app.If(!p.filter.IsZero(), func() app.UI {
			return app.Button().Class("btn btn-link").Text("Clear All").
				OnClick(func(ctx app.Context, e app.Event) {
					p.filter = model.TicketFilter{}
				})
		}),
	)
}

func filterSelect(placeholder, current string, options []string, set func(string)) app.UI {
	return app.Select().Class("form-control filter-select").
		OnChange(func(ctx app.Context, e app.Event) {
			set(eventValue(e))
		}).
		Body(
			app.Option().Value("").Selected(current == "").Text(placeholder),
			app.Range(options).Slice(func(i int) app.UI {
				return app.Option().Value(options[i]).
					Selected(current == options[i]).
					Text(titleize(options[i]))
			}),
		)
}

func statusOptions() []string {
	out := make([]string, 0, len(model.Statuses()))
	for _, s := range model.Statuses() {
		out = append(out, string(s))
	}
	return out
}

func priorityOptions() []string {
	out := make([]string, 0, len(model.Priorities()))
	for _, p := range model.Priorities() {
		out = append(out, string(p))
	}
	return out
}

func categoryOptions() []string {
	out := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		out = append(out, string(c))
	}
	return out
}

func (p *TicketsPage) table(tickets []model.Ticket) app.UI {
	if len(tickets) == 0 {
		if p.filter.IsZero() {
			return app.Div().Class("empty-state").Body(
				app.P().Text(emptyTicketsHint(p.user.Role)),
			)
		}
		return app.Div().Class("empty-state").Body(
			app.P().Text("No tickets match the current filters"),
		)
	}

	showAssignee := policy.SeesAssignee(p.user.Role)
	return app.Div().Class("card").Body(
		app.Table().Class("tickets-table").Body(
			app.THead().Body(
				app.Tr().Body(
					app.Th().Text("Title"),
					app.Th().Text("Category"),
					app.Th().Text("Priority"),
					app.Th().Text("Status"),
					app.Th().Text("SLA"),
					app.If(showAssignee, func() app.UI {
						return app.Th().Text("Assigned To")
					}),
					app.Th().Text("Created"),
				),
			),
			app.TBody().Body(
				app.Range(tickets).Slice(func(i int) app.UI {
					t := tickets[i]
					return app.Tr().Class("ticket-row").Body(
						app.Td().Body(
							app.A().Href("/tickets/"+t.ID).Class("ticket-link").
								Text(truncate(t.Title, 50)),
						),
						app.Td().Text(titleize(string(t.Category))),
						app.Td().Body(priorityBadge(t.Priority)),
						app.Td().Body(statusBadge(t.Status)),
						app.Td().Body(slaBadge(t.SLADeadline)),
						app.If(showAssignee, func() app.UI {
							return app.Td().Text(assigneeName(t.AssignedTo))
						}),
						app.Td().Text(formatDate(t.CreatedAt)),
					)
				}),
			),
		),
	)
}

func assigneeName(u *model.User) string {
	if u == nil {
		return "Unassigned"
	}
	return u.Name
}
