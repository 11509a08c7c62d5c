package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/api"
	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/policy"
)

// TicketDetailPage shows one ticket with its comment thread and the
// lifecycle controls the viewer's role grants. Every mutation is followed
// by a full refetch of the ticket; the page never patches local state.
type TicketDetailPage struct {
	app.Compo

	user     model.User
	ticketID string
	ticket   *model.Ticket
	agents   []model.User
	loading  bool
	updating bool
	errMsg   string
	ready    bool

	commentText     string
	commentInternal bool
}

func (p *TicketDetailPage) OnNav(ctx app.Context) {
	p.ticketID = strings.TrimPrefix(ctx.Page().URL().Path, "/tickets/")
	p.loading = true
	requireUser(ctx, func(u model.User) {
		p.user = u
		p.ready = true
		p.fetch(ctx)
		if policy.CanAssign(u.Role) {
			p.fetchAgents(ctx)
		}
	})
}

func (p *TicketDetailPage) fetch(ctx app.Context) {
	id := p.ticketID
	ctx.Async(func() {
		ticket, err := backend.Ticket(context.Background(), id)
		ctx.Dispatch(func(ctx app.Context) {
			p.loading = false
			p.updating = false
			if err != nil {
				if errors.Is(err, api.ErrForbidden) {
					// Not this viewer's ticket; no partial views.
					ctx.Navigate(policy.SafeRoute)
					return
				}
				p.errMsg = "Failed to load ticket"
				app.Log("error fetching ticket:", err)
				return
			}
			p.ticket = ticket
		})
	})
}

func (p *TicketDetailPage) fetchAgents(ctx app.Context) {
	ctx.Async(func() {
		users, err := backend.Users(context.Background())
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				app.Log("error fetching users:", err)
				return
			}
			agents := make([]model.User, 0, len(users))
			for _, u := range users {
				if u.Role == model.RoleAgent {
					agents = append(agents, u)
				}
			}
			p.agents = agents
		})
	})
}

func (p *TicketDetailPage) changeStatus(ctx app.Context, status model.TicketStatus) {
	if p.updating {
		return
	}
	p.updating = true
	p.errMsg = ""
	id := p.ticketID
	ctx.Async(func() {
		_, err := backend.UpdateStatus(context.Background(), id, status)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				p.updating = false
				p.errMsg = mutationErrorMessage(err, "Failed to update status")
				return
			}
			p.fetch(ctx)
		})
	})
}

func (p *TicketDetailPage) assign(ctx app.Context, agentID string) {
	if p.updating {
		return
	}
	p.updating = true
	p.errMsg = ""
	id := p.ticketID
	ctx.Async(func() {
		_, err := backend.Assign(context.Background(), id, agentID)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				p.updating = false
				p.errMsg = mutationErrorMessage(err, "Failed to assign ticket")
				return
			}
			p.fetch(ctx)
		})
	})
}

func (p *TicketDetailPage) postComment(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if p.updating || strings.TrimSpace(p.commentText) == "" {
		return
	}
	p.updating = true
	p.errMsg = ""
	id, text, internal := p.ticketID, p.commentText, p.commentInternal
	ctx.Async(func() {
		err := backend.AddComment(context.Background(), id, text, internal)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				p.updating = false
				p.errMsg = mutationErrorMessage(err, "Failed to add comment")
				return
			}
			p.commentText = ""
			p.commentInternal = false
			p.fetch(ctx)
		})
	})
}

func mutationErrorMessage(err error, fallback string) string {
	if errors.Is(err, api.ErrForbidden) {
		return "You are not allowed to do that"
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "request failed" {
		return apiErr.Message
	}
	return fallback
}

func (p *TicketDetailPage) Render() app.UI {
	if !p.ready {
		return loadingView("Loading...")
	}
	return shell(p.user, "/tickets",
		app.Div().Class("page-header").Body(
			app.A().Href("/tickets").Class("link").Text("< Back to tickets"),
		),
		app.If(p.errMsg != "", func() app.UI {
			return errorBanner(p.errMsg)
		}),
		app.If(p.loading || p.ticket == nil, func() app.UI {
			return loadingView("Loading ticket...")
		}).Else(func() app.UI {
			return p.detail()
		}),
	)
}

func (p *TicketDetailPage) detail() app.UI {
	t := p.ticket
	return app.Div().Class("ticket-detail").Body(
		app.Div().Class("ticket-detail-main").Body(
			app.Div().Class("card").Body(
				app.Div().Class("ticket-detail-header").Body(
					app.H2().Text(t.Title),
					app.Div().Class("ticket-detail-badges").Body(
						statusBadge(t.Status),
						priorityBadge(t.Priority),
						slaBadge(t.SLADeadline),
					),
				),
				app.P().Class("ticket-description").Text(t.Description),
				app.Div().Class("ticket-meta").Body(
					metaRow("Category", titleize(string(t.Category))),
					metaRow("Created by", t.CreatedBy.Name),
					metaRow("Created", formatDateTime(t.CreatedAt)),
					app.If(t.SLADeadline != nil, func() app.UI {
						return metaRow("SLA deadline", formatDateTime(*t.SLADeadline))
					}),
					app.If(t.ResolvedAt != nil, func() app.UI {
						return metaRow("Resolved", formatDateTime(*t.ResolvedAt))
					}),
				),
			),
			p.comments(),
		),
		p.controls(),
	)
}

func metaRow(label, value string) app.UI {
	return app.Div().Class("meta-row").Body(
		app.Span().Class("meta-label").Text(label),
		app.Span().Class("meta-value").Text(value),
	)
}

// controls is the role-gated action panel. A hidden control is a rendering
// decision only; the backend enforces the same rules on every request.
func (p *TicketDetailPage) controls() app.UI {
	t := p.ticket
	return app.Div().Class("ticket-detail-side").Body(
		app.If(policy.CanChangeStatus(p.user.Role), func() app.UI {
			return app.Div().Class("card").Body(
				app.H3().Text("Status"),
				app.Select().Class("form-control").
					Disabled(p.updating).
					OnChange(func(ctx app.Context, e app.Event) {
						p.changeStatus(ctx, model.TicketStatus(eventValue(e)))
					}).
					Body(
						app.Range(model.Statuses()).Slice(func(i int) app.UI {
							s := model.Statuses()[i]
							return app.Option().Value(string(s)).
								Selected(t.Status == s).
								Text(titleize(string(s)))
						}),
					),
			)
		}),
		app.If(policy.CanAssign(p.user.Role), func() app.UI {
			return app.Div().Class("card").Body(
				app.H3().Text("Assignment"),
				app.Select().Class("form-control").
					Disabled(p.updating).
					OnChange(func(ctx app.Context, e app.Event) {
						p.assign(ctx, eventValue(e))
					}).
					Body(
						app.Option().Value("").
							Selected(t.AssignedTo == nil).
							Text("Unassigned"),
						app.Range(p.agents).Slice(func(i int) app.UI {
							a := p.agents[i]
							return app.Option().Value(a.ID).
								Selected(t.AssignedTo != nil && t.AssignedTo.ID == a.ID).
								Text(a.Name)
						}),
					),
			)
		}).ElseIf(policy.SeesAssignee(p.user.Role), func() app.UI {
			return app.Div().Class("card").Body(
				app.H3().Text("Assignment"),
				app.P().Text(assigneeName(t.AssignedTo)),
			)
		}),
	)
}

func (p *TicketDetailPage) comments() app.UI {
	t := p.ticket
	visible := policy.VisibleComments(p.user.Role, t.Comments)
	canComment := policy.CanComment(p.user.Role, t.CreatedBy.ID == p.user.ID)
	return app.Div().Class("card").Body(
		app.H3().Text("Activity"),
		app.Div().Class("comment-list").Body(
			eventView(t.CreatedBy.Name+" opened this ticket", t.CreatedAt),
			app.If(len(visible) == 0, func() app.UI {
				return app.P().Class("empty-hint").Text("No comments yet")
			}).Else(func() app.UI {
				return app.Range(visible).Slice(func(i int) app.UI {
					return commentView(visible[i])
				})
			}),
			app.If(t.ResolvedAt != nil, func() app.UI {
				return eventView("Marked as resolved", *t.ResolvedAt)
			}),
		),
		app.If(canComment, func() app.UI {
			return p.commentForm()
		}),
	)
}

func eventView(text string, at time.Time) app.UI {
	return app.Div().Class("activity-event").Body(
		app.Span().Text(text),
		app.Span().Class("comment-date").Text(formatDateTime(at)),
	)
}

func commentView(c model.Comment) app.UI {
	cls := "comment"
	if c.IsInternal {
		cls += " internal"
	}
	return app.Div().Class(cls).Body(
		app.Div().Class("comment-header").Body(
			app.Div().Class("user-avatar").Text(initials(c.User.Name)),
			app.Span().Class("comment-author").Text(c.User.Name),
			app.If(c.IsInternal, func() app.UI {
				return app.Span().Class("internal-badge").Text("Internal Note")
			}),
			app.Span().Class("comment-date").Text(formatDateTime(c.CreatedAt)),
		),
		app.P().Class("comment-text").Text(c.Text),
	)
}

func (p *TicketDetailPage) commentForm() app.UI {
	return app.Form().Class("comment-form").OnSubmit(p.postComment).Body(
		app.Textarea().Class("form-control").
			Placeholder("Write a comment...").
			Disabled(p.updating).
			Text(p.commentText).
			OnInput(func(ctx app.Context, e app.Event) {
				p.commentText = eventValue(e)
			}),
		app.Div().Class("comment-form-actions").Body(
			app.If(policy.CanPostInternal(p.user.Role), func() app.UI {
				return app.Label().Class("checkbox-label").Body(
					app.Input().Type("checkbox").
						Checked(p.commentInternal).
						Disabled(p.updating).
						OnChange(func(ctx app.Context, e app.Event) {
							p.commentInternal = eventChecked(e)
						}),
					app.Span().Text(" Internal note (hidden from the customer)"),
				)
			}),
			app.Button().Type("submit").Class("btn btn-primary").
				Disabled(p.updating || strings.TrimSpace(p.commentText) == "").
				Text(submitLabel(p.updating, "Posting...", "Post Comment")),
		),
	)
}
