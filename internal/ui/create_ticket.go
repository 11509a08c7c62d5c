package ui

import (
	"context"
	"strconv"
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/api"
	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/policy"
)

// CreateTicketPage is the user-only intake form. Staff landing here are
// bounced to the ticket list before anything renders.
type CreateTicketPage struct {
	app.Compo

	user       model.User
	title      string
	desc       string
	category   model.TicketCategory
	priority   model.TicketPriority
	errMsg     string
	submitting bool
	ready      bool
}

func (p *CreateTicketPage) OnNav(ctx app.Context) {
	p.category = model.CategoryTechnical
	p.priority = model.PriorityMedium
	requireRole(ctx, policy.CanCreateTicket, func(u model.User) {
		p.user = u
		p.ready = true
	})
}

func (p *CreateTicketPage) onSubmit(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if p.submitting {
		return
	}
	if strings.TrimSpace(p.title) == "" || strings.TrimSpace(p.desc) == "" {
		p.errMsg = "Title and description are required"
		return
	}

	p.errMsg = ""
	p.submitting = true
	in := api.CreateTicketInput{
		Title:       p.title,
		Description: p.desc,
		Category:    p.category,
		Priority:    p.priority,
	}
	ctx.Async(func() {
		_, err := backend.CreateTicket(context.Background(), in)
		ctx.Dispatch(func(ctx app.Context) {
			p.submitting = false
			if err != nil {
				p.errMsg = mutationErrorMessage(err, "Failed to create ticket")
				return
			}
			ctx.Navigate("/tickets")
		})
	})
}

func (p *CreateTicketPage) Render() app.UI {
	if !p.ready {
		return loadingView("Loading...")
	}
	return shell(p.user, "/tickets/create",
		app.Div().Class("page-header").Body(
			app.H2().Text("Create Ticket"),
			app.P().Class("page-subtitle").Text("Describe your issue and we'll route it to the right team"),
		),
		app.If(p.errMsg != "", func() app.UI {
			return errorBanner(p.errMsg)
		}),
		app.Div().Class("card form-card").Body(
			app.Form().OnSubmit(p.onSubmit).Body(
				app.Div().Class("form-group").Body(
					app.Label().Class("form-label").Body(
						app.Text("Title"),
						app.Span().Class("char-counter").
							Text(strconv.Itoa(len([]rune(p.title)))+"/"+strconv.Itoa(model.TitleMaxLen)),
					),
					app.Input().Type("text").Class("form-control").
						Placeholder("Brief summary of the issue").
						Value(p.title).
						MaxLength(model.TitleMaxLen).
						Required(true).
						Disabled(p.submitting).
						OnInput(func(ctx app.Context, e app.Event) {
							p.title = clampRunes(eventValue(e), model.TitleMaxLen)
						}),
				),
				app.Div().Class("form-group").Body(
					app.Label().Class("form-label").Text("Description"),
					app.Textarea().Class("form-control").
						Placeholder("What happened, what did you expect, and what have you tried?").
						Rows(6).
						Required(true).
						Disabled(p.submitting).
						Text(p.desc).
						OnInput(func(ctx app.Context, e app.Event) {
							p.desc = eventValue(e)
						}),
				),
				app.Div().Class("form-row").Body(
					app.Div().Class("form-group").Body(
						app.Label().Class("form-label").Text("Category"),
						app.Select().Class("form-control").
							Disabled(p.submitting).
							OnChange(func(ctx app.Context, e app.Event) {
								p.category = model.TicketCategory(eventValue(e))
							}).
							Body(
								app.Range(model.Categories()).Slice(func(i int) app.UI {
									c := model.Categories()[i]
									return app.Option().Value(string(c)).
										Selected(p.category == c).
										Text(titleize(string(c)))
								}),
							),
					),
					app.Div().Class("form-group").Body(
						app.Label().Class("form-label").Text("Priority"),
						app.Select().Class("form-control").
							Disabled(p.submitting).
							OnChange(func(ctx app.Context, e app.Event) {
								p.priority = model.TicketPriority(eventValue(e))
							}).
							Body(
								app.Range(model.Priorities()).Slice(func(i int) app.UI {
									pr := model.Priorities()[i]
									return app.Option().Value(string(pr)).
										Selected(p.priority == pr).
										Text(titleize(string(pr)))
								}),
							),
					),
				),
				app.Div().Class("form-actions").Body(
					app.A().Href("/tickets").Class("btn btn-outline").Text("Cancel"),
					app.Button().Type("submit").Class("btn btn-primary").
						Disabled(p.submitting).
						Text(submitLabel(p.submitting, "Creating...", "Create Ticket")),
				),
			),
		),
	)
}
