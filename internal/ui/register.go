package ui

import (
	"context"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/api"
	"github.com/helpdeskmini/webclient/internal/model"
)

// RegisterPage creates an account. The role is picked here and never
// changes afterwards.
type RegisterPage struct {
	app.Compo

	name            string
	email           string
	password        string
	confirmPassword string
	role            model.Role
	errMsg          string
	submitting      bool
}

func (p *RegisterPage) OnMount(ctx app.Context) {
	setup(ctx)
	sess.Reset()
	p.role = model.RoleUser
	if sess.Authenticated() {
		ctx.Navigate("/dashboard")
	}
}

func (p *RegisterPage) onSubmit(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if p.submitting {
		return
	}

	// Local checks first; nothing leaves the browser until they pass.
	if p.password != p.confirmPassword {
		p.errMsg = "Passwords do not match"
		return
	}
	if len(p.password) < 6 {
		p.errMsg = "Password must be at least 6 characters"
		return
	}

	p.errMsg = ""
	p.submitting = true
	sess.Begin()

	reg := api.Registration{
		Name:     p.name,
		Email:    p.email,
		Password: p.password,
		Role:     p.role,
	}
	ctx.Async(func() {
		resp, err := backend.Register(context.Background(), reg)
		ctx.Dispatch(func(ctx app.Context) {
			p.submitting = false
			if err != nil {
				sess.Fail()
				p.errMsg = authErrorMessage(err, "Registration failed")
				return
			}
			if err := sess.Establish(resp.Token, resp.User); err != nil {
				app.Log("error persisting token:", err)
			}
			ctx.Navigate("/dashboard")
		})
	})
}

func (p *RegisterPage) Render() app.UI {
	return app.Div().Class("auth-container").Body(
		app.Div().Class("auth-card").Body(
			app.Div().Class("auth-header").Body(
				app.H1().Text("Create Account"),
				app.P().Text("Join HelpDesk Mini to get support"),
			),
			app.If(p.errMsg != "", func() app.UI {
				return errorBanner(p.errMsg)
			}),
			app.Form().Class("auth-form").OnSubmit(p.onSubmit).Body(
				app.Div().Class("form-group").Body(
					app.Label().Class("form-label").Text("Full Name"),
					app.Input().Type("text").Class("form-control").
						Placeholder("Enter your full name").
						Value(p.name).
						Required(true).
						Disabled(p.submitting).
						OnInput(func(ctx app.Context, e app.Event) {
							p.name = eventValue(e)
						}),
				),
				app.Div().Class("form-group").Body(
					app.Label().Class("form-label").Text("Email"),
					app.Input().Type("email").Class("form-control").
						Placeholder("Enter your email").
						Value(p.email).
						Required(true).
						Disabled(p.submitting).
						OnInput(func(ctx app.Context, e app.Event) {
							p.email = eventValue(e)
						}),
				),
				app.Div().Class("form-group").Body(
					app.Label().Class("form-label").Text("Account Type"),
					app.Select().Class("form-control").
						Disabled(p.submitting).
						OnChange(func(ctx app.Context, e app.Event) {
							p.role = model.Role(eventValue(e))
						}).
						Body(
							app.Option().Value(string(model.RoleUser)).
								Selected(p.role == model.RoleUser).
								Text("End User - I need support"),
							app.Option().Value(string(model.RoleAgent)).
								Selected(p.role == model.RoleAgent).
								Text("Support Agent - I provide support"),
							app.Option().Value(string(model.RoleAdmin)).
								Selected(p.role == model.RoleAdmin).
								Text("Administrator - I manage the helpdesk"),
						),
				),
				app.Div().Class("form-group").Body(
					app.Label().Class("form-label").Text("Password"),
					app.Input().Type("password").Class("form-control").
						Placeholder("At least 6 characters").
						Value(p.password).
						Required(true).
						Disabled(p.submitting).
						OnInput(func(ctx app.Context, e app.Event) {
							p.password = eventValue(e)
						}),
				),
				app.Div().Class("form-group").Body(
					app.Label().Class("form-label").Text("Confirm Password"),
					app.Input().Type("password").Class("form-control").
						Placeholder("Repeat your password").
						Value(p.confirmPassword).
						Required(true).
						Disabled(p.submitting).
						OnInput(func(ctx app.Context, e app.Event) {
							p.confirmPassword = eventValue(e)
						}),
				),
				app.Button().Type("submit").Class("btn btn-primary auth-btn").
					Disabled(p.submitting).
					Text(submitLabel(p.submitting, "Creating Account...", "Create Account")),
			),
			app.Div().Class("auth-footer").Body(
				app.P().Body(
					app.Text("Already have an account? "),
					app.A().Href("/login").Class("link").Text("Sign in"),
				),
			),
		),
	)
}
