package ui

import (
	"context"
	"errors"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/api"
)

// LoginPage is the credential form shown to anonymous visitors.
type LoginPage struct {
	app.Compo

	email      string
	password   string
	errMsg     string
	submitting bool
}

func (p *LoginPage) OnMount(ctx app.Context) {
	setup(ctx)
	sess.Reset()
	if sess.Authenticated() {
		// Already signed in; login is not reachable again.
		ctx.Navigate("/dashboard")
	}
}

func (p *LoginPage) onSubmit(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if p.submitting {
		return
	}
	p.errMsg = ""
	p.submitting = true
	sess.Begin()

	email, password := p.email, p.password
	ctx.Async(func() {
		resp, err := backend.Login(context.Background(), email, password)
		ctx.Dispatch(func(ctx app.Context) {
			p.submitting = false
			if err != nil {
				sess.Fail()
				p.errMsg = authErrorMessage(err, "Login failed")
				return
			}
			if err := sess.Establish(resp.Token, resp.User); err != nil {
				app.Log("error persisting token:", err)
			}
			ctx.Navigate("/dashboard")
		})
	})
}

func (p *LoginPage) Render() app.UI {
	return app.Div().Class("auth-container").Body(
		app.Div().Class("auth-card").Body(
			app.Div().Class("auth-header").Body(
				app.H1().Text("Welcome Back"),
				app.P().Text("Sign in to your HelpDesk Mini account"),
			),
			app.If(p.errMsg != "", func() app.UI {
				return errorBanner(p.errMsg)
			}),
			app.Form().Class("auth-form").OnSubmit(p.onSubmit).Body(
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
					app.Label().Class("form-label").Text("Password"),
					app.Input().Type("password").Class("form-control").
						Placeholder("Enter your password").
						Value(p.password).
						Required(true).
						Disabled(p.submitting).
						OnInput(func(ctx app.Context, e app.Event) {
							p.password = eventValue(e)
						}),
				),
				app.Button().Type("submit").Class("btn btn-primary auth-btn").
					Disabled(p.submitting).
					Text(submitLabel(p.submitting, "Signing In...", "Sign In")),
			),
			app.Div().Class("auth-footer").Body(
				app.P().Body(
					app.Text("Don't have an account? "),
					app.A().Href("/register").Class("link").Text("Create one"),
				),
			),
		),
	)
}

func submitLabel(pending bool, pendingLabel, label string) string {
	if pending {
		return pendingLabel
	}
	return label
}

// authErrorMessage surfaces the server's message when it sent one and
// falls back to a fixed string otherwise.
func authErrorMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "request failed" {
		return apiErr.Message
	}
	return fallback
}
