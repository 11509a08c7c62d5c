// Package ui holds the go-app components of the helpdesk web client. The
// same routes are registered by the wasm binary (which runs them in the
// browser) and by the serving binary (which uses them for prerendering).
package ui

import (
	"context"
	"sync"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/api"
	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/policy"
	"github.com/helpdeskmini/webclient/internal/session"
)

// RegisterRoutes maps every page of the client. Exact routes take
// precedence over the regexp one, so /tickets/create is never swallowed
// by the detail page.
func RegisterRoutes() {
	app.Route("/login", func() app.Composer { return &LoginPage{} })
	app.Route("/register", func() app.Composer { return &RegisterPage{} })
	app.Route("/", func() app.Composer { return &DashboardPage{} })
	app.Route("/dashboard", func() app.Composer { return &DashboardPage{} })
	app.Route("/tickets", func() app.Composer { return &TicketsPage{} })
	app.Route("/tickets/create", func() app.Composer { return &CreateTicketPage{} })
	app.RouteWithRegexp(`^/tickets/.+$`, func() app.Composer { return &TicketDetailPage{} })
	app.Route("/users", func() app.Composer { return &UsersPage{} })
}

// Process-wide session and API client. The session manager is the single
// writer of auth state (spec'd lifecycle: login, logout, expiry); every
// page reads through it.
var (
	setupOnce sync.Once
	sess      *session.Manager
	backend   *api.Client
)

func setup(ctx app.Context) {
	setupOnce.Do(func() {
		sess = session.New(ctx.LocalStorage())
		backend = api.New("/api", sess)
		backend.OnUnauthorized(func() {
			// Any 401 anywhere: drop the credential and force the
			// login screen, discarding whatever was in flight.
			sess.Expire()
			app.Window().Get("location").Call("replace", "/login")
		})
	})
}

// requireUser is the route guard shared by every authenticated page.
// Signed-out visitors go to /login; after a reload the profile is
// re-fetched before onReady runs. onReady always runs on the UI
// goroutine, and not at all if the page was dismounted meanwhile.
func requireUser(ctx app.Context, onReady func(model.User)) {
	setup(ctx)
	if !sess.Authenticated() {
		ctx.Navigate("/login")
		return
	}
	if p := sess.Profile(); p != nil {
		onReady(*p)
		return
	}
	ctx.Async(func() {
		profile, err := backend.Profile(context.Background())
		if err != nil {
			app.Log("error fetching profile:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			sess.SetProfile(*profile)
			onReady(*profile)
		})
	})
}

// requireRole layers a role check on top of requireUser, bouncing denied
// visitors to the safe default instead of rendering a partial view.
func requireRole(ctx app.Context, allowed func(model.Role) bool, onReady func(model.User)) {
	requireUser(ctx, func(u model.User) {
		if !allowed(u.Role) {
			ctx.Navigate(policy.SafeRoute)
			return
		}
		onReady(u)
	})
}
