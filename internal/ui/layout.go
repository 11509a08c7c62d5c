package ui

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/policy"
)

// shell wraps a page in the sidebar + header chrome shared by every
// authenticated screen. Which nav entries render is the policy table's
// call, not the page's.
func shell(u model.User, path string, content ...app.UI) app.UI {
	return app.Div().Class("layout").Body(
		sidebar(u, path),
		app.Div().Class("layout-main").Body(
			header(u),
			app.Main().Class("layout-content").Body(
				app.Div().Class("container").Body(content...),
			),
		),
	)
}

func sidebar(u model.User, path string) app.UI {
	return app.Nav().Class("sidebar").Body(
		app.Div().Class("sidebar-brand").Body(
			app.H2().Text("HelpDesk"),
		),
		app.Div().Class("sidebar-nav").Body(
			navItem(path, "/dashboard", "Dashboard"),
			navItem(path, "/tickets", "Tickets"),
			app.If(policy.CanCreateTicket(u.Role), func() app.UI {
				return navItem(path, "/tickets/create", "Create Ticket")
			}),
			app.If(policy.CanManageUsers(u.Role), func() app.UI {
				return app.Div().Class("sidebar-section").Body(
					app.Div().Class("sidebar-section-title").Text("SUPPORT TEAM"),
					navItem(path, "/users", "Users"),
				)
			}),
		),
	)
}

func navItem(current, target, label string) app.UI {
	cls := "sidebar-item"
	if current == target || (target == "/dashboard" && current == "/") {
		cls += " active"
	}
	return app.A().Class(cls).Href(target).Text(label)
}

func header(u model.User) app.UI {
	return app.Header().Class("header").Body(
		app.Div().Class("header-content").Body(
			app.H1().Text("HelpDesk Mini"),
			app.Div().Class("user-info").Body(
				app.Div().Class("user-avatar").Text(initials(u.Name)),
				app.Div().Body(
					app.Div().Class("user-name").Text(u.Name),
					app.Div().Class("user-role").Text(titleize(string(u.Role))),
				),
				app.Button().Class("btn btn-outline").Text("Logout").
					OnClick(func(ctx app.Context, e app.Event) {
						sess.Logout()
						ctx.Navigate("/login")
					}),
			),
		),
	)
}
