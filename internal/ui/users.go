package ui

import (
	"context"
	"strconv"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/policy"
)

// UsersPage is the admin-only account directory.
type UsersPage struct {
	app.Compo

	user    model.User
	users   []model.User
	loading bool
	errMsg  string
	ready   bool
}

func (p *UsersPage) OnNav(ctx app.Context) {
	p.loading = true
	requireRole(ctx, policy.CanManageUsers, func(u model.User) {
		p.user = u
		p.ready = true
		p.fetch(ctx)
	})
}

func (p *UsersPage) fetch(ctx app.Context) {
	ctx.Async(func() {
		users, err := backend.Users(context.Background())
		ctx.Dispatch(func(ctx app.Context) {
			p.loading = false
			if err != nil {
				p.errMsg = "Failed to fetch users"
				app.Log("error fetching users:", err)
				return
			}
			p.users = users
		})
	})
}

func (p *UsersPage) Render() app.UI {
	if !p.ready {
		return loadingView("Loading...")
	}
	return shell(p.user, "/users",
		app.Div().Class("page-header").Body(
			app.H2().Text("Users"),
			app.P().Class("page-subtitle").Text("Everyone with an account on this helpdesk"),
		),
		app.If(p.errMsg != "", func() app.UI {
			return errorBanner(p.errMsg)
		}),
		app.If(p.loading, func() app.UI {
			return loadingView("Loading users...")
		}).Else(func() app.UI {
			return p.directory()
		}),
	)
}

func (p *UsersPage) directory() app.UI {
	counts := map[model.Role]int{}
	for _, u := range p.users {
		counts[u.Role]++
	}
	return app.Div().Body(
		app.Div().Class("stats-grid").Body(
			statCard("Total", strconv.Itoa(len(p.users)), ""),
			statCard("Admins", strconv.Itoa(counts[model.RoleAdmin]), ""),
			statCard("Agents", strconv.Itoa(counts[model.RoleAgent]), ""),
			statCard("End Users", strconv.Itoa(counts[model.RoleUser]), ""),
		),
		app.Div().Class("user-grid").Body(
			app.Range(p.users).Slice(func(i int) app.UI {
				return userCard(p.users[i])
			}),
		),
	)
}

func userCard(u model.User) app.UI {
	return app.Div().Class("card user-card").Body(
		app.Div().Class("user-card-header").Body(
			app.Div().Class("user-avatar").Text(initials(u.Name)),
			app.Div().Body(
				app.Div().Class("user-name").Text(u.Name),
				app.Div().Class("user-email").Text(u.Email),
			),
		),
		app.Div().Class("user-card-meta").Body(
			app.Span().Class("role-badge role-"+string(u.Role)).Text(titleize(string(u.Role))),
			app.If(u.IsActive, func() app.UI {
				return app.Span().Class("active-dot").Text("Active")
			}).Else(func() app.UI {
				return app.Span().Class("inactive-dot").Text("Inactive")
			}),
			app.Span().Class("user-since").Text("Joined "+formatDate(u.CreatedAt)),
		),
	)
}
