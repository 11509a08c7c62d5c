// The wasm client binary. All components live in internal/ui so the
// serving binary can register the same routes for prerendering.
package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/helpdeskmini/webclient/internal/ui"
)

func main() {
	ui.RegisterRoutes()
	app.RunWhenOnBrowser()
}
