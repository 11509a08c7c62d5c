package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"
)

// newAPIProxy forwards /api/* to the real helpdesk backend, path kept
// as-is since the backend also mounts under /api. The browser only ever
// talks to its own origin, so the backend needs no CORS allowance for us.
func newAPIProxy(target string, logger *zap.Logger) (http.Handler, error) {
	base, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(base)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("api proxy error",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"message":"Backend unavailable"}`))
		},
	}
	return proxy, nil
}
