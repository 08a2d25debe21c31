// Package ui embeds the portal's single-page shell. The shell talks to
// the JSON routes under /api and renders the role dashboards client-side.
package ui

import (
	"embed"
	"net/http"
	"os"
)

//go:embed index.html
var content embed.FS

// Handler returns an http.Handler that serves the portal shell.
// If CONDY_DEV=1 is set, it reads index.html from disk on each request
// for live reloading. Otherwise it serves the embedded copy.
func Handler() http.Handler {
	if os.Getenv("CONDY_DEV") == "1" {
		return serveShell(func() ([]byte, error) {
			return os.ReadFile("internal/ui/index.html")
		}, "no-cache")
	}
	return serveShell(func() ([]byte, error) {
		return content.ReadFile("index.html")
	}, "")
}

func serveShell(read func() ([]byte, error), cacheControl string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := read()
		if err != nil {
			http.Error(w, "shell indisponível: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Language", "pt-BR")
		if cacheControl != "" {
			w.Header().Set("Cache-Control", cacheControl)
		}
		w.Write(data)
	})
}
