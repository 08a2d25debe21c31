package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/condyapp/portal/internal/model"
	"github.com/condyapp/portal/internal/ui"
)

// NewRouter builds the chi router with all routes and middleware.
func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(h.slogRequestLogger)
	r.Use(h.withSession)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Page routes. The shell is a single page application; role areas are
	// gated server-side so a wrong-role visitor never loads the shell.
	shell := ui.Handler()
	r.Get("/", shell.ServeHTTP)
	r.Get("/login", shell.ServeHTTP)
	r.Get("/cadastro", shell.ServeHTTP)

	r.Route("/admin", func(pr chi.Router) {
		pr.Use(h.pageGate(func(t model.UserType) bool { return t == model.UserTypeAdminPlataforma }))
		pr.Get("/", shell.ServeHTTP)
		pr.Get("/*", shell.ServeHTTP)
	})
	r.Route("/sindico", func(pr chi.Router) {
		pr.Use(h.pageGate(func(t model.UserType) bool { return t.IsSindico() }))
		pr.Get("/", shell.ServeHTTP)
		pr.Get("/*", shell.ServeHTTP)
	})
	r.Route("/prestador", func(pr chi.Router) {
		pr.Use(h.pageGate(func(t model.UserType) bool { return t == model.UserTypePrestador }))
		pr.Get("/", shell.ServeHTTP)
		pr.Get("/*", shell.ServeHTTP)
	})

	r.Route("/api", func(api chi.Router) {
		// Public JSON routes.
		api.Post("/login", h.handleLogin)
		api.Post("/logout", h.handleLogout)
		api.Get("/session", h.handleSession)
		api.Get("/check-email", h.handleCheckEmail)
		api.Get("/check-cpf", h.handleCheckCPF)

		// Authenticated JSON routes.
		api.Group(func(ar chi.Router) {
			ar.Use(h.requireSession)

			ar.Get("/chamados", h.handleListTickets)
			ar.Post("/chamados", h.handleCreateTicket)
			ar.Get("/chamados/{id}", h.handleGetTicket)
			ar.Put("/chamados/{id}", h.handleUpdateTicket)
			ar.Put("/chamados/{id}/status", h.handleUpdateTicketStatus)
			ar.Post("/chamados/{id}/prestador", h.handleAssignProvider)
			ar.Post("/chamados/{id}/alocar", h.handleAllocateProvider)

			ar.Get("/propostas", h.handleListProposals)
			ar.Post("/propostas", h.handleSendProposal)
			ar.Post("/propostas/{id}/aceitar", h.handleAcceptProposal)
			ar.Post("/propostas/{id}/recusar", h.handleRejectProposal)
			ar.Post("/propostas/{id}/contraproposta", h.handleDecideCounterProposal)

			ar.Get("/imoveis", h.handleListProperties)
			ar.Get("/imoveis/{id}", h.handleGetProperty)
			ar.Get("/imoveis/{id}/ativos", h.handleListAssets)
			ar.Get("/prestadores", h.handleListProviders)

			ar.Post("/upload", h.handleUpload)

			// Admin JSON routes.
			ar.Route("/admin", func(adm chi.Router) {
				adm.Use(h.requireRole(func(t model.UserType) bool { return t == model.UserTypeAdminPlataforma }))

				adm.Get("/usuarios", h.handleListUsers)
				adm.Post("/usuarios", h.handleCreateUser)
				adm.Get("/usuarios/{id}", h.handleGetUser)
				adm.Put("/usuarios/{id}", h.handleUpdateUser)
				adm.Put("/usuarios/{id}/status", h.handleUpdateUserStatus)
				adm.Delete("/usuarios/{id}", h.handleDeleteUser)

				adm.Get("/status", h.handleAdminStatus)
				adm.Get("/audit", h.handleAdminAudit)
				adm.Get("/logs", h.handleAdminLogs)
				adm.Get("/stats", h.handleAdminStats)
			})
		})
	})

	return r
}
