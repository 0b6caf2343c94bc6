package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/auth/logout", handler.Logout)
	mux.HandleFunc("GET /v1/weeks", handler.ListWeeks)
	mux.HandleFunc("GET /v1/weeks/current", handler.GetCurrentWeek)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))
	mux.Handle("GET /v1/weeks/{week}/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListWeekMatches)))
	mux.Handle("GET /v1/picks", RequireAuth(verifier, http.HandlerFunc(handler.ListPicks)))
	mux.Handle("POST /v1/picks", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPick)))
	mux.Handle("GET /v1/dashboard", RequireAuth(verifier, http.HandlerFunc(handler.GetDashboard)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireAdmin(h))
	}

	mux.Handle("GET /v1/admin/matches/pending", admin(handler.ListPendingMatches))
	mux.Handle("POST /v1/admin/matches/{matchID}/result", admin(handler.SetMatchResult))
	mux.Handle("GET /v1/admin/ledger/audit", admin(handler.GetLedgerAudit))
}
