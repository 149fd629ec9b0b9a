package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMemberRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/lifecycle", handler.GetLifecycle)
	mux.HandleFunc("GET /v1/schedule", handler.GetSchedule)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}/stats", handler.GetPlayerStats)

	mux.Handle("POST /v1/players/{playerID}/motm", RequireUser(http.HandlerFunc(handler.NominateMOTM)))
	mux.Handle("POST /v1/players/{playerID}/kudos", RequireUser(http.HandlerFunc(handler.GiveKudos)))
	mux.Handle("POST /v1/submissions", RequireUser(http.HandlerFunc(handler.CreateSubmission)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("PUT /v1/schedule", RequireAdmin(http.HandlerFunc(handler.PutSchedule)))
	mux.Handle("PUT /v1/players/{playerID}/stats", RequireAdmin(http.HandlerFunc(handler.PutPlayerStats)))
	mux.Handle("POST /v1/players/{playerID}/attendance", RequireAdmin(http.HandlerFunc(handler.PostAttendance)))
	mux.Handle("GET /v1/submissions/pending", RequireAdmin(http.HandlerFunc(handler.ListPendingSubmissions)))
	mux.Handle("POST /v1/submissions/{submissionID}/approve", RequireAdmin(http.HandlerFunc(handler.ApproveSubmission)))
	mux.Handle("POST /v1/submissions/{submissionID}/reject", RequireAdmin(http.HandlerFunc(handler.RejectSubmission)))
}
