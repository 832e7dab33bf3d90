package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", app.queryHandler)
	mux.HandleFunc("/edit", app.editHandler)
	mux.HandleFunc("/records", app.listRecordsHandler)
	mux.HandleFunc("/records/", app.recordHandler)
	mux.HandleFunc("/import", app.importHandler)
	mux.HandleFunc("/export", app.exportHandler)
	mux.HandleFunc("/history", app.historyHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/debug/metrics", app.metricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	return WithRequestID(WithLogging(mux))
}
