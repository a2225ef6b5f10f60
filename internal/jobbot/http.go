package jobbot

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jobbot/internal/metrics"
	"jobbot/internal/observability"
)

const requestIDHeader = "X-Request-ID"

// newMux подключает webhook только в режиме webhook: при polling маршрута нет.
func newMux(webhook http.Handler, collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()
	if webhook != nil {
		mux.Handle("/telegram/webhook", webhook)
	}
	mux.Handle("/metrics", metrics.NewHandler(collector))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// requestID берет идентификатор из заголовка, если он короткий и печатный.
func requestID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(requestIDHeader))
	if id == "" || len(id) > 64 || strings.ContainsFunc(id, func(c rune) bool { return c < '!' || c > '~' }) {
		return observability.NewRequestID()
	}
	return id
}

type responseStatus struct {
	http.ResponseWriter
	code int
}

func (s *responseStatus) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument присваивает запросу request id, считает запросы и ответы 5xx.
func instrument(logger *slog.Logger, collector *metrics.Collector, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestID(r)
		w.Header().Set(requestIDHeader, id)
		status := &responseStatus{ResponseWriter: w, code: http.StatusOK}
		started := time.Now()

		collector.IncRequests()
		next.ServeHTTP(status, r.WithContext(observability.WithRequestID(r.Context(), id)))
		if status.code >= http.StatusInternalServerError {
			collector.IncErrors()
		}
		logger.Debug("http request",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status.code),
			slog.Duration("took", time.Since(started)),
		)
	})
}
