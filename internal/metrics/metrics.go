package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

type Collector struct {
	requests         uint64
	errors           uint64
	updates          uint64
	updateFailures   uint64
	registrations    uint64
	vacanciesCreated uint64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests() {
	atomic.AddUint64(&c.requests, 1)
}

func (c *Collector) IncErrors() {
	atomic.AddUint64(&c.errors, 1)
}

func (c *Collector) IncUpdates() {
	atomic.AddUint64(&c.updates, 1)
}

func (c *Collector) IncUpdateFailures() {
	atomic.AddUint64(&c.updateFailures, 1)
}

func (c *Collector) IncRegistrations() {
	atomic.AddUint64(&c.registrations, 1)
}

func (c *Collector) IncVacanciesCreated() {
	atomic.AddUint64(&c.vacanciesCreated, 1)
}

type Snapshot struct {
	Requests         uint64
	Errors           uint64
	Updates          uint64
	UpdateFailures   uint64
	Registrations    uint64
	VacanciesCreated uint64
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Requests:         atomic.LoadUint64(&c.requests),
		Errors:           atomic.LoadUint64(&c.errors),
		Updates:          atomic.LoadUint64(&c.updates),
		UpdateFailures:   atomic.LoadUint64(&c.updateFailures),
		Registrations:    atomic.LoadUint64(&c.registrations),
		VacanciesCreated: atomic.LoadUint64(&c.vacanciesCreated),
	}
}

type Handler struct {
	collector *Collector
}

func NewHandler(collector *Collector) *Handler {
	return &Handler{collector: collector}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	var snap Snapshot
	if h.collector != nil {
		snap = h.collector.Snapshot()
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	writeCounter(w, "jobbot_http_requests_total", "Total number of HTTP requests.", snap.Requests)
	writeCounter(w, "jobbot_http_errors_total", "Total number of 5xx HTTP responses.", snap.Errors)
	writeCounter(w, "jobbot_updates_total", "Total number of Telegram updates handled.", snap.Updates)
	writeCounter(w, "jobbot_update_failures_total", "Total number of Telegram updates that failed.", snap.UpdateFailures)
	writeCounter(w, "jobbot_registrations_total", "Total number of completed registrations.", snap.Registrations)
	writeCounter(w, "jobbot_vacancies_created_total", "Total number of published vacancies.", snap.VacanciesCreated)
}

func writeCounter(w http.ResponseWriter, name, help string, value uint64) {
	_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	_, _ = fmt.Fprintf(w, "# TYPE %s counter\n", name)
	_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
}
