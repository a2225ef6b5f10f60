package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCounters(t *testing.T) {
	collector := NewCollector()
	collector.IncRequests()
	collector.IncUpdates()
	collector.IncUpdates()
	collector.IncVacanciesCreated()

	rec := httptest.NewRecorder()
	NewHandler(collector).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"jobbot_http_requests_total 1",
		"jobbot_updates_total 2",
		"jobbot_vacancies_created_total 1",
		"jobbot_registrations_total 0",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, body)
		}
	}
}
