package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetrics_Recorders(t *testing.T) {
	m := New()

	m.RecordCatalogLoad("mygoapi", 42, nil)
	m.RecordCatalogLoad("mygoapi", 0, errors.New("boom"))
	m.RecordLookup(true)
	m.RecordLookup(false)
	m.RecordReconciliation("")
	m.RecordLLMRequest("gemini", 10*time.Millisecond, nil)
	m.RecordHTTPRequest("GET", "/api/meme", "200", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	for _, want := range []string{
		"mygomeme_catalog_entries 42",
		`mygomeme_catalog_loads_total{source="mygoapi",status="error"} 1`,
		`mygomeme_lookups_total{result="hit"} 1`,
		`mygomeme_lookups_total{result="miss"} 1`,
		`mygomeme_reconciliations_total{strategy="none"} 1`,
		`mygomeme_llm_requests_total{provider="gemini",status="ok"} 1`,
		`mygomeme_http_requests_total{method="GET",route="/api/meme",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordLookup(true)
	m.RecordCatalogLoad("x", 1, nil)
	m.RecordLLMRequest("x", time.Second, nil)
	m.RecordReconciliation("exact")
	m.RecordHTTPRequest("GET", "/", "200", time.Second)
}

func TestNew_Independent(t *testing.T) {
	// Two instances must not panic on duplicate registration.
	New()
	New()
}
