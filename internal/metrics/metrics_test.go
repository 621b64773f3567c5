package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_RegistersMetrics はメトリクスがレジストリに登録されることを検証する。
func TestNewCollector_RegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordDetectionCommit(true)
	c.RecordDetectionCommit(false)
	c.RecordComparison()
	c.RecordDiaryDeletion()
	c.RecordHTTPStatus(200)
	c.RecordRequestLatency(50 * time.Millisecond)
	c.RecordUploadsPurged(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}

	found := make(map[string]bool)
	for _, f := range families {
		found[f.GetName()] = true
	}

	want := []string{
		"skintrack_login_total",
		"skintrack_detection_commit_total",
		"skintrack_comparison_total",
		"skintrack_diary_deleted_total",
		"skintrack_http_status_total",
		"skintrack_request_latency_seconds",
		"skintrack_uploads_purged_total",
	}
	for _, name := range want {
		if !found[name] {
			t.Errorf("metric %s not registered", name)
		}
	}
}

// TestCollector_DuplicateRegistrationPanics は同一レジストリへの二重登録がpanicすることを検証する。
func TestCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewCollector(reg)
}

// TestHandler_ServesPrometheusFormat は/metricsエンドポイントの出力形式を検証する。
func TestHandler_ServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin(true)

	h := SetupMetricsRoute(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "skintrack_login_total") {
		t.Errorf("response does not contain skintrack_login_total:\n%s", body)
	}
	if !strings.Contains(body, `identity="new"`) {
		t.Errorf("response does not contain identity label:\n%s", body)
	}
}
