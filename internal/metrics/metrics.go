// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層やワーカーから利用する。
type MetricsCollector interface {
	RecordLogin(isNewIdentity bool)
	RecordDetectionCommit(applied bool)
	RecordComparison()
	RecordDiaryDeletion()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordUploadsPurged(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginTotal      *prometheus.CounterVec
	commitTotal     *prometheus.CounterVec
	comparisonTotal prometheus.Counter
	diaryDeleted    prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	uploadsPurged   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skintrack_login_total",
			Help: "ログインの合計数（新規/既存別）",
		}, []string{"identity"}),
		commitTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skintrack_detection_commit_total",
			Help: "検出コミットの合計数（適用/重複別）",
		}, []string{"result"}),
		comparisonTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skintrack_comparison_total",
			Help: "期間比較リクエストの合計数",
		}),
		diaryDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skintrack_diary_deleted_total",
			Help: "削除された日記の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skintrack_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skintrack_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		uploadsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skintrack_uploads_purged_total",
			Help: "クリーンアップで削除されたアップロード予約の合計数",
		}),
	}

	reg.MustRegister(
		c.loginTotal,
		c.commitTotal,
		c.comparisonTotal,
		c.diaryDeleted,
		c.httpStatus,
		c.requestLatency,
		c.uploadsPurged,
	)

	return c
}

// RecordLogin はログインを記録する。
func (c *Collector) RecordLogin(isNewIdentity bool) {
	identity := "existing"
	if isNewIdentity {
		identity = "new"
	}
	c.loginTotal.WithLabelValues(identity).Inc()
}

// RecordDetectionCommit は検出コミットを記録する。
func (c *Collector) RecordDetectionCommit(applied bool) {
	result := "duplicate"
	if applied {
		result = "applied"
	}
	c.commitTotal.WithLabelValues(result).Inc()
}

// RecordComparison は期間比較リクエストを記録する。
func (c *Collector) RecordComparison() {
	c.comparisonTotal.Inc()
}

// RecordDiaryDeletion は日記削除を記録する。
func (c *Collector) RecordDiaryDeletion() {
	c.diaryDeleted.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordUploadsPurged はクリーンアップで削除されたアップロード予約数を記録する。
func (c *Collector) RecordUploadsPurged(count int) {
	c.uploadsPurged.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
