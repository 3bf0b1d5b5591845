// Package metrics 定义批处理运行的 Prometheus 指标。
//
// recipekit 是批处理工具，没有常驻 HTTP 端口；指标注册在独立的 Registry 上，
// 每次运行结束后由 WriteToTextfile 写成 node-exporter textfile。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry 是本进程全部指标所在的注册表。
var Registry = prometheus.NewRegistry()

var (
	// 分类
	RecipesClassified = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipekit_recipes_classified_total",
			Help: "Recipes classified, by final category and arbiter decision",
		},
		[]string{"category", "decision"},
	)

	ClassificationConfidence = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipekit_classification_confidence",
			Help:    "Final arbiter confidence (0-100)",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ExceptionHits = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipekit_exception_hits_total",
			Help: "Forced classifications, by override name",
		},
		[]string{"exception"},
	)

	SanitizedRecipes = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "recipekit_sanitized_recipes_total",
			Help: "Recipes whose nutrition had fields zeroed before extraction",
		},
	)

	// Pipeline 各节点
	NodeDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipekit_node_duration_seconds",
			Help:    "Pipeline node duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"node"},
	)

	NodeErrors = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipekit_node_errors_total",
			Help: "Pipeline node failures",
		},
		[]string{"node"},
	)

	// 排名
	InteractionsSkipped = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipekit_interactions_skipped_total",
			Help: "Interactions left out of ranking, by reason",
		},
		[]string{"reason"}, // "unclassified", "no_season"
	)

	SeasonAverage = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipekit_season_average_rating",
			Help: "Seasonal baseline rating per category and season",
		},
		[]string{"category", "season", "source"},
	)

	RankingEntries = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipekit_ranking_entries",
			Help: "Published ranking entries per category and season",
		},
		[]string{"category", "season"},
	)

	StageDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipekit_stage_duration_seconds",
			Help:    "Duration of pipeline stages (classify, rank, enrich, publish) in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"stage"},
	)

	LastRunTimestamp = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "recipekit_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		},
	)
)

// ObserveStage 记录一个阶段的耗时，用法：defer metrics.ObserveStage("rank", time.Now())
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteToTextfile 以 textfile collector 格式写出全部指标，并刷新 LastRunTimestamp。
func WriteToTextfile(path string) error {
	LastRunTimestamp.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, Registry)
}
