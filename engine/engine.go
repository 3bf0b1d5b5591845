// Package engine 把分类 Pipeline、季节排名与结果发布串成一次批处理运行。
package engine

import (
	"context"
	"time"

	"github.com/rushteam/recipekit/config"
	_ "github.com/rushteam/recipekit/config/builders"
	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/feature"
	"github.com/rushteam/recipekit/metrics"
	"github.com/rushteam/recipekit/pipeline"
	"github.com/rushteam/recipekit/pkg/logging"
	"github.com/rushteam/recipekit/rank"
)

// Engine 持有构建好的 Pipeline 与 Ranker，构造后只读，可复用于多次运行。
type Engine struct {
	cfg       *config.Engine
	pipeline  *pipeline.Pipeline
	ranker    *rank.Ranker
	workers   int
	publisher *rank.Publisher
}

type Option func(*Engine)

// WithWorkers 设置 Node 内部的并发上限，<= 0 表示不限制。
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithPublisher 在排名后把结果写入存储。
func WithPublisher(p *rank.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// New 校验配置并构建各组件；任何缺失或非法配置都返回 ConfigurationError。
func New(cfg *config.Engine, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := cfg.Pipeline.BuildPipeline(config.DefaultFactory())
	if err != nil {
		return nil, err
	}
	p.Hooks = append(p.Hooks, observeNode)

	r, err := rank.NewRanker(cfg.Rank)
	if err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, pipeline: p, ranker: r}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func observeNode(node pipeline.Node, in, out int, elapsed time.Duration, err error) {
	metrics.NodeDuration.WithLabelValues(node.Name()).Observe(elapsed.Seconds())
	ev := logging.Debug()
	if err != nil {
		metrics.NodeErrors.WithLabelValues(node.Name()).Inc()
		ev = logging.Error().Err(err)
	}
	ev.Str("node", node.Name()).
		Str("kind", string(node.Kind())).
		Int("in", in).
		Int("out", out).
		Dur("elapsed", elapsed).
		Msg("node finished")
}

// ensureRunID 保证 ctx 里有 run id，日志据此串联一次运行。
func ensureRunID(ctx context.Context) (context.Context, string) {
	if id := logging.RunIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := logging.NewRunID()
	return logging.ContextWithRunID(ctx, id), id
}

// Classify 为每个菜谱产出一个 ClassificationResult，顺序与输入一致。
func (e *Engine) Classify(ctx context.Context, recipes []core.Recipe) ([]core.ClassificationResult, error) {
	ctx, runID := ensureRunID(ctx)
	defer metrics.ObserveStage("classify", time.Now())

	rctx := core.NewRunContext(runID, e.workers)
	items := make([]*core.Item, len(recipes))
	for i, r := range recipes {
		items[i] = core.NewItem(r)
	}

	out, err := e.pipeline.Run(ctx, rctx, items)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("classification failed")
		return nil, err
	}

	results := make([]core.ClassificationResult, 0, len(out))
	for _, it := range out {
		if it.Result == nil {
			return nil, core.NewConfigError(core.ModuleConfig, "",
				"pipeline %q produced no result for recipe %d", e.cfg.Pipeline.Name, it.Recipe.ID)
		}
		results = append(results, *it.Result)
	}

	summary := observeResults(results)
	sanitized := rctx.Count(feature.LabelSanitized)
	metrics.SanitizedRecipes.Add(float64(sanitized))

	logging.Ctx(ctx).Info().
		Int("recipes", len(results)).
		Int("main", summary[core.CategoryMain]).
		Int("dessert", summary[core.CategoryDessert]).
		Int("beverage", summary[core.CategoryBeverage]).
		Int("sanitized", sanitized).
		Msg("classification done")
	return results, nil
}

func observeResults(results []core.ClassificationResult) map[core.Category]int {
	counts := make(map[core.Category]int, core.NumCategories)
	for _, r := range results {
		counts[r.Category]++
		metrics.RecipesClassified.WithLabelValues(string(r.Category), string(r.Decision)).Inc()
		metrics.ClassificationConfidence.Observe(r.Confidence)
		if r.ExceptionHit {
			metrics.ExceptionHits.WithLabelValues(r.Exception).Inc()
		}
	}
	return counts
}

// Rank 计算季节排名；配置了 Publisher 时随后发布。
func (e *Engine) Rank(ctx context.Context, results []core.ClassificationResult, interactions []core.Interaction) (*rank.Report, error) {
	ctx, _ = ensureRunID(ctx)
	start := time.Now()

	rep, err := e.ranker.Rank(ctx, results, interactions)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("ranking failed")
		return nil, err
	}
	metrics.ObserveStage("rank", start)
	observeReport(rep)

	log := logging.Ctx(ctx)
	for _, s := range rep.Skipped {
		log.Warn().
			Str("category", string(s.Category)).
			Str("season", string(s.Season)).
			Msg("no valid ratings for category, group skipped")
	}
	log.Info().
		Int("interactions", rep.Stats.Interactions).
		Int("used", rep.Stats.Used).
		Int("skipped_unclassified", rep.Stats.SkippedUnclassified).
		Int("skipped_no_season", rep.Stats.SkippedNoSeason).
		Int("groups", len(rep.Groups)).
		Int("entries", len(rep.Entries())).
		Msg("ranking done")

	if e.publisher != nil {
		start := time.Now()
		if err := e.publisher.Publish(ctx, rep); err != nil {
			log.Error().Err(err).Str("store", e.publisher.Store.Name()).Msg("publish failed")
			return nil, err
		}
		metrics.ObserveStage("publish", start)
		log.Info().Str("store", e.publisher.Store.Name()).Msg("rankings published")
	}
	return rep, nil
}

// Enrich 计算每个菜谱跨季节的评分汇总与贝叶斯均分。
func (e *Engine) Enrich(ctx context.Context, results []core.ClassificationResult, interactions []core.Interaction) ([]rank.Enrichment, error) {
	ctx, _ = ensureRunID(ctx)
	start := time.Now()

	out, err := e.ranker.Enrich(results, interactions)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("enrichment failed")
		return nil, err
	}
	metrics.ObserveStage("enrich", start)
	logging.Ctx(ctx).Info().Int("recipes", len(out)).Msg("enrichment done")
	return out, nil
}

func observeReport(rep *rank.Report) {
	metrics.InteractionsSkipped.WithLabelValues("unclassified").Add(float64(rep.Stats.SkippedUnclassified))
	metrics.InteractionsSkipped.WithLabelValues("no_season").Add(float64(rep.Stats.SkippedNoSeason))
	for _, bl := range rep.Baselines.All() {
		metrics.SeasonAverage.WithLabelValues(string(bl.Category), string(bl.Season), string(bl.Source)).Set(bl.SeasonAvg)
	}
	for _, g := range rep.Groups {
		metrics.RankingEntries.WithLabelValues(string(g.Category), string(g.Season)).Set(float64(len(g.Entries)))
	}
}

// Output 是一次完整运行的结果。
type Output struct {
	RunID   string                      `json:"run_id"`
	Results []core.ClassificationResult `json:"results"`
	Report  *rank.Report                `json:"report"`
}

// Run 依次执行分类与排名，两个阶段共用同一个 run id。
func (e *Engine) Run(ctx context.Context, recipes []core.Recipe, interactions []core.Interaction) (*Output, error) {
	ctx, runID := ensureRunID(ctx)
	results, err := e.Classify(ctx, recipes)
	if err != nil {
		return nil, err
	}
	rep, err := e.Rank(ctx, results, interactions)
	if err != nil {
		return nil, err
	}
	return &Output{RunID: runID, Results: results, Report: rep}, nil
}
