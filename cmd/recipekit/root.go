package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/recipekit/codec"
	"github.com/rushteam/recipekit/config"
	"github.com/rushteam/recipekit/engine"
	"github.com/rushteam/recipekit/metrics"
	"github.com/rushteam/recipekit/pkg/logging"
	"github.com/rushteam/recipekit/rank"
	"github.com/rushteam/recipekit/store"
)

var version = "dev"

// app 是各子命令共享的运行状态，在 PersistentPreRunE 中填充。
type app struct {
	runtimeFile string
	engineFile  string
	workers     int
	topN        int
	logLevel    string

	rt *config.Runtime
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "recipekit",
		Short: "Classify recipes and build seasonal rankings",
		Long: `recipekit classifies recipes into main / dessert / beverage from their
nutrition profile and text, then ranks them per season with a Bayesian
quality score weighted by popularity.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.rt == nil || a.rt.MetricsFile == "" {
				return nil
			}
			if err := metrics.WriteToTextfile(a.rt.MetricsFile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.runtimeFile, "config", "", "runtime config file (YAML); RECIPEKIT_* env overrides it")
	f.StringVar(&a.engineFile, "engine", "", "engine config file (YAML), defaults to built-in values")
	f.IntVar(&a.workers, "workers", 0, "concurrency limit (overrides runtime config)")
	f.IntVar(&a.topN, "top", 0, "entries kept per category and season (overrides engine config)")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newClassifyCommand(a))
	cmd.AddCommand(newRankCommand(a))
	cmd.AddCommand(newRunCommand(a))
	cmd.AddCommand(newConfigCommand(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	rt, err := config.LoadRuntime(a.runtimeFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		rt.Workers = a.workers
	}
	if cmd.Flags().Changed("top") {
		rt.TopN = a.topN
	}
	if a.engineFile != "" {
		rt.EngineFile = a.engineFile
	}
	if a.logLevel != "" {
		rt.Log.Level = a.logLevel
	}
	rt.Log.Output = cmd.ErrOrStderr()
	logging.Init(rt.Log)
	a.rt = rt
	return nil
}

func (a *app) engineConfig() (*config.Engine, error) {
	cfg, err := config.LoadEngine(a.rt.EngineFile)
	if err != nil {
		return nil, err
	}
	if a.rt.TopN > 0 {
		cfg.Rank.TopN = a.rt.TopN
	}
	if a.rt.Workers > 0 && cfg.Rank.Workers == 0 {
		cfg.Rank.Workers = a.rt.Workers
	}
	return cfg, nil
}

// newEngine 构建引擎；配置了 Redis 地址时排名结果会发布过去，返回的 close 用于释放连接。
func (a *app) newEngine(ctx context.Context) (*engine.Engine, func(), error) {
	cfg, err := a.engineConfig()
	if err != nil {
		return nil, nil, err
	}
	opts := []engine.Option{engine.WithWorkers(a.rt.Workers)}
	closeFn := func() {}
	if a.rt.Redis.Addr != "" {
		rs, err := store.NewRedisStore(ctx, a.rt.Redis.Addr, a.rt.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, engine.WithPublisher(rank.NewPublisher(rs)))
		closeFn = func() {
			if err := rs.Close(); err != nil {
				logging.Warn().Err(err).Msg("close redis")
			}
		}
	}
	e, err := engine.New(cfg, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return e, closeFn, nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func readWith[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	r, err := openInput(path)
	if err != nil {
		return zero, err
	}
	defer r.Close()
	v, err := read(r)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// writeOutput 写到 --out 指定的文件，未指定时写到命令的 stdout。
func writeOutput(cmd *cobra.Command, path string, v any) error {
	if path == "" || path == "-" {
		return codec.Write(cmd.OutOrStdout(), v)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := codec.Write(f, v); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
