package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"round-trader/config"
	"round-trader/infrastructure/logger"
	"round-trader/metrics"
	"round-trader/sim"
	"round-trader/strategy"
)

// 从 stdin 逐行读取模拟器快照，每轮向 stdout 输出一行回合日志（含本轮订单）。
// 进程日志走 stderr；配置文件变更后在两轮之间热加载。
//
//	go run ./cmd/trader -config configs/round.yaml < rounds.jsonl > rounds.log
func main() {
	cfgPath := flag.String("config", "configs/round.yaml", "配置文件路径")
	envFile := flag.String("env", ".env", "环境变量文件，不存在则忽略")
	watch := flag.Bool("watch", true, "监听配置文件变更并热加载")
	flag.Parse()

	_ = godotenv.Load(*envFile)

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	lg, err := logger.New(logger.FromConfig(cfg.Log))
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	rec := metrics.New(metrics.DefaultConfig())
	runner, err := sim.BuildRunner(cfg, sim.Options{Metrics: rec, Log: lg, RoundLog: os.Stdout})
	if err != nil {
		lg.Fatal("初始化决策核心失败", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			lg.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
			return metrics.StartMetricsServer(ctx, cfg.Metrics.Addr, rec.Handler())
		})
	}
	if *watch {
		w := config.Watcher{Path: *cfgPath, Cooldown: time.Second}
		g.Go(func() error {
			err := w.Start(ctx, func(next config.AppConfig) {
				t, err := strategy.NewTraderFromConfig(next)
				if err != nil {
					lg.LogError(err, map[string]interface{}{"stage": "reload"})
					return
				}
				runner.SetTrader(t)
				lg.Info("config reloaded", zap.Int("strategies", len(next.Strategies)))
			}, func(err error) {
				lg.LogError(err, map[string]interface{}{"stage": "watch"})
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		defer cancel() // stdin 读完后停止其余 goroutine
		sum, err := runner.Run(ctx, sim.NewFeed(os.Stdin))
		lg.Info("session finished",
			zap.Int("rounds", sum.Rounds),
			zap.Int("orders", sum.Orders),
			zap.Int("rejected", sum.Rejected),
		)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		lg.Warn("sd_notify failed", zap.Error(err))
	} else if ok {
		lg.Debug("sd_notify ready sent")
	}

	if err := g.Wait(); err != nil {
		lg.Error("trader stopped with error", zap.Error(err))
		_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
		_ = lg.Close()
		os.Exit(1)
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
}
