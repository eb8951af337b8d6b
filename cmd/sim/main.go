package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"round-trader/config"
	"round-trader/infrastructure/logger"
	"round-trader/metrics"
	"round-trader/sim"
)

// 本地合成行情模拟：随机游走生成盘口，驱动决策核心与模拟撮合。
// 不连接任何外部撮合方，仅用于调参与演示。
func main() {
	cfgPath := flag.String("config", "configs/round.yaml", "配置文件路径")
	envFile := flag.String("env", ".env", "环境变量文件，不存在则忽略")
	rounds := flag.Int("rounds", 0, "覆盖 sim.rounds（0 表示使用配置）")
	seed := flag.Int64("seed", 0, "覆盖 sim.seed（0 表示使用配置）")
	out := flag.String("out", "", "回合日志输出文件，为空则不写")
	flag.Parse()

	_ = godotenv.Load(*envFile)
	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if *rounds > 0 {
		cfg.Sim.Rounds = *rounds
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if len(cfg.Sim.Symbols) == 0 {
		log.Fatal("sim.symbols 为空，无法生成合成行情")
	}
	lg, err := logger.New(logger.FromConfig(cfg.Log))
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	opt := sim.Options{Simulate: true, Log: lg, Metrics: metrics.New(metrics.DefaultConfig())}
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("创建回合日志失败: %v", err)
		}
		defer f.Close()
		opt.RoundLog = f
	}
	runner, err := sim.BuildRunner(cfg, opt)
	if err != nil {
		log.Fatalf("组装 runner 失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	lg.Info("sim start", zap.Int("rounds", cfg.Sim.Rounds), zap.Int64("seed", cfg.Sim.Seed), zap.Int("strategies", len(runner.Trader().Strategies())))
	sum, err := runner.Run(ctx, sim.NewSynthetic(cfg.Sim))
	if err != nil {
		lg.LogError(err, map[string]interface{}{"stage": "run"})
	}

	p := sum.PnL
	fmt.Printf("rounds=%d orders=%d rejected=%d canceled=%d fills=%d volume=%d\n",
		sum.Rounds, sum.Orders, sum.Rejected, sum.Canceled, p.TotalFills, p.Volume)
	fmt.Printf("cash=%s equity=%s maxDD=%s adverse=%.2f markout1=%.2f markout5=%.2f\n",
		p.Cash.StringFixed(1), p.Equity.StringFixed(1), p.MaxDrawdown.StringFixed(1),
		p.AdverseSelectionRate, p.AvgMarkout1, p.AvgMarkout5)
	syms := make([]string, 0, len(p.Positions))
	for s := range p.Positions {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	for _, s := range syms {
		fmt.Printf("  %-14s %6d\n", s, p.Positions[s])
	}
}
