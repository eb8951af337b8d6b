package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"round-trader/config"
	"round-trader/infrastructure/logger"
	"round-trader/metrics"
	"round-trader/sim"
)

// 并发回放多段录制的行情（快照 JSON lines 或回合日志），使用模拟撮合推进仓位。
// 用法：
//
//	go run ./cmd/replay -config configs/round.yaml -workers 4 -out summary.csv data/day1.jsonl data/day2.jsonl
func main() {
	cfgPath := flag.String("config", "configs/round.yaml", "配置文件路径")
	envFile := flag.String("env", ".env", "环境变量文件，不存在则忽略")
	workers := flag.Int("workers", 4, "并发回放的会话数")
	logDir := flag.String("logDir", "", "若指定则为每段会话写入回合日志")
	outPath := flag.String("out", "", "若指定则写入 CSV 汇总")
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

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("未指定任何行情文件")
	}
	var sessions []sim.Session
	var (
		mu      sync.Mutex
		closers []*os.File
	)
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("打开 %s 失败: %v", path, err)
		}
		closers = append(closers, f)
		sessions = append(sessions, sim.Session{Name: path, Source: sim.NewFeed(f)})
	}
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, f := range closers {
			_ = f.Close()
		}
	}()

	opts := func(name string) sim.Options {
		opt := sim.Options{
			Simulate: true,
			Log:      lg.WithFields(map[string]interface{}{"session": name}),
			Metrics:  metrics.New(metrics.Config{ConstLabels: prometheus.Labels{"session": name}}),
		}
		if *logDir != "" {
			out := filepath.Join(*logDir, strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))+".log")
			f, err := os.Create(out)
			if err != nil {
				lg.Error("create round log failed", zap.String("path", out), zap.Error(err))
				return opt
			}
			mu.Lock()
			closers = append(closers, f)
			mu.Unlock()
			opt.RoundLog = f
		}
		return opt
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *logDir != "" {
		if err := os.MkdirAll(*logDir, 0o755); err != nil {
			log.Fatalf("创建日志目录失败: %v", err)
		}
	}
	results := sim.Replay(ctx, cfg, sessions, *workers, opts)

	fmt.Printf("%-24s %8s %8s %8s %14s %12s %8s\n", "session", "rounds", "orders", "rejected", "equity", "maxDD", "adverse")
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			lg.LogError(res.Err, map[string]interface{}{"session": res.Name})
		}
		p := res.Summary.PnL
		fmt.Printf("%-24s %8d %8d %8d %14s %12s %8.2f\n",
			filepath.Base(res.Name), res.Summary.Rounds, res.Summary.Orders, res.Summary.Rejected,
			p.Equity.StringFixed(1), p.MaxDrawdown.StringFixed(1), p.AdverseSelectionRate)
	}
	if *outPath != "" {
		if err := writeCSV(*outPath, results); err != nil {
			log.Fatalf("写入 CSV 失败: %v", err)
		}
	}
	if failed > 0 {
		lg.Warn("some sessions failed", zap.Int("failed", failed))
	}
}

func writeCSV(path string, results []sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	_ = w.Write([]string{"session", "rounds", "orders", "rejected", "fills", "equity", "max_drawdown", "markout_1", "markout_5", "error"})
	for _, res := range results {
		p := res.Summary.PnL
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		_ = w.Write([]string{
			res.Name,
			strconv.Itoa(res.Summary.Rounds),
			strconv.Itoa(res.Summary.Orders),
			strconv.Itoa(res.Summary.Rejected),
			strconv.Itoa(p.TotalFills),
			p.Equity.String(),
			p.MaxDrawdown.String(),
			strconv.FormatFloat(p.AvgMarkout1, 'f', 4, 64),
			strconv.FormatFloat(p.AvgMarkout5, 'f', 4, 64),
			errText,
		})
	}
	w.Flush()
	return w.Error()
}
