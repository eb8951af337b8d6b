package sim

import (
	"testing"

	"round-trader/market"
)

// BenchmarkRunnerStep 决策、风控复核、模拟撮合与成交后分析的完整一轮
func BenchmarkRunnerStep(b *testing.B) {
	cfg := testConfig()
	cfg.Sim.Rounds = 256
	r, err := BuildRunner(cfg, Options{Simulate: true, MaxFills: 1000})
	if err != nil {
		b.Fatalf("build runner: %v", err)
	}
	src := NewSynthetic(cfg.Sim)
	snaps := make([]*market.Snapshot, 0, cfg.Sim.Rounds)
	for i := 0; i < cfg.Sim.Rounds; i++ {
		s, err := src.Next()
		if err != nil {
			b.Fatalf("synthetic: %v", err)
		}
		snaps = append(snaps, s)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Step(snaps[i%len(snaps)]); err != nil {
			b.Fatal(err)
		}
	}
}
