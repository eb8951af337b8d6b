package sim

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"round-trader/config"
)

// Session 是一段待回放的行情。
type Session struct {
	Name   string
	Source Source
}

// Result 是一段会话的回放结果。
type Result struct {
	Name    string
	Summary Summary
	Err     error
}

// Replay 并发回放多段会话。每段会话拥有独立的 Runner（决策核心、仓位、撮合），
// 互不共享状态；结果顺序与输入一致。
func Replay(ctx context.Context, cfg config.AppConfig, sessions []Session, workers int, opts func(name string) Options) []Result {
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(sessions))
	p := pool.New().WithMaxGoroutines(workers)
	for i, s := range sessions {
		p.Go(func() {
			res := Result{Name: s.Name}
			opt := Options{Simulate: true}
			if opts != nil {
				opt = opts(s.Name)
			}
			r, err := BuildRunner(cfg, opt)
			if err != nil {
				res.Err = fmt.Errorf("build runner: %w", err)
				results[i] = res
				return
			}
			res.Summary, res.Err = r.Run(ctx, s.Source)
			results[i] = res
		})
	}
	p.Wait()
	return results
}
