package config

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestWatcherStopsOnCancel(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	w := Watcher{Path: path}
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately
	if err := w.Start(ctx, nil, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestWatcherTriggersOnChange(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)

	w := Watcher{Path: path, Load: Load}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := make(chan AppConfig, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Start(ctx, func(cfg AppConfig) {
			select {
			case ch <- cfg:
			default:
			}
		}, nil)
	}()

	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-ch:
			if cfg.Limits["PEARLS"] != 40 {
				t.Fatalf("expected reloaded limit 40, got %d", cfg.Limits["PEARLS"])
			}
			cancel()
			<-done
			return
		case <-tick.C:
			// 重复写入，直到 watcher 已就绪并收到事件
			updated := []byte(replaceLimit(sampleYAML, "PEARLS: 20", "PEARLS: 40"))
			if err := os.WriteFile(path, updated, 0o644); err != nil {
				t.Fatalf("rewrite: %v", err)
			}
		case <-deadline:
			t.Fatalf("expected update callback")
		}
	}
}

func TestWatcherReportsLoadErrors(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	w := Watcher{Path: path, Load: func(string) (AppConfig, error) { return AppConfig{}, errors.New("bad") }}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errs := make(chan error, 4)
	go func() {
		_ = w.Start(ctx, nil, func(err error) {
			select {
			case errs <- err:
			default:
			}
		})
	}()

	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case err := <-errs:
			if err == nil || err.Error() != "bad" {
				t.Fatalf("unexpected error %v", err)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
				t.Fatalf("rewrite: %v", err)
			}
		case <-deadline:
			t.Fatalf("expected error callback")
		}
	}
}

func TestWatcherDefersChangesInsideCooldown(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)

	w := Watcher{Path: path, Cooldown: 300 * time.Millisecond, Load: Load}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := make(chan AppConfig, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Start(ctx, func(cfg AppConfig) {
			select {
			case ch <- cfg:
			default:
			}
		}, nil)
	}()
	write := func(limit string) {
		updated := []byte(replaceLimit(sampleYAML, "PEARLS: 20", "PEARLS: "+limit))
		if err := os.WriteFile(path, updated, 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
	}

	// 第一次加载成功后立刻再次保存，第二次落在冷却期内
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
first:
	for {
		select {
		case cfg := <-ch:
			if cfg.Limits["PEARLS"] == 40 {
				break first
			}
		case <-tick.C:
			write("40")
		case <-deadline:
			t.Fatalf("expected first update callback")
		}
	}
	write("60")

	deadline = time.After(3 * time.Second)
	for {
		select {
		case cfg := <-ch:
			if cfg.Limits["PEARLS"] == 60 {
				cancel()
				<-done
				return
			}
		case <-deadline:
			t.Fatalf("change inside cooldown was never loaded")
		}
	}
}
