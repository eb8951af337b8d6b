package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 基于 fsnotify 监听配置文件，变更后重新加载并回调。
// 监听所在目录而不是文件本身，兼容编辑器的“写临时文件再 rename”。
type Watcher struct {
	Path     string
	Cooldown time.Duration // 两次回调的最小间隔，避免频繁重载
	Load     func(path string) (AppConfig, error)
}

// Start blocks until ctx is done. onUpdate receives every successfully
// loaded config; onError (optional) receives load and watcher errors.
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig), onError func(error)) error {
	load := w.Load
	if load == nil {
		load = LoadWithEnvOverrides
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	target := filepath.Clean(w.Path)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", target, err)
	}

	var (
		last     time.Time
		deferred *time.Timer
		fire     <-chan time.Time // 冷却期内的变更推迟到冷却结束后再加载
	)
	stopDeferred := func() {
		if deferred != nil {
			deferred.Stop()
		}
		deferred, fire = nil, nil
	}
	defer stopDeferred()

	reload := func() {
		cfg, err := load(target)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		last = time.Now()
		if onUpdate != nil {
			onUpdate(cfg)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-fire:
			deferred, fire = nil, nil
			reload()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			// 只处理写入和创建事件
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if w.Cooldown > 0 {
				if wait := w.Cooldown - time.Since(last); wait > 0 {
					if deferred == nil {
						deferred = time.NewTimer(wait)
						fire = deferred.C
					}
					continue
				}
			}
			stopDeferred()
			reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
