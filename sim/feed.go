package sim

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"round-trader/market"
	"round-trader/monitor/roundlog"
)

// Source 逐轮产出快照，结束时返回 io.EOF。
type Source interface {
	Next() (*market.Snapshot, error)
}

// Feed 读取 JSON lines：每行是一个快照，或者一条回合日志（取其中的 state）。
type Feed struct {
	sc   *bufio.Scanner
	line int
}

func NewFeed(r io.Reader) *Feed {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Feed{sc: sc}
}

func (f *Feed) Next() (*market.Snapshot, error) {
	for f.sc.Scan() {
		f.line++
		raw := bytes.TrimSpace(f.sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		if bytes.HasPrefix(raw, []byte(`{"logs"`)) {
			rec, err := roundlog.Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", f.line, err)
			}
			return &rec.Snapshot, nil
		}
		var snap market.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, fmt.Errorf("line %d: decode snapshot: %w", f.line, err)
		}
		return &snap, nil
	}
	if err := f.sc.Err(); err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return nil, io.EOF
}

// SliceSource replays snapshots held in memory.
type SliceSource struct {
	Snaps []*market.Snapshot
	i     int
}

func (s *SliceSource) Next() (*market.Snapshot, error) {
	if s.i >= len(s.Snaps) {
		return nil, io.EOF
	}
	snap := s.Snaps[s.i]
	s.i++
	return snap, nil
}
