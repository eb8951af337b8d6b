package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
env: dev
log:
  level: debug
limits:
  PEARLS: 20
  BANANAS: 20
  PICNIC_BASKET: 70
  BAGUETTE: 150
  DIP: 300
  UKULELE: 70
strategies:
  - kind: fixed_fair
    symbol: PEARLS
    fairValue: 10000
  - kind: ma_cross
    symbol: BANANAS
    shortWindow: 5
    longWindow: 30
  - kind: basket
    basket: PICNIC_BASKET
    legs:
      - {symbol: BAGUETTE, ratio: 2}
      - {symbol: DIP, ratio: 4}
      - {symbol: UKULELE, ratio: 1}
    premium: 400
    margin: 30
    taperSpan: 200
`

const sampleTOML = `
env = "prod"

[limits]
BERRIES = 250
COCONUTS = 600
PINA_COLADAS = 300

[[strategies]]
kind = "seasonal"
symbol = "BERRIES"
buyWindow = { from = 100000, to = 200000 }
sellWindow = { from = 450000, to = 550000 }

[[strategies]]
kind = "pair"
first = "COCONUTS"
second = "PINA_COLADAS"
ratio = 0.5333333333
threshold = 5
taperFirst = 50
taperSecond = 94
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	return writeTempFile(t, "cfg.yaml", content)
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func replaceLimit(src, old, new string) string {
	return strings.Replace(src, old, new, 1)
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format, "defaults survive partial sections")
	assert.Equal(t, 70, cfg.Limits["PICNIC_BASKET"])
	require.Len(t, cfg.Strategies, 3)
	assert.Equal(t, KindBasket, cfg.Strategies[2].Kind)
	assert.Equal(t, []LegConfig{{"BAGUETTE", 2}, {"DIP", 4}, {"UKULELE", 1}}, cfg.Strategies[2].Legs)
	assert.Equal(t, 400.0, cfg.Strategies[2].Premium)
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(writeTempFile(t, "cfg.toml", sampleTOML))
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	require.Len(t, cfg.Strategies, 2)
	assert.Equal(t, Window{From: 100000, To: 200000}, cfg.Strategies[0].BuyWindow)
	assert.Equal(t, 94.0, cfg.Strategies[1].TaperSecond)
	assert.Equal(t, int64(100), cfg.Sim.TimestampStep)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	t.Setenv("RT_ENV", "staging")
	t.Setenv("RT_LOG_LEVEL", "warn")
	t.Setenv("RT_METRICS_ADDR", ":9200")
	cfg, err := LoadWithEnvOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ":9200", cfg.Metrics.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	err := Validate(AppConfig{})
	assert.ErrorIs(t, err, ErrInvalid)

	base := func() AppConfig {
		return AppConfig{
			Env:    "dev",
			Limits: map[string]int{"PEARLS": 20, "BERRIES": 250},
			Strategies: []StrategyConfig{
				{Kind: KindFixedFair, Symbol: "PEARLS", FairValue: 10000},
			},
		}
	}
	require.NoError(t, Validate(base()))

	cases := map[string]func(*AppConfig){
		"unknown kind":     func(c *AppConfig) { c.Strategies[0].Kind = "martingale" },
		"missing limit":    func(c *AppConfig) { c.Strategies[0].Symbol = "DIP" },
		"zero fair":        func(c *AppConfig) { c.Strategies[0].FairValue = 0 },
		"negative limit":   func(c *AppConfig) { c.Limits["PEARLS"] = -1 },
		"negative circuit": func(c *AppConfig) { c.Risk.CircuitThreshold = -0.1 },
		"bad ma windows":   func(c *AppConfig) { c.Strategies[0] = maCross("PEARLS", 30, 5) },
		"overlap windows":  func(c *AppConfig) { c.Strategies[0] = seasonal("BERRIES", Window{100, 500}, Window{400, 600}) },
		"pair same symbol": func(c *AppConfig) {
			c.Strategies[0] = StrategyConfig{Kind: KindPair, First: "PEARLS", Second: "PEARLS", Ratio: 1}
		},
		"basket zero ratio": func(c *AppConfig) {
			c.Strategies[0] = StrategyConfig{Kind: KindBasket, Basket: "PEARLS", Legs: []LegConfig{{"BERRIES", 0}}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(&cfg)
			err := Validate(cfg)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected invalid config, got %v", err)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{From: 100000, To: 200000}
	assert.True(t, w.Contains(100000))
	assert.True(t, w.Contains(200000))
	assert.False(t, w.Contains(200001))
}

func maCross(sym string, short, long int) StrategyConfig {
	return StrategyConfig{Kind: KindMACross, Symbol: sym, ShortWindow: short, LongWindow: long}
}

func seasonal(sym string, buy, sell Window) StrategyConfig {
	return StrategyConfig{Kind: KindSeasonal, Symbol: sym, BuyWindow: buy, SellWindow: sell}
}

func TestShippedConfigs(t *testing.T) {
	for _, name := range []string{"round.yaml", "pair.toml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(filepath.Join("..", "configs", name))
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Strategies)
			assert.NotEmpty(t, cfg.Sim.Symbols)
			for sym := range cfg.Sim.Symbols {
				assert.Positive(t, cfg.Limits[sym], "sim symbol %s has no limit", sym)
			}
		})
	}
}
