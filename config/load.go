package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env        string           `yaml:"env" toml:"env"`
	Log        LogConfig        `yaml:"log" toml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics" toml:"metrics"`
	Limits     map[string]int   `yaml:"limits" toml:"limits"`
	Risk       RiskConfig       `yaml:"risk" toml:"risk"`
	Strategies []StrategyConfig `yaml:"strategies" toml:"strategies"`
	Sim        SimConfig        `yaml:"sim" toml:"sim"`
}

type LogConfig struct {
	Level      string   `yaml:"level" toml:"level"`
	Format     string   `yaml:"format" toml:"format"`
	Outputs    []string `yaml:"outputs" toml:"outputs"`
	OutputFile string   `yaml:"outputFile" toml:"outputFile"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" toml:"addr"` // 为空则不启动 /metrics
}

// RiskConfig 是下单前复核之外的附加风控；circuitThreshold 为 0 表示关闭熔断。
type RiskConfig struct {
	CircuitWindow    int     `yaml:"circuitWindow" toml:"circuitWindow"`
	CircuitThreshold float64 `yaml:"circuitThreshold" toml:"circuitThreshold"`
}

// Window 是闭区间 [From, To]，单位为模拟器时间戳。
type Window struct {
	From int64 `yaml:"from" toml:"from"`
	To   int64 `yaml:"to" toml:"to"`
}

// Contains reports whether ts lies in the closed interval.
func (w Window) Contains(ts int64) bool {
	return ts >= w.From && ts <= w.To
}

type LegConfig struct {
	Symbol string `yaml:"symbol" toml:"symbol"`
	Ratio  int    `yaml:"ratio" toml:"ratio"`
}

// StrategyConfig 以 kind 区分子策略，只读取对应 kind 的字段。
type StrategyConfig struct {
	Kind string `yaml:"kind" toml:"kind"`
	Name string `yaml:"name" toml:"name"`

	// fixed_fair / gap_taker / ma_cross / seasonal
	Symbol string `yaml:"symbol" toml:"symbol"`

	FairValue int `yaml:"fairValue" toml:"fairValue"` // fixed_fair

	MaxSpread int `yaml:"maxSpread" toml:"maxSpread"` // gap_taker
	MinGap    int `yaml:"minGap" toml:"minGap"`

	ShortWindow int `yaml:"shortWindow" toml:"shortWindow"` // ma_cross
	LongWindow  int `yaml:"longWindow" toml:"longWindow"`
	HistorySize int `yaml:"historySize" toml:"historySize"`

	BuyWindow  Window `yaml:"buyWindow" toml:"buyWindow"` // seasonal
	SellWindow Window `yaml:"sellWindow" toml:"sellWindow"`

	Basket    string      `yaml:"basket" toml:"basket"` // basket
	Legs      []LegConfig `yaml:"legs" toml:"legs"`
	Premium   float64     `yaml:"premium" toml:"premium"`
	Margin    float64     `yaml:"margin" toml:"margin"`
	TaperSpan float64     `yaml:"taperSpan" toml:"taperSpan"`
	Skew      float64     `yaml:"skew" toml:"skew"`

	First       string  `yaml:"first" toml:"first"` // pair
	Second      string  `yaml:"second" toml:"second"`
	Ratio       float64 `yaml:"ratio" toml:"ratio"`
	Threshold   float64 `yaml:"threshold" toml:"threshold"`
	TaperFirst  float64 `yaml:"taperFirst" toml:"taperFirst"`
	TaperSecond float64 `yaml:"taperSecond" toml:"taperSecond"`
}

// SimConfig 控制合成行情与模拟撮合。
type SimConfig struct {
	Rounds        int                        `yaml:"rounds" toml:"rounds"`
	TimestampStep int64                      `yaml:"timestampStep" toml:"timestampStep"`
	Seed          int64                      `yaml:"seed" toml:"seed"`
	Symbols       map[string]SyntheticSymbol `yaml:"symbols" toml:"symbols"`
}

type SyntheticSymbol struct {
	Start  int     `yaml:"start" toml:"start"`
	Spread int     `yaml:"spread" toml:"spread"`
	Depth  int     `yaml:"depth" toml:"depth"`
	Vol    float64 `yaml:"vol" toml:"vol"`
}

// Defaults 返回未在文件中出现的字段的默认值。
func Defaults() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Level:   "info",
			Format:  "json",
			Outputs: []string{"stderr"},
		},
		Sim: SimConfig{
			Rounds:        1000,
			TimestampStep: 100,
			Seed:          1,
		},
	}
}

// Load reads a YAML or TOML (by extension) config from path on top of the
// defaults and applies basic validation.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(raw), &cfg); err != nil {
			return cfg, fmt.Errorf("parse toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides operational fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("RT_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("RT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RT_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return cfg, Validate(cfg)
}
