package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level billsum.yaml configuration.
type Config struct {
	Locale   string         `yaml:"locale"`             // "en" or "zh"; selects default messages
	Messages MessagesConfig `yaml:"messages,omitempty"` // overrides for the locale's messages
	Log      LogConfig      `yaml:"log"`
	Bridge   BridgeConfig   `yaml:"bridge"`
}

// MessagesConfig holds every user-visible response text.
type MessagesConfig struct {
	NeedBothDates  string `yaml:"need_both_dates,omitempty"`
	NeedStartDate  string `yaml:"need_start_date,omitempty"`
	NeedEndDate    string `yaml:"need_end_date,omitempty"`
	StartBeforeEnd string `yaml:"start_before_end,omitempty"`
	NoData         string `yaml:"no_data,omitempty"`
	Total          string `yaml:"total,omitempty"` // fmt template, %s = amount with 2 decimals
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// BridgeConfig controls the serve event loops.
type BridgeConfig struct {
	QueueSize int `yaml:"queue_size"`
}

var presets = map[string]MessagesConfig{
	"en": {
		NeedBothDates:  "Please set the start date and end date first",
		NeedStartDate:  "Please set the start date first",
		NeedEndDate:    "Please set the end date first",
		StartBeforeEnd: "Start date must be before end date",
		NoData:         "No data",
		Total:          "Your spending: %s",
	},
	"zh": {
		NeedBothDates:  "请先设置开始日期和结束日期",
		NeedStartDate:  "请先设置开始日期",
		NeedEndDate:    "请先设置结束日期",
		StartBeforeEnd: "开始日期不能大于等于结束日期",
		NoData:         "没有数据",
		Total:          "您的支出为：%s",
	},
}

// Load reads a billsum.yaml file from disk. Fields left out keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, ok := presets[cfg.Locale]; !ok {
		return nil, fmt.Errorf("unknown locale %q", cfg.Locale)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Locale: "en",
		Log: LogConfig{
			Level: "info",
		},
		Bridge: BridgeConfig{
			QueueSize: 64,
		},
	}
}

// ResolvedMessages returns the locale preset with any overrides applied.
func (c *Config) ResolvedMessages() MessagesConfig {
	m, ok := presets[c.Locale]
	if !ok {
		m = presets["en"]
	}
	o := c.Messages
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&m.NeedBothDates, o.NeedBothDates)
	pick(&m.NeedStartDate, o.NeedStartDate)
	pick(&m.NeedEndDate, o.NeedEndDate)
	pick(&m.StartBeforeEnd, o.StartBeforeEnd)
	pick(&m.NoData, o.NoData)
	pick(&m.Total, o.Total)
	return m
}
