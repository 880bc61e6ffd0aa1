package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`

	Color          string  `yaml:"color"`
	FontSize       float64 `yaml:"font_size"`
	PixelBlockSize int     `yaml:"pixel_block_size"`

	// Окно видимости новых фигур: либо короткое от текущего времени, либо вся длительность.
	WindowSeconds float64 `yaml:"window_seconds"`
	FullDuration  bool    `yaml:"full_duration"`

	HandleHitRadius    float64 `yaml:"handle_hit_radius"`
	HandleRadius       float64 `yaml:"handle_radius"`
	ArrowHitThreshold  float64 `yaml:"arrow_hit_threshold"`
	MinSize            float64 `yaml:"min_size"`
	MinFontSize        float64 `yaml:"min_font_size"`
	MaxFontSize        float64 `yaml:"max_font_size"`
	TextResizeRate     float64 `yaml:"text_resize_rate"`
	HistoryDepth       int     `yaml:"history_depth"` // 0 - без ограничения
	HighlightDashPixel float64 `yaml:"highlight_dash"`

	VideoEncoder string `yaml:"video_encoder"`
	Quality      int    `yaml:"quality"`
	Workers      int    `yaml:"workers"`

	StorePath string `yaml:"store_path"`
}

// ExportParams describes one burn-in export run.
type ExportParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	Encoder       string
	Quality       int
	Workers       int
}

// ExportParams derives the settings of an export run lasting duration seconds.
func (c *Config) ExportParams(duration float64) ExportParams {
	return ExportParams{
		Width:    c.Width,
		Height:   c.Height,
		FPS:      c.FPS,
		Duration: duration,
		Encoder:  c.VideoEncoder,
		Quality:  c.Quality,
		Workers:  c.Workers,
	}
}

func Default() *Config {
	return &Config{
		Width:              1280,
		Height:             720,
		FPS:                30,
		Color:              "#ff3b30",
		FontSize:           24,
		PixelBlockSize:     10,
		WindowSeconds:      5,
		HandleHitRadius:    12,
		HandleRadius:       5,
		ArrowHitThreshold:  10,
		MinSize:            5,
		MinFontSize:        12,
		MaxFontSize:        72,
		TextResizeRate:     0.5,
		HighlightDashPixel: 6,
		VideoEncoder:       "libx264",
		Quality:            23,
		StorePath:          "overlays.db",
	}
}

// Load reads a YAML file on top of the defaults. Пустой путь: только defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Validate заменяет нерабочие значения на значения по умолчанию.
func (c *Config) Validate() {
	d := Default()
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = d.Width, d.Height
	}
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.MinSize <= 0 {
		c.MinSize = d.MinSize
	}
	if c.MinFontSize <= 0 || c.MaxFontSize < c.MinFontSize {
		c.MinFontSize, c.MaxFontSize = d.MinFontSize, d.MaxFontSize
	}
	if c.FontSize < c.MinFontSize || c.FontSize > c.MaxFontSize {
		c.FontSize = d.FontSize
	}
	if c.PixelBlockSize <= 0 {
		c.PixelBlockSize = d.PixelBlockSize
	}
	if c.WindowSeconds <= 0 {
		c.WindowSeconds = d.WindowSeconds
	}
	if c.HandleHitRadius <= 0 {
		c.HandleHitRadius = d.HandleHitRadius
	}
	if c.HandleRadius <= 0 {
		c.HandleRadius = d.HandleRadius
	}
	if c.ArrowHitThreshold <= 0 {
		c.ArrowHitThreshold = d.ArrowHitThreshold
	}
	if c.TextResizeRate <= 0 {
		c.TextResizeRate = d.TextResizeRate
	}
	if c.HistoryDepth < 0 {
		c.HistoryDepth = 0
	}
	if c.HighlightDashPixel <= 0 {
		c.HighlightDashPixel = d.HighlightDashPixel
	}
	if c.VideoEncoder == "" {
		c.VideoEncoder = d.VideoEncoder
	}
	if c.Quality <= 0 {
		c.Quality = d.Quality
	}
}
