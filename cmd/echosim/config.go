//go:build !rp2040 && !rp2350

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
	"github.com/jangala-dev/tinygo-dmaecho/internal/logging"
)

// echosim config.toml key mapping.
type fileConfig struct {
	Baud     uint32   `toml:"baud"`
	Frames   []string `toml:"frames"`
	FrameGap string   `toml:"frame_gap"`
	LogLevel string   `toml:"log_level"`
}

type config struct {
	Baud     uint32
	Frames   []dmaecho.Payload
	FrameGap time.Duration
	LogLevel zerolog.Level
}

func defaultConfig() config {
	return config{
		Baud:     dmaecho.BaudRate,
		Frames:   []dmaecho.Payload{toFrame("hello, world")},
		FrameGap: 0,
		LogLevel: zerolog.InfoLevel,
	}
}

// loadConfig overlays the keys defined in path onto the defaults. An empty
// path returns the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load echosim config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load echosim config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("baud") {
		cfg.Baud = raw.Baud
	}
	if meta.IsDefined("frames") {
		cfg.Frames = cfg.Frames[:0]
		for _, s := range raw.Frames {
			cfg.Frames = append(cfg.Frames, toFrame(s))
		}
	}
	if meta.IsDefined("frame_gap") {
		gap, err := time.ParseDuration(strings.TrimSpace(raw.FrameGap))
		if err != nil {
			return config{}, fmt.Errorf("load echosim config: frame_gap: %w", err)
		}
		if gap < 0 {
			return config{}, fmt.Errorf("load echosim config: frame_gap must not be negative")
		}
		cfg.FrameGap = gap
	}
	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return config{}, fmt.Errorf("load echosim config: unsupported log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// toFrame pads s with zero bytes or truncates it to one frame.
func toFrame(s string) dmaecho.Payload {
	var p dmaecho.Payload
	copy(p[:], s)
	return p
}
