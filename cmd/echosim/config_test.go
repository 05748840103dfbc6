//go:build !rp2040 && !rp2350

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "echosim.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaultsWithoutPath(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, dmaecho.BaudRate, cfg.Baud)
	require.Equal(t, []dmaecho.Payload{toFrame("hello, world")}, cfg.Frames)
	require.Zero(t, cfg.FrameGap)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
baud = 115200
frames = ["abc", "0123456789abcdef"]
frame_gap = "5ms"
log_level = "debug"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.EqualValues(t, 115200, cfg.Baud)
	require.Equal(t, 5*time.Millisecond, cfg.FrameGap)
	require.Equal(t, zerolog.DebugLevel, cfg.LogLevel)

	require.Len(t, cfg.Frames, 2)
	require.Equal(t, dmaecho.Payload{'a', 'b', 'c'}, cfg.Frames[0])
	require.Equal(t, "0123456789ab", string(cfg.Frames[1][:]))
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `baud = 0`))
	require.NoError(t, err)
	require.Zero(t, cfg.Baud)
	require.Len(t, cfg.Frames, 1)
	require.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	for name, content := range map[string]string{
		"gap":     `frame_gap = "soon"`,
		"neg gap": `frame_gap = "-1s"`,
		"level":   `log_level = "loud"`,
		"unknown": `buad = 9600`,
		"syntax":  `baud = `,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, content))
			require.ErrorContains(t, err, "load echosim config")
		})
	}
}
