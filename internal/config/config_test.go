package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"textools/internal/texture"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), filepath.Join(t.TempDir(), DefaultPath))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = LoadFile(context.Background(), filepath.Join(t.TempDir(), DefaultPath))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "workers: 3\nlog_level: debug\nplain: true\nfill_color: neon green\n")

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, Config{Workers: 3, LogLevel: "debug", Plain: true, FillColor: texture.NeonGreen}, cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, level)
}

func TestLoadPartialAndEmptyFiles(t *testing.T) {
	cfg, err := Load(context.Background(), writeConfig(t, "workers: 2\n"))
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, texture.Magenta, cfg.FillColor)

	cfg, err = Load(context.Background(), writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero workers", "workers: 0\n"},
		{"unknown level", "log_level: loud\n"},
		{"empty level", "log_level: \"\"\n"},
		{"unknown color", "fill_color: teal\n"},
		{"unknown key", "threads: 4\n"},
		{"malformed", "workers: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}

	_, err := Load(context.Background(), writeConfig(t, "workers: -1\n"))
	require.True(t, errors.Is(err, ErrInvalid))
}
