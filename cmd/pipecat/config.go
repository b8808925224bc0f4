// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"code.hybscloud.com/pipe/internal/codec"
)

const (
	EnvLogLevel   = "PIPECAT_LOG_LEVEL"
	EnvLogNoColor = "PIPECAT_NOCOLOR"
)

type config struct {
	Layers    []string
	ChunkSize int
	LogLevel  zerolog.Level
	NoColor   bool
}

type fileConfig struct {
	Layers    []string `toml:"layers"`
	ChunkSize int      `toml:"chunk_size"`
	LogLevel  string   `toml:"log_level"`
	NoColor   bool     `toml:"no_color"`
}

func defaultConfig() config {
	return config{
		Layers:    []string{"crc32", "base64"},
		ChunkSize: codec.DefaultOptions().ChunkSize,
		LogLevel:  zerolog.InfoLevel,
	}
}

// loadConfig returns the defaults overridden by the keys defined in the
// TOML file at path. An empty path loads the defaults only.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load pipecat config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load pipecat config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("layers") {
		cfg.Layers = normalizeLayers(raw.Layers)
	}
	if meta.IsDefined("chunk_size") {
		cfg.ChunkSize = raw.ChunkSize
	}
	if meta.IsDefined("log_level") {
		lvl, ok := parseLevel(raw.LogLevel)
		if !ok {
			return config{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}
	if meta.IsDefined("no_color") {
		cfg.NoColor = raw.NoColor
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.LogLevel = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func validateConfig(cfg config) error {
	if len(cfg.Layers) == 0 {
		return fmt.Errorf("pipecat config has no layers")
	}
	for i, name := range cfg.Layers {
		if !slices.Contains(codec.Names, name) {
			return fmt.Errorf("layers[%d] invalid: unknown layer %q", i, name)
		}
	}
	if slices.Contains(cfg.Layers, "chunk") && cfg.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", cfg.ChunkSize)
	}
	return nil
}

func normalizeLayers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, name := range in {
		v := strings.ToLower(strings.TrimSpace(name))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
