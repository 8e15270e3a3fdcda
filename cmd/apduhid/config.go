package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/go-ctap/apduhid/pkg/options"
)

// apduhid config.toml key mapping.
type fileConfig struct {
	VendorID   int64  `toml:"vendor_id"`
	UsagePage  int64  `toml:"usage_page"`
	Path       string `toml:"path"`
	PacketSize int    `toml:"packet_size"`
	Channel    int64  `toml:"channel"`
	LogLevel   string `toml:"log_level"`
	NamedPipe  bool   `toml:"named_pipe"`
	CgoFreeHID bool   `toml:"cgo_free_hid"`
}

type config struct {
	VendorID   uint16
	UsagePage  uint16
	Path       string
	PacketSize int
	// Channel is random when unset.
	Channel    *uint16
	LogLevel   slog.Level
	NamedPipe  bool
	CgoFreeHID bool
}

func defaultConfig() config {
	return config{
		PacketSize: options.DefaultPacketSize,
		LogLevel:   slog.LevelInfo,
	}
}

// loadConfig overlays the keys defined in the TOML file at path on the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load apduhid config: %w", err)
	}

	if meta.IsDefined("vendor_id") {
		if raw.VendorID < 0 || raw.VendorID > 0xffff {
			return config{}, fmt.Errorf("vendor_id out of range: %d", raw.VendorID)
		}
		cfg.VendorID = uint16(raw.VendorID)
	}
	if meta.IsDefined("usage_page") {
		if raw.UsagePage < 0 || raw.UsagePage > 0xffff {
			return config{}, fmt.Errorf("usage_page out of range: %d", raw.UsagePage)
		}
		cfg.UsagePage = uint16(raw.UsagePage)
	}
	if meta.IsDefined("path") {
		cfg.Path = strings.TrimSpace(raw.Path)
	}
	if meta.IsDefined("packet_size") {
		cfg.PacketSize = raw.PacketSize
	}
	if meta.IsDefined("channel") {
		if raw.Channel < 0 || raw.Channel > 0xffff {
			return config{}, fmt.Errorf("channel out of range: %d", raw.Channel)
		}
		channel := uint16(raw.Channel)
		cfg.Channel = &channel
	}
	if meta.IsDefined("log_level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(raw.LogLevel))); err != nil {
			return config{}, fmt.Errorf("parse log_level: %w", err)
		}
	}
	if meta.IsDefined("named_pipe") {
		cfg.NamedPipe = raw.NamedPipe
	}
	if meta.IsDefined("cgo_free_hid") {
		cfg.CgoFreeHID = raw.CgoFreeHID
	}

	return cfg, nil
}

func (c config) options(logger *slog.Logger) []options.Option {
	opts := []options.Option{
		options.WithLogger(logger),
		options.WithVendorID(c.VendorID),
		options.WithUsagePage(c.UsagePage),
		options.WithPacketSize(c.PacketSize),
	}
	if c.Path != "" {
		opts = append(opts, options.WithPaths(c.Path))
	}
	if c.Channel != nil {
		opts = append(opts, options.WithChannel(*c.Channel))
	}
	if c.NamedPipe {
		opts = append(opts, options.WithUseNamedPipes())
	}
	if c.CgoFreeHID {
		opts = append(opts, options.WithUseCgoFreeHID())
	}

	return opts
}
