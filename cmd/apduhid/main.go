package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/go-ctap/apduhid/pkg/device"
	"github.com/go-ctap/apduhid/pkg/sugar"
)

func main() {
	os.Exit(runMain(os.Args[1:], os.Stderr))
}

// runMain returns the process exit code so that deferred cleanup always runs.
func runMain(args []string, stderr io.Writer) int {
	defer func() {
		_ = device.Exit()
	}()

	fs := flag.NewFlagSet("apduhid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a TOML config file")
	vendor := fs.String("vendor", "", "USB vendor id filter, e.g. 0x1209")
	usagePage := fs.String("usage-page", "", "HID usage page filter, vendor-defined pages by default")
	path := fs.String("path", "", "HID device path, skips enumeration")
	list := fs.Bool("list", false, "list matching devices and exit")
	debug := fs.Bool("debug", false, "log APDU traffic")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if *vendor != "" {
		if cfg.VendorID, err = parseUint16(*vendor); err != nil {
			fmt.Fprintf(stderr, "invalid vendor id %q: %v\n", *vendor, err)
			return 2
		}
	}
	if *usagePage != "" {
		if cfg.UsagePage, err = parseUint16(*usagePage); err != nil {
			fmt.Fprintf(stderr, "invalid usage page %q: %v\n", *usagePage, err)
			return 2
		}
	}
	if *path != "" {
		cfg.Path = *path
	}
	if *debug {
		cfg.LogLevel = slog.LevelDebug
	}

	lvl := new(slog.LevelVar)
	lvl.Set(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: lvl,
	}))

	if err := run(cfg, logger, *list, fs.Args()); err != nil {
		logger.Error("apduhid failed", "err", err)
		return 1
	}

	return 0
}

func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	return uint16(v), err
}

func run(cfg config, logger *slog.Logger, list bool, apdus []string) error {
	opts := cfg.options(logger)

	if list {
		models, err := sugar.List(opts...)
		if err != nil {
			return err
		}
		for _, m := range models {
			fmt.Printf("%04x:%04x %s (%s)\n", m.VendorID, m.ProductID, m, m.Path)
		}
		return nil
	}

	requests := make([][]byte, 0, len(apdus))
	for _, a := range apdus {
		b, err := hex.DecodeString(strings.ReplaceAll(a, " ", ""))
		if err != nil {
			return fmt.Errorf("invalid APDU %q: %w", a, err)
		}
		requests = append(requests, b)
	}

	t, err := sugar.OpenConnected(opts...)
	if err != nil {
		return err
	}
	defer func() {
		_ = t.Close()
	}()
	logger.Info("device opened", "device", t.DeviceModel().String(), "channel", t.Channel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, req := range requests {
		resp, err := t.Exchange(ctx, req)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(resp))
	}

	return nil
}
