// Package main is the ShortHub shell: it drives the coordinator in-process
// from the terminal, the way the extension popup does over the bridge.
package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/shorthub/coordinator/internal/app"
	"github.com/shorthub/coordinator/internal/config"
	"github.com/shorthub/coordinator/internal/logger"
	"github.com/shorthub/coordinator/internal/shell"
)

var (
	version   string
	buildDate string
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, in io.Reader, out io.Writer) int {
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintf(out, "ShortHub Shell\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return 0
	}

	options, err := config.Parse("shorthub", args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	// The shell keeps stdout for the conversation; logs go nowhere unless asked for.
	zl := logger.New()
	if options.LogLevel == "debug" {
		if err := zl.Init(options.LogLevel); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		defer func() { _ = zl.Log.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coordinator, err := app.Build(ctx, options, zl.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = coordinator.Close() }()

	sh := &shell.Shell{
		Router:     coordinator.Router,
		In:         in,
		Out:        out,
		DeviceInfo: fmt.Sprintf("ShortHub shell on %s", runtime.GOOS),
	}
	sh.Run(ctx)
	return 0
}
