package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/storefront-cli/internal/cli"
	"github.com/storefront-cli/internal/config"
	"github.com/storefront-cli/internal/logger"
)

func main() {
	// CLI 的日志只进文件，终端留给命令输出
	cfg := config.Load()
	logger.Init("release", cfg.Log.ToLoggerOptions())

	app, err := cli.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shopctl: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "shopctl: %v\n", err)
		os.Exit(1)
	}
}
