package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nao-Mk2/pod-schedule/cmd"
)

func usage(msg string) {
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	fmt.Fprintln(os.Stderr, "Usage: pod-schedule [--input notice.txt | --mail notice.eml | --groups g1,g2] [--config pod-schedule.toml] [--format html|json] [--query JMESPath]")
	fmt.Fprintln(os.Stderr, "Reads a maintenance notice (stdin by default) and prints the UTC pod schedule as HTML.")
	os.Exit(cmd.ExitUsage)
}

func main() {
	// Parse flags/env and validate relationships
	opts := cmd.CollectOptions()
	if msg, code := opts.Validate(); code != 0 {
		usage(msg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	code := cmd.Execute(ctx, opts, cmd.Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Now:    time.Now(),
	})
	stop()
	os.Exit(code)
}
