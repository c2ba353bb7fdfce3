package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"parking-allocator/internal/config"
	"parking-allocator/internal/logging"
	"parking-allocator/internal/parking"
	"parking-allocator/internal/server"
	"parking-allocator/internal/telemetry"
)

const inputPrompt = "Welcome to the parking lot application.\n" +
	"Please enter the input filepath. If the file is present in the same directory, just enter the filename.\n"

func main() {
	cfg := config.Load()

	mode := flag.String("mode", cfg.Mode, "Mode to run: cli, server, or both")
	port := flag.String("port", cfg.Port, "Port for HTTP server")
	input := flag.String("input", cfg.InputFile, "Command file for cli mode; - reads stdin, empty prompts for a path")
	flag.Parse()

	cfg.Mode, cfg.Port, cfg.InputFile = *mode, *port, *input

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	telemetryProvider, err := telemetry.NewProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Logs go to stderr so stdout carries only command output.
	logging.Init(os.Stderr, cfg.OTelServiceName, cfg.Environment)

	switch cfg.Mode {
	case "cli":
		runCLI(ctx, cfg, telemetryProvider)
	case "server":
		runServer(ctx, cfg, telemetryProvider)
	case "both":
		runBoth(ctx, cancel, cfg, telemetryProvider)
	default:
		log.Fatalf("Invalid mode: %s. Must be cli, server, or both", cfg.Mode)
	}

	shutdownTelemetry(cfg, telemetryProvider)
}

func runCLI(ctx context.Context, cfg *config.Config, telemetryProvider *telemetry.Provider) {
	in, closeInput, err := openInput(cfg.InputFile, os.Stdin, os.Stdout)
	if err != nil {
		logging.Error(ctx, "opening command input", "error", err)
		return
	}
	defer closeInput()

	shell := parking.NewShell(telemetryProvider, os.Stdout)
	if err := shell.Run(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error(ctx, "running commands", "error", err)
	}
}

func runServer(ctx context.Context, cfg *config.Config, telemetryProvider *telemetry.Provider) {
	srv := server.NewServer(cfg.Port, cfg.OTelServiceName, telemetryProvider)

	go func() {
		<-ctx.Done()
		logging.Info(context.Background(), "received shutdown signal")
		shutdownServer(cfg, srv)
	}()

	logging.Info(ctx, "starting server mode", "address", srv.GetAddress())
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error(ctx, "server error", "error", err)
	}
}

func runBoth(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, telemetryProvider *telemetry.Provider) {
	srv := server.NewServer(cfg.Port, cfg.OTelServiceName, telemetryProvider)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	cliDone := make(chan struct{})
	go func() {
		runCLI(ctx, cfg, telemetryProvider)
		close(cliDone)
	}()

	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "server error", "error", err)
		}
	case <-cliDone:
		logging.Info(ctx, "CLI exited")
	case <-ctx.Done():
		logging.Info(context.Background(), "received shutdown signal")
	}

	cancel()
	shutdownServer(cfg, srv)
}

// openInput resolves where commands come from. An empty path prompts on out
// and reads the path from the first line of stdin.
func openInput(path string, stdin io.Reader, out io.Writer) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}

	if path == "" {
		fmt.Fprint(out, inputPrompt)
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("reading input path: %w", err)
		}
		path = strings.TrimSpace(line)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func shutdownServer(cfg *config.Config, srv *server.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error(shutdownCtx, "server shutdown error", "error", err)
	}
}

func shutdownTelemetry(cfg *config.Config, telemetryProvider *telemetry.Provider) {
	logging.Info(context.Background(), "shutting down telemetry")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
}
