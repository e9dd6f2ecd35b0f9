package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"immo-client/internal/app"
	"immo-client/internal/config"
	"immo-client/internal/logger"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app.App, args []string, out io.Writer) error
}

var commands = []command{
	{"status", "show the current session", runStatus},
	{"login", "log in and store the session", runLogin},
	{"logout", "forget the stored session", runLogout},
	{"refresh", "exchange the refresh token for a new access token", runRefresh},
	{"register", "create an account", runRegister},
	{"verify", "activate an account from its email token", runVerify},
	{"resend", "ask for a new activation email", runResend},
	{"publish", "publish a listing", runPublish},
	{"list", "browse published listings", runList},
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logHandler := logger.NewPrettyHandler(os.Stderr, &slog.HandlerOptions{
		Level: logger.ParseLevel(cfg.LogLevel),
	})
	slog.SetDefault(slog.New(logHandler))

	cmd, ok := lookup(os.Args[1])
	if !ok {
		usage(os.Stderr)
		os.Exit(2)
	}

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, application, os.Args[2:], os.Stdout); err != nil {
		slog.Error(cmd.name+" failed", "error", err)
		application.Close()
		os.Exit(1)
	}
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: immo <command> [flags]")
	fmt.Fprintln(w)
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", cmd.name, cmd.summary)
	}
}
