// Command formctl checks, edits and publishes form documents from the shell.
//
//	formctl validate -file form.yaml
//	formctl refs     -file form.json -field email
//	formctl strip    -file form.json -field email -out cleaned.json
//	formctl strip    -draft <form-id> -field email
//	formctl publish  -file form.yaml | -draft <form-id>
//	formctl draft    push -file form.yaml | get -id <form-id> | rm -id <form-id>
//	formctl forms    list | get -id <form-id> [-version N] | rm -id <form-id>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"formcraft/internal/config"

	"github.com/joho/godotenv"
)

const usage = `usage: formctl <command> [flags]

commands:
  validate   structural and logic checks (exit 1 on findings)
  refs       list logic rules that reference a field
  strip      delete a field and every logic reference to it
  publish    validate and store a new published version
  draft      push, get or remove an editor draft
  forms      list, get or remove stored forms and published versions
`

type command func(ctx context.Context, app *app, args []string) error

var commands = map[string]command{
	"validate": runValidate,
	"refs":     runRefs,
	"strip":    runStrip,
	"publish":  runPublish,
	"draft":    runDraft,
	"forms":    runForms,
}

// app carries what every command needs
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	_ = godotenv.Load()
	cfg := config.Load()

	logOut := stderr
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "formctl", cfg.MaxLogFiles)
		if err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		} else {
			defer logFile.Close()
			logOut = io.MultiWriter(stderr, logFile)
		}
	}

	a := &app{
		cfg:    cfg,
		logger: config.NewLogger(cfg, logOut),
		stdout: stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd(ctx, a, args[1:]); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(stderr, "formctl %s: %v\n", args[0], err)
		}
		return 1
	}
	return 0
}
