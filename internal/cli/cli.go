// Package cli wires the keeper subcommands: flag parsing, configuration
// loading, store setup, and dispatch.
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"friendskeeper/internal/config"
	"friendskeeper/internal/reminder"
	"friendskeeper/internal/storage"
	"friendskeeper/pkg/logx"
)

const usageText = `Usage: keeper [flags] <command> [subcommand] [args]

Commands:
  add friend|notification      Add a friend (and their first reminder) or a reminder
  show friends|notifications|config
                               Show stored data or the active configuration
  update friend|notification   Update the active flag or a reminder date
  delete friend|notification   Delete a friend (cascades) or reminders
  run                          Run one notification cycle
  serve                        Stay resident and run the cycle on a schedule

Flags:
  -config path   configuration file (default ./config.yaml)
  -verbose       debug logging
`

// app carries everything a subcommand needs.
type app struct {
	cfgPath string
	cfg     *config.Config
	mgr     *config.Manager
	store   storage.Store
	logs    *logx.Service
	log     logx.Logger
	gen     *reminder.Generator

	out io.Writer
	in  io.Reader
}

// Main parses flags, prepares the app, and dispatches. Returns the process
// exit code.
func Main(args []string, stdout, stderr io.Writer, stdin io.Reader) int {
	fs := flag.NewFlagSet("keeper", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usageText) }

	cfgPath := fs.String("config", "./config.yaml", "path to config yaml")
	verbose := fs.Bool("verbose", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	boot := logx.NewConsole("info")
	mgr := config.NewManager(*cfgPath, boot)
	cfg, err := mgr.Load()
	if err != nil {
		boot.Error("error occurred loading configuration file", logx.Err(err))
		return 1
	}

	logCfg := logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.LoggingConsole(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
	if *verbose {
		logCfg.Level = "debug"
	}
	logs, log := logx.New(logCfg)
	defer logs.Close()

	store, err := storage.Open(storage.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.DatabaseBusyTimeout(),
	}, log)
	if err != nil {
		log.Error("cannot open database", logx.String("path", cfg.Database.Path), logx.Err(err))
		return 1
	}
	defer store.Close()

	a := &app{
		cfgPath: *cfgPath,
		cfg:     cfg,
		mgr:     mgr,
		store:   store,
		logs:    logs,
		log:     log,
		gen:     reminder.New(nil),
		out:     stdout,
		in:      stdin,
	}

	if err := a.dispatch(rest[0], rest[1:]); err != nil {
		if err == flag.ErrHelp {
			return 2
		}
		log.Error("command failed", logx.String("command", rest[0]), logx.Err(err))
		fmt.Fprintf(stderr, "keeper %s: %v\n", rest[0], err)
		return 1
	}
	return 0
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "add":
		return a.cmdAdd(args)
	case "show":
		return a.cmdShow(args)
	case "update":
		return a.cmdUpdate(args)
	case "delete":
		return a.cmdDelete(args)
	case "run":
		return a.cmdRun(args)
	case "serve":
		return a.cmdServe(args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func subcommand(args []string, accepted ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("expected one of: %s", strings.Join(accepted, ", "))
	}
	for _, ok := range accepted {
		if args[0] == ok {
			return args[0], args[1:], nil
		}
	}
	return "", nil, fmt.Errorf("unknown subcommand %q, expected one of: %s", args[0], strings.Join(accepted, ", "))
}

func (a *app) nowDate() time.Time { return storage.DateOf(time.Now()) }

// confirm asks a y/N question on stdin unless -yes was given.
func (a *app) confirm(skip bool, format string, args ...any) bool {
	if skip {
		return true
	}
	fmt.Fprintf(a.out, format+" [y/N]: ", args...)
	sc := bufio.NewScanner(a.in)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}
