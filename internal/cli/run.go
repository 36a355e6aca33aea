package cli

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"friendskeeper/internal/core"
)

// cmdRun executes exactly one notification cycle, the way a system cron
// entry would, and exits.
func (a *app) cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	runner := core.NewRunner(a.store, a.cfg, a.gen, a.log)
	return runner.RunCycle(context.Background())
}

// cmdServe stays resident, firing the cycle on the configured schedule and
// hot-reloading the configuration file, until SIGINT or SIGTERM.
func (a *app) cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := core.NewRunner(a.store, a.cfg, a.gen, a.log)
	svc := core.NewService(runner, a.mgr, a.logs, a.log)
	return svc.Run(ctx)
}
