// Command liverkpi-report runs one analysis from the command line and prints
// the report as JSON or a short text summary
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"liverkpi/internal/modkit"
	"liverkpi/internal/modkit/module"
	"liverkpi/internal/platform/config"
	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/logger"
	"liverkpi/internal/platform/metrics"
	"liverkpi/internal/platform/store"

	analysisdomain "liverkpi/internal/services/analysis/domain"
	analysismod "liverkpi/internal/services/analysis/module"
	eventsmod "liverkpi/internal/services/events/module"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit status so deferred cleanup happens before exit
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("liverkpi-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		fAccount   = fs.String("account", analysisdomain.AllAccounts, "account id or \"all\"")
		fStart     = fs.String("start", "", "start bound YYYY-MM-DD or YYYY-MM-DDTHH:MM")
		fEnd       = fs.String("end", "", "end bound YYYY-MM-DD or YYYY-MM-DDTHH:MM (inclusive)")
		fEvent     = fs.String("event", "", "linked event name; replaces -start/-end")
		fFeed      = fs.String("feed", "all", "all | member")
		fBenchmark = fs.Bool("benchmark", false, "compare ratios against every broadcaster")
		fRows      = fs.Bool("rows", false, "include the selected rows")
		fFormat    = fs.String("format", "text", "text | json")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *fFormat != "text" && *fFormat != "json" {
		return fail(stderr, perr.InvalidArgf("unknown -format %q", *fFormat))
	}

	root := config.New()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromConfig(root.Prefix("CORE_CACHE_")), store.WithLogger(*l))
	if err != nil {
		return fail(stderr, perr.Wrap(err, perr.ErrorCodeUnavailable, "open cache"))
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Log: *l, Cfg: root, Metrics: metrics.NewIsolated(), Store: st}
	events := eventsmod.New(deps)
	analysis := analysismod.New(deps, modkit.WithPorts(analysismod.Ports{
		Events: module.MustPortsOf[analysisdomain.EventsPort](events),
	}))

	res, err := analysis.Service().Run(ctx, analysisdomain.Request{
		Account:     *fAccount,
		Start:       *fStart,
		End:         *fEnd,
		Event:       *fEvent,
		Feed:        *fFeed,
		Benchmark:   *fBenchmark,
		IncludeRows: *fRows,
	})
	if err != nil {
		return fail(stderr, err)
	}

	if *fFormat == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fail(stderr, err)
		}
		return 0
	}
	if err := render(stdout, res); err != nil {
		return fail(stderr, err)
	}
	return 0
}

// fail prints err and returns a status derived from its code
func fail(w io.Writer, err error) int {
	_, _ = fmt.Fprintf(w, "error: %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeInvalidArgument, perr.ErrorCodeValidation:
		return 2
	case perr.ErrorCodeNoData, perr.ErrorCodeNotFound:
		return 3
	case perr.ErrorCodeUnavailable, perr.ErrorCodeTimeout, perr.ErrorCodeMalformed:
		return 4
	default:
		return 1
	}
}
