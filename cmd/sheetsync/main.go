// Command sheetsync ingests a venue booking spreadsheet into the local
// event store, either once or on a cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"

	"github.com/venuelog/sheetsync/internal/classifier"
	"github.com/venuelog/sheetsync/internal/config"
	"github.com/venuelog/sheetsync/internal/dates"
	"github.com/venuelog/sheetsync/internal/export"
	"github.com/venuelog/sheetsync/internal/logging"
	"github.com/venuelog/sheetsync/internal/models"
	"github.com/venuelog/sheetsync/internal/rowparser"
	"github.com/venuelog/sheetsync/internal/session"
	"github.com/venuelog/sheetsync/internal/sheets"
	"github.com/venuelog/sheetsync/internal/store"
	syncengine "github.com/venuelog/sheetsync/internal/sync"
)

// Version is set at build time.
var Version = "0.1.0"

type flagConfig struct {
	configPath string
	once       bool
	history    int
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(os.Stderr, conf.Level())
	logging.Info("sheetsync starting", map[string]interface{}{
		"version": Version,
	})

	st, err := store.Open(conf.DataDir)
	if err != nil {
		logging.Error("failed to open store", err)
		os.Exit(1)
	}
	defer st.Close()

	if flags.history > 0 {
		printHistory(st, flags.history)
		return
	}

	if err := conf.Validate(); err != nil {
		logging.Error("incomplete configuration", err)
		os.Exit(1)
	}

	sessions := session.NewManager()
	parser := rowparser.New(dates.New(), classifier.New(), sessions, classifier.NewCalibrator())
	source := sheets.NewClient(conf.SpreadsheetID, conf.SheetName, conf.APIKey)
	engine := syncengine.NewEngine(source, parser, sessions, st, export.New(), conf.ICSPath)

	if flags.once {
		if !runOnce(engine, st) {
			os.Exit(1)
		}
		return
	}

	runDaemon(engine, st, conf.RefreshCron)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./sheetsync.yaml", "Path to config file")
	flag.BoolVar(&cfg.once, "once", false, "Run one sync and exit")
	flag.IntVar(&cfg.history, "history", 0, "Print the N most recent sync runs and exit")

	flag.Parse()

	return cfg
}

// runOnce executes a single sync and prints a colored summary.
func runOnce(engine *syncengine.Engine, st *store.Store) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := engine.Run(ctx)
	if err != nil {
		logging.Error("sync failed", err)
		return false
	}

	printSummary(result, st)
	return result.Persisted
}

// runDaemon schedules periodic syncs until SIGINT/SIGTERM.
func runDaemon(engine *syncengine.Engine, st *store.Store, schedule string) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := engine.Run(ctx); err != nil {
			logging.Error("scheduled sync failed", err)
		}
	})
	if err != nil {
		logging.Error("invalid refresh schedule", err, map[string]interface{}{
			"schedule": schedule,
		})
		os.Exit(1)
	}

	c.Start()
	logging.Info("daemon started", map[string]interface{}{
		"schedule": schedule,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logging.Info("signal received, shutting down", map[string]interface{}{
		"signal": sig.String(),
	})

	ctx := c.Stop()
	<-ctx.Done()
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// printSummary reports the run outcome with per-status counts.
func printSummary(result *syncengine.Result, st *store.Store) {
	verdict := green("VALID")
	if !result.Valid {
		verdict = red("INVALID")
	}

	fmt.Printf("sync %s: %d rows, %d events, %d failures (success rate %.0f%%)\n",
		verdict, result.TotalRows, result.Events, result.Failures, result.SuccessRate*100)

	if !result.Persisted {
		fmt.Println(yellow("store left untouched"))
		return
	}

	events, err := st.ListEvents()
	if err != nil {
		logging.Error("failed to list stored events", err)
		return
	}

	counts := map[models.EventStatus]int{}
	for _, e := range events {
		counts[e.Status]++
	}
	fmt.Printf("stored: %s %d  %s %d  %s %d\n",
		green("confirmed"), counts[models.StatusConfirmed],
		yellow("pending"), counts[models.StatusPending],
		red("cancelled"), counts[models.StatusCancelled])
}

// printHistory lists recent sync runs.
func printHistory(st *store.Store, n int) {
	runs, err := st.ListRuns(n)
	if err != nil {
		logging.Error("failed to list sync runs", err)
		os.Exit(1)
	}

	for _, r := range runs {
		verdict := green("valid")
		if !r.Valid {
			verdict = red("invalid")
		}
		fmt.Printf("%s  %s  %d/%d rows  %.0f%% success  %d errors  %s\n",
			time.Unix(r.StartedAt, 0).Format(time.RFC3339),
			r.ID.String(), r.ProcessedEvents, r.TotalEvents,
			r.SuccessRate*100, r.ErrorCount, verdict)
	}
}
