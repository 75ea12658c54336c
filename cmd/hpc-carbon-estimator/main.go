// Command hpc-carbon-estimator estimates the energy use and carbon footprint
// of an HPC job. It prints a one-shot report, or serves the interactive
// calculator and JSON API when given a port.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
	"github.com/rshade/hpc-carbon-estimator/internal/input"
	"github.com/rshade/hpc-carbon-estimator/internal/logging"
	"github.com/rshade/hpc-carbon-estimator/internal/report"
	"github.com/rshade/hpc-carbon-estimator/internal/web"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	outputText = "text"
	outputJSON = "json"
)

type options struct {
	nodes           int
	hours           float64
	utilization     float64
	idleWatts       float64
	peakWatts       float64
	pue             float64
	location        string
	customIntensity float64
	output          string
	port            int
	listLocations   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[hpc-carbon-estimator] Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:           "hpc-carbon-estimator",
		Short:         "Estimate the energy use and carbon footprint of an HPC job (CLI or web)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, stdout, stderr)
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate("hpc-carbon-estimator v{{.Version}}\n")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.IntVar(&opts.nodes, "nodes", input.DefaultNodeCount, "Number of compute nodes")
	f.Float64Var(&opts.hours, "hours", input.DefaultDurationHours, "Job duration in hours")
	f.Float64Var(&opts.utilization, "utilization", input.DefaultUtilizationPct, "Average CPU utilization in percent (0-100)")
	f.Float64Var(&opts.idleWatts, "idle-watts", input.DefaultIdleWatts, "Idle power per node in watts")
	f.Float64Var(&opts.peakWatts, "peak-watts", input.DefaultPeakWatts, "Peak power per node in watts")
	f.Float64Var(&opts.pue, "pue", input.DefaultPUE, "Datacentre power usage effectiveness (1-3)")
	f.StringVar(&opts.location, "location", "", "Hosting location, or \"Custom\" with --custom-intensity (defaults to the location table's default)")
	f.Float64Var(&opts.customIntensity, "custom-intensity", input.DefaultCustomIntensity, "Grid carbon intensity in gCO2e/kWh when --location is Custom")
	f.StringVarP(&opts.output, "output", "o", outputText, "Output format: text or json")
	f.IntVar(&opts.port, "port", 0, "Run the web calculator on this port (e.g. 8484)")
	f.BoolVar(&opts.listLocations, "list-locations", false, "List the available locations and exit")

	return cmd
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	level, format := logSettings()
	logger := logging.New(stderr, level, format)
	cfg := parseConfig(logger)
	carbon.SetLogger(logger)

	if opts.output != outputText && opts.output != outputJSON {
		return fmt.Errorf("unsupported output %q: use %s or %s", opts.output, outputText, outputJSON)
	}

	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	if opts.listLocations {
		return report.WriteLocations(stdout, table)
	}

	port := opts.port
	if port == 0 {
		port = cfg.Port
	}
	if port > 0 {
		return serve(ctx, cfg, port, table, logger)
	}

	return estimate(opts, table, stdout, stderr)
}

func loadTable(cfg Config) (*carbon.LocationTable, error) {
	if cfg.LocationsFile == "" {
		table := carbon.DefaultLocationTable()
		if table.Len() == 0 {
			return nil, errors.New("embedded location table is empty")
		}
		return table, nil
	}
	table, err := carbon.LoadLocationTable(cfg.LocationsFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", envLocationsFile, err)
	}
	return table, nil
}

func estimate(opts options, table *carbon.LocationTable, stdout, stderr io.Writer) error {
	location := opts.location
	if location == "" {
		location = table.Default()
	}
	custom := opts.customIntensity
	sc := carbon.Scenario{
		NodeCount:       opts.nodes,
		DurationHours:   opts.hours,
		UtilizationPct:  opts.utilization,
		IdleWatts:       opts.idleWatts,
		PeakWatts:       opts.peakWatts,
		PUE:             opts.pue,
		Location:        location,
		CustomIntensity: &custom,
	}
	sc, adjustments := input.Normalize(sc)

	a, err := carbon.Assess(table, sc)
	if err != nil {
		if opts.output == outputJSON {
			if werr := report.WriteErrorJSON(stdout, err); werr != nil {
				return werr
			}
		} else if werr := report.WriteValidationError(stderr, err); werr != nil {
			return werr
		}
		return err
	}

	ropts := report.Options{Adjustments: adjustments, Now: time.Now()}
	if opts.output == outputJSON {
		return report.WriteJSON(stdout, a, ropts)
	}
	return report.WriteText(stdout, a, ropts)
}

func serve(ctx context.Context, cfg Config, port int, table *carbon.LocationTable, logger zerolog.Logger) error {
	srv := web.New(table,
		web.WithLogger(logger),
		web.WithVersion(version),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info().Msg("shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", server.Addr).
		Int("locations", table.Len()).
		Str("version", version).
		Msg("starting web calculator")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving on %s: %w", server.Addr, err)
	}
	<-shutdownDone
	return nil
}
