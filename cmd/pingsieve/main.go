package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sdnotify "github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"github.com/modoterra/pingsieve/internal/buildinfo"
	"github.com/modoterra/pingsieve/pkg/config"
	"github.com/modoterra/pingsieve/pkg/metrics"
	"github.com/modoterra/pingsieve/pkg/sieve"
	"github.com/modoterra/pingsieve/pkg/source"
	"github.com/modoterra/pingsieve/pkg/transport/uds"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pingsieve",
	Short: "Forward only the interesting lines of a long-running ping",
	Long: "Pingsieve reads the output of `ping -D x.x.x.x` from stdin and re-emits\n" +
		"only the lines worth looking at: slow round trips, missed sequence\n" +
		"numbers, duplicates, and probe errors. SIGUSR1 prints a status snapshot\n" +
		"to stderr; `pingsieve status` and `pingsieve top` attach over the\n" +
		"control socket.\n\n" +
		"Example: ping -D 8.8.8.8 | pingsieve --max-rtt-ms 250",
	RunE: runSieve,
}

var (
	configPath string

	flagMaxRTT    float64
	flagFormat    string
	flagHeartbeat float64
	flagSeqGap    int
	flagSocket    string
	flagMetrics   string
	flagFollow    string
)

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to pingsieve.yaml")
	rootCmd.Flags().Float64VarP(&flagMaxRTT, "max-rtt-ms", "t", 500, "forward round trips exceeding this many milliseconds")
	rootCmd.Flags().StringVar(&flagFormat, "fmt", "2006-01-02 15:04:05", "Go layout for the timestamp prefix")
	rootCmd.Flags().Float64Var(&flagHeartbeat, "heartbeat-interval", 0, "emit a heartbeat after this many seconds of silence (0 disables)")
	rootCmd.Flags().IntVar(&flagSeqGap, "allowed-seq-gap", 1, "forward when at least this many sequence numbers are missing")
	rootCmd.Flags().StringVar(&flagSocket, "socket", "", "control socket path (empty disables)")
	rootCmd.Flags().StringVar(&flagMetrics, "metrics-listen", "", "Prometheus listen address (empty disables)")
	rootCmd.Flags().StringVar(&flagFollow, "follow", "", "follow this file instead of reading stdin")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig merges the optional yaml file with flag overrides. Flags
// that were set explicitly win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}

	if cmd.Flags().Changed("max-rtt-ms") {
		cfg.MaxRTTMillis = flagMaxRTT
	}
	if cmd.Flags().Changed("fmt") {
		cfg.TimestampFormat = flagFormat
	}
	if cmd.Flags().Changed("heartbeat-interval") {
		cfg.HeartbeatIntervalS = flagHeartbeat
	}
	if cmd.Flags().Changed("allowed-seq-gap") {
		cfg.AllowedSeqGap = flagSeqGap
	}
	if cmd.Flags().Changed("socket") {
		cfg.Socket = flagSocket
	}
	if cmd.Flags().Changed("metrics-listen") {
		cfg.MetricsListen = flagMetrics
	}
	if cmd.Flags().Changed("follow") {
		cfg.Follow = flagFollow
	}
	return cfg, nil
}

func runSieve(cmd *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			logger.Error("invalid configuration", "err", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	if cfg.Follow == "" {
		if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return fmt.Errorf("stdin is a terminal; pipe `ping -D x.x.x.x` into pingsieve or use --follow")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	state := sieve.NewState(time.Now())
	proc := sieve.NewProcessor(state, cfg.Thresholds(), cfg.TimestampFormat, os.Stdout, logger)

	var wg sync.WaitGroup

	// Control socket: serves the same snapshot SIGUSR1 prints, and
	// streams forwarded lines to attached viewers.
	var srv *uds.Server
	if cfg.Socket != "" {
		srv = uds.NewServer(cfg.Socket, logger)
		srv.Handle(uds.MethodPing, func(_ context.Context, _ uds.Message) (any, error) {
			return uds.PingResponse{Pong: true}, nil
		})
		srv.Handle(uds.MethodStatus, func(_ context.Context, _ uds.Message) (any, error) {
			return state.Snapshot(time.Now()), nil
		})
		proc.OnForward(func(line string) {
			srv.BroadcastLine(uds.EventLineForwarded, line)
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(ctx); err != nil {
				logger.Error("control socket error", "err", err)
			}
		}()
		defer srv.Shutdown()
	}

	hb := sieve.NewHeartbeat(state, cfg.HeartbeatInterval(), os.Stderr, cfg.TimestampFormat)
	if srv != nil {
		hb.OnEmit(func(line string) {
			srv.BroadcastLine(uds.EventHeartbeat, line)
		})
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		hb.Run(ctx.Done())
	}()

	// SIGUSR1 writes a snapshot to the secondary channel without
	// touching the main loop.
	usrCh := make(chan os.Signal, 1)
	signal.Notify(usrCh, syscall.SIGUSR1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-usrCh:
				now := time.Now()
				sn := state.Snapshot(now)
				fmt.Fprintf(os.Stderr, "%s %s\n", now.Format(cfg.TimestampFormat), sn)
			}
		}
	}()

	if cfg.MetricsListen != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.Serve(ctx, cfg.MetricsListen, state, logger); err != nil {
				logger.Error("metrics listener error", "err", err)
			}
		}()
	}

	notifySystemd(ctx, logger)

	var lines <-chan string
	if cfg.Follow != "" {
		lines, err = source.TailFile(ctx, cfg.Follow, logger)
		if err != nil {
			return err
		}
	} else {
		lines = source.FromReader(ctx, os.Stdin)
	}

	err = proc.Run(ctx, lines)
	cancel()
	wg.Wait()
	return err
}

// notifySystemd sends READY=1 and keeps the watchdog fed when running
// as a systemd service; outside systemd both calls are no-ops.
func notifySystemd(ctx context.Context, logger *slog.Logger) {
	sent, err := sdnotify.SdNotify(false, sdnotify.SdNotifyReady)
	if err != nil {
		logger.Warn("sd_notify failed", "err", err)
		return
	}
	if !sent {
		return
	}

	interval, err := sdnotify.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sdnotify.SdNotify(false, sdnotify.SdNotifyWatchdog)
			}
		}
	}()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("pingsieve %s (%s) built %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	},
}
