package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/config"
	"github.com/alfredjeanlab/sankalp/internal/console"
	"github.com/alfredjeanlab/sankalp/internal/events"
	"github.com/alfredjeanlab/sankalp/internal/gateway"
	"github.com/alfredjeanlab/sankalp/internal/session"
	"github.com/alfredjeanlab/sankalp/internal/ui"
	"github.com/spf13/cobra"
)

// annotationOffline marks commands that run without a backend URL.
const annotationOffline = "offline"

var (
	envFile    string
	jsonOutput bool
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
	gw     *gateway.Gateway
	pub    events.Publisher
	app    *console.App
)

var rootCmd = &cobra.Command{
	Use:           "sankalp <command>",
	Short:         "Admin console for the institute's records backend",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Annotations[annotationOffline] == "" {
			if err := cfg.RequireAPIURL(); err != nil {
				return err
			}
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
		return setup(cmd.ErrOrStderr())
	},
}

// setup wires the session store, gateway, event publisher and console.
func setup(stderr io.Writer) error {
	var store session.Store = &session.MemoryStore{}
	if cfg.PersistSession {
		path, err := session.DefaultPath(cfg.StateDir)
		if err != nil {
			return fmt.Errorf("resolving session path: %w", err)
		}
		store = session.NewFileStore(path)
	}
	mgr := session.NewManager(store, logger)
	mgr.Restore()

	gw = gateway.New(
		gateway.NewHTTPTransport(cfg.APIURL, nil),
		mgr,
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithLogger(logger),
	)

	pub = &events.NoopPublisher{}
	if cfg.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			// Events are best effort; the console works without them.
			logger.Warn("events disabled", "url", cfg.NATSURL, "error", err)
		} else {
			pub = p
		}
	}

	app = console.New(mgr, client.New(gw),
		console.WithNotifier(terminalNotifier(stderr)),
		console.WithPublisher(pub),
		console.WithLogger(logger),
	)
	return nil
}

// teardown runs after every command, failed ones included.
func teardown() {
	if app != nil {
		app.Wait()
		app = nil
	}
	if gw != nil {
		gw.Close()
		gw = nil
	}
	if pub != nil {
		pub.Close()
		pub = nil
	}
}

// terminalNotifier prints console notices to w, colored by level.
func terminalNotifier(w io.Writer) console.Notifier {
	return console.NotifierFunc(func(level console.Level, msg string) {
		switch level {
		case console.LevelSuccess:
			fmt.Fprintln(w, ui.RenderSuccess("✓ "+msg))
		case console.LevelError:
			fmt.Fprintln(w, ui.RenderError("Error: "+msg))
		default:
			fmt.Fprintln(w, msg)
		}
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DotEnvFile, "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "records", Title: "Records:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	cobra.OnFinalize(teardown)
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	// Records
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(feesCmd)
	rootCmd.AddCommand(attendanceCmd)
	rootCmd.AddCommand(expensesCmd)
	rootCmd.AddCommand(classesCmd)

	// System
	rootCmd.AddCommand(watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !console.Reported(err) {
			fmt.Fprintln(os.Stderr, ui.RenderError("Error: "+err.Error()))
		}
		os.Exit(1)
	}
}
