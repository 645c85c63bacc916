// Command devkit runs developer utility tools from the terminal or serves
// them over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/roelfdiedericks/devkit/internal/config"
	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/metrics"
	"github.com/roelfdiedericks/devkit/internal/paths"
	"github.com/roelfdiedericks/devkit/internal/prefs"
	"github.com/roelfdiedericks/devkit/internal/rates"
	"github.com/roelfdiedericks/devkit/internal/render"
	"github.com/roelfdiedericks/devkit/internal/tools"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config string `help:"Path to devkit.toml (default: ./devkit.toml, then ~/.devkit/devkit.toml)" type:"path" placeholder:"FILE"`
	Home   string `help:"Data directory (default: ~/.devkit or $DEVKIT_HOME)" type:"path" placeholder:"DIR"`
	Debug  bool   `short:"d" help:"Enable debug logging"`
}

// CLI is the kong command tree
type CLI struct {
	Globals

	List     ListCmd     `cmd:"" help:"List tools, optionally filtered by search terms"`
	Describe DescribeCmd `cmd:"" help:"Show a tool's description and input fields"`
	Run      RunCmd      `cmd:"" help:"Run a tool"`
	Serve    ServeCmd    `cmd:"" help:"Serve the web UI and JSON API"`
	Theme    ThemeCmd    `cmd:"" help:"Show or change the colour theme"`
	Version  VersionCmd  `cmd:"" help:"Print the version"`
}

// app is the environment shared by commands, built only when a command needs it
type app struct {
	cfg      *config.Config
	prefs    *prefs.Store
	metrics  *metrics.MetricsManager
	registry *tools.Registry
	out      render.Styles
	errs     render.Styles
}

func newApp(g *Globals) (*app, error) {
	if g.Home != "" {
		paths.SetBaseDir(g.Home)
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel()
	if g.Debug {
		level = LevelDebug
	}
	SetLevel(level)
	L_debug("devkit starting", "version", version, "config", cfg.Source)

	prefsPath, err := paths.PrefsPath()
	if err != nil {
		return nil, err
	}
	store, err := prefs.Load(prefsPath)
	if err != nil {
		return nil, err
	}

	m := metrics.GetInstance()
	if !cfg.Metrics.DisablePersistence {
		dbPath, err := paths.MetricsPath()
		if err == nil {
			err = m.OpenPersistence(dbPath)
		}
		if err != nil {
			L_warn("metrics: persistence disabled", "error", err)
		}
	}

	client := rates.NewClient(rates.ClientConfig{
		Endpoint: cfg.Currency.Endpoint,
		Timeout:  cfg.Currency.Timeout.Duration,
		CacheTTL: cfg.Currency.CacheTTL.Duration,
	})

	reg := tools.NewRegistryWithMetrics(m)
	tools.RegisterDefaults(reg, tools.ToolsConfig{
		Disabled: cfg.Tools.Disabled,
		Rates:    client,
		Theme:    func() string { return string(store.Theme()) },
	})

	theme := string(store.Theme())
	return &app{
		cfg:      cfg,
		prefs:    store,
		metrics:  m,
		registry: reg,
		out:      render.New(theme, os.Stdout),
		errs:     render.New(theme, os.Stderr),
	}, nil
}

// Close flushes metrics to disk
func (a *app) Close() {
	if err := a.metrics.Close(); err != nil {
		L_warn("metrics: close failed", "error", err)
	}
}

func main() {
	Init(&Config{Level: LevelWarn, TimeFormat: "15:04:05"})

	var cli CLI
	var a *app
	ctx := kong.Parse(&cli,
		kong.Name("devkit"),
		kong.Description("Developer utility tools: encoders, formatters, generators, converters and calculators."),
		kong.UsageOnError(),
		kong.BindSingletonProvider(func() (*app, error) {
			var err error
			a, err = newApp(&cli.Globals)
			return a, err
		}),
	)

	err := ctx.Run(&cli.Globals)
	if a != nil {
		a.Close()
	}
	if err != nil {
		styles := render.New("dark", os.Stderr)
		if a != nil {
			styles = a.errs
		}
		fmt.Fprintln(os.Stderr, styles.Error(err))
		os.Exit(1)
	}
}
