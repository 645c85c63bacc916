package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	httpserver "github.com/roelfdiedericks/devkit/internal/http"
	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/prefs"
	"github.com/roelfdiedericks/devkit/internal/render"
	"github.com/roelfdiedericks/devkit/internal/tools"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// ListCmd lists the catalog
type ListCmd struct {
	Query    []string `arg:"" optional:"" help:"Search terms; every term must match"`
	Category string   `short:"c" help:"Only list tools in this category"`
	JSON     bool     `name:"json" help:"Print metadata as JSON"`
}

func (c *ListCmd) Run(a *app) error {
	metas := a.registry.Search(strings.Join(c.Query, " "))
	if c.Category != "" {
		category := strings.ToLower(c.Category)
		if !slices.Contains(types.Categories, category) {
			return types.InvalidInput("unknown category %q (one of: %s)", c.Category, strings.Join(types.Categories, ", "))
		}
		metas = slices.DeleteFunc(metas, func(m types.Metadata) bool { return m.Category != category })
	}

	if c.JSON {
		out, err := render.JSON(metas)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	fmt.Println(a.out.ToolList(metas))
	return nil
}

// DescribeCmd shows one tool
type DescribeCmd struct {
	Tool string `arg:"" help:"Tool id, see 'devkit list'"`
}

func (c *DescribeCmd) Run(a *app) error {
	tool, ok := a.registry.Get(c.Tool)
	if !ok {
		return unknownTool(c.Tool)
	}
	fmt.Println(a.out.ToolDetail(tools.ToDefinition(tool)))
	return nil
}

// RunCmd executes a tool
type RunCmd struct {
	Tool   string   `arg:"" help:"Tool id, see 'devkit list'"`
	Params []string `arg:"" optional:"" help:"Input fields as key=value; key=@path reads the value from a file"`
	Input  string   `short:"i" help:"Tool input as a JSON object" xor:"source"`
	File   string   `short:"f" help:"Read the tool input JSON from a file, - for stdin" xor:"source" placeholder:"FILE"`
	Out    string   `short:"o" help:"Write the image or file output (or the text) to this path" type:"path"`
	JSON   bool     `name:"json" help:"Print the full result as JSON"`
}

func (c *RunCmd) Run(a *app) error {
	tool, ok := a.registry.Get(c.Tool)
	if !ok {
		return unknownTool(c.Tool)
	}
	input, err := buildInput(tool.Schema(), c.Input, c.File, c.Params, os.Stdin)
	if err != nil {
		return err
	}
	L_debug("run: executing", "tool", c.Tool, "inputBytes", len(input))

	res, err := a.registry.Execute(context.Background(), c.Tool, input)
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := writeOutput(c.Out, res); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, a.errs.Success.Render("wrote "+c.Out))
	}

	if c.JSON {
		out, err := render.JSON(res)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	fmt.Println(a.out.Result(res))
	return nil
}

// ServeCmd runs the HTTP server until interrupted
type ServeCmd struct {
	Listen string `short:"l" help:"Address to listen on (overrides server.listen)"`
	Dev    bool   `help:"Reload templates from disk on each request"`
}

func (c *ServeCmd) Run(a *app) error {
	cfg := a.cfg.Server
	if c.Listen != "" {
		cfg.Listen = c.Listen
	}
	srv, err := httpserver.NewServer(&httpserver.ServerConfig{
		Listen:       cfg.Listen,
		DevMode:      cfg.DevMode || c.Dev,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, a.registry, a.prefs, a.metrics)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.prefs.OnChange(func(s prefs.Snapshot) {
		L_info("prefs: changed", "theme", s.Theme)
	})
	go func() {
		if err := a.prefs.Watch(ctx); err != nil {
			L_warn("prefs: watcher stopped", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Printf("Serving %d tools on http://%s (Ctrl-C to stop)\n", a.registry.Count(), srv.Addr())

	<-ctx.Done()
	L_info("serve: shutting down")
	return srv.Stop()
}

// ThemeCmd shows or sets the stored theme
type ThemeCmd struct {
	Value string `arg:"" optional:"" help:"light, dark or toggle; omit to print the current theme"`
}

func (c *ThemeCmd) Run(a *app) error {
	switch strings.ToLower(c.Value) {
	case "":
		fmt.Println(a.prefs.Theme())
		return nil
	case "toggle":
		theme, err := a.prefs.Toggle()
		if err != nil {
			return err
		}
		fmt.Println(render.New(string(theme), os.Stdout).Success.Render("theme: " + string(theme)))
		return nil
	}

	theme, err := prefs.ParseTheme(c.Value)
	if err != nil {
		return types.WrapInput(err, "theme")
	}
	if err := a.prefs.SetTheme(theme); err != nil {
		return err
	}
	fmt.Println(render.New(string(theme), os.Stdout).Success.Render("theme: " + string(theme)))
	return nil
}

// VersionCmd prints the build version
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("devkit %s\n", version)
	return nil
}
