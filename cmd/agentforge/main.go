// Command agentforge runs the tool-using conversational agent: an HTTP
// streaming server by default, or a one-shot deployment to a managed
// reasoning-engine endpoint.
//
// Usage:
//
//	agentforge serve --framework react --model claude-sonnet-4-20250514
//	agentforge deploy --framework graph
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/hupe1980/agentforge"
	"github.com/hupe1980/agentforge/agent"
	"github.com/hupe1980/agentforge/config"
	"github.com/hupe1980/agentforge/deploy"
	"github.com/hupe1980/agentforge/logging"
	"github.com/hupe1980/agentforge/tool"
)

// CLI defines the command-line interface.
type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"1" help:"Start the HTTP streaming server."`
	Deploy  DeployCmd  `cmd:"" help:"Deploy the agent to the configured reasoning-engine endpoint."`
	Version VersionCmd `cmd:"" help:"Show version information."`

	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFormat string `help:"Log format (json or text)." default:"json"`
}

// agentFlags are the agent configuration knobs shared by serve and deploy.
type agentFlags struct {
	Prompt          string  `help:"System prompt for the agent."`
	Industry        string  `help:"Industry tool selector (finance, healthcare)."`
	Framework       string  `help:"Orchestration framework (react or graph)." default:"react" enum:"react,graph"`
	Model           string  `help:"Chat model name." default:"claude-sonnet-4-20250514"`
	FallbackModel   string  `name:"fallback-model" help:"Model backing the fallback tool." default:"gpt-4o-mini"`
	MaxRetries      int     `name:"max-retries" help:"Provider-level retry budget." default:"6"`
	MaxOutputTokens int64   `name:"max-output-tokens" help:"Completion token cap (0 = provider default)."`
	Temperature     float64 `help:"Sampling temperature." default:"0"`
	TopP            float64 `name:"top-p" help:"Nucleus sampling parameter (0 = provider default)."`
	TopK            int64   `name:"top-k" help:"Top-k sampling parameter (0 = provider default)."`
	ReturnSteps     bool    `name:"return-steps" help:"Surface intermediate tool steps (react only)."`
	Verbose         *bool   `default:"true" negatable:"" help:"Per-turn diagnostics (use --no-verbose to disable)."`
}

func (f agentFlags) agentConfig() agent.Config {
	cfg := agent.Config{
		Prompt:          f.Prompt,
		Industry:        tool.Industry(f.Industry),
		Framework:       agent.Framework(f.Framework),
		ModelName:       f.Model,
		MaxRetries:      f.MaxRetries,
		MaxOutputTokens: f.MaxOutputTokens,
		Temperature:     f.Temperature,
		TopP:            f.TopP,
		TopK:            f.TopK,
		ReturnSteps:     f.ReturnSteps,
	}
	if f.Verbose != nil {
		cfg = cfg.WithVerbose(*f.Verbose)
	}
	return cfg
}

func (f agentFlags) newForge(logger logging.Logger) (*agentforge.AgentForge, error) {
	return agentforge.New(f.agentConfig(), func(o *agentforge.Options) {
		o.FallbackModelName = f.FallbackModel
		o.Logger = logger
	})
}

// ServeCmd starts the HTTP streaming server.
type ServeCmd struct {
	agentFlags

	Addr string `help:"Address to listen on." default:":8000"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	forge, err := c.newForge(newLogger(cli))
	if err != nil {
		return err
	}

	return forge.Serve(ctx, c.Addr)
}

// DeployCmd submits the agent to the configured reasoning-engine endpoint.
type DeployCmd struct {
	agentFlags

	DisplayName string `name:"display-name" help:"Engine display name." default:"agentforge"`
	Description string `help:"Engine description." default:"Tool-using conversational agent"`
}

func (c *DeployCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	forge, err := c.newForge(newLogger(cli))
	if err != nil {
		return err
	}

	engine, err := forge.Deploy(ctx, func(o *deploy.ClientOptions) {
		o.DisplayName = c.DisplayName
		o.Description = c.Description
	})
	if err != nil {
		return err
	}

	fmt.Printf("Deployed %s (%s) in %s\n", engine.Name, engine.ResourceID, engine.Region)

	return nil
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("agentforge version %s\n", version)
	return nil
}

func newLogger(cli *CLI) logging.Logger {
	level := logging.LogLevelInfo

	switch cli.LogLevel {
	case "debug":
		level = logging.LogLevelDebug
	case "warn":
		level = logging.LogLevelWarn
	case "error":
		level = logging.LogLevelError
	}

	return logging.NewSlogLogger(level, cli.LogFormat, false)
}

func main() {
	_ = config.LoadDotEnv()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("agentforge"),
		kong.Description("Tool-using conversational agent with streaming HTTP serving and managed deployment."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
