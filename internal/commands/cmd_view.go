package commands

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/treeline/internal/core/eventbus"
	"github.com/hay-kot/treeline/internal/core/logging"
	"github.com/hay-kot/treeline/internal/tui"
)

type ViewCmd struct {
	flags *Flags
	depth int
}

// NewViewCmd creates a new view command
func NewViewCmd(flags *Flags) *ViewCmd {
	return &ViewCmd{flags: flags, depth: -1}
}

// Flags returns the view-specific flags for registration on the root command
func (cmd *ViewCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "depth",
			Usage:       "initial expand depth (overrides config)",
			Sources:     cli.EnvVars("TREELINE_DEPTH"),
			Value:       -1,
			Destination: &cmd.depth,
		},
	}
}

// Run executes the viewer. Exported for use as default command.
func (cmd *ViewCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *ViewCmd) run(ctx context.Context, c *cli.Command) error {
	target := c.Args().First()
	if target == "" {
		target = "."
	}

	cfg := cmd.flags.Config
	if cmd.depth >= 0 {
		cfg.Outline.ExpandDepth = cmd.depth
	}

	doc, err := loadDocument(target, cfg)
	if err != nil {
		return err
	}
	if doc.Len() == 0 {
		return fmt.Errorf("no outline nodes found in %s", target)
	}
	ctx = logging.WithDocument(ctx, target)

	bus := eventbus.New(128)
	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))

	busCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go bus.Start(busCtx)

	m := tui.New(tui.Deps{
		Config: cfg,
		Doc:    doc,
		Bus:    bus,
		Path:   target,
	})

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	log.Debug().Ctx(ctx).Msg("viewer exited")
	return nil
}
