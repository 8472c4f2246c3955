package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/treeline/internal/core/config"
	"github.com/hay-kot/treeline/internal/core/styles"
)

type InitCmd struct {
	flags *Flags
	yes   bool
	force bool
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a starter config file with an interactive wizard",
		UsageText: "treeline init [options]",
		Description: `Writes a config file with your chosen theme, render width, and
initial expand depth.

Use --yes to accept all defaults without prompts.
Use --force to overwrite an existing config.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(_ context.Context, c *cli.Command) error {
	path := cmd.flags.ConfigPath

	if _, err := os.Stat(path); err == nil && !cmd.force {
		if cmd.yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", path)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(path + "\nOverwrite?").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(c.Root().Writer, "init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	cfg.DataDir = cmd.flags.DataDir

	if !cmd.yes {
		if err := cmd.promptUser(&cfg); err != nil {
			return err
		}
	}

	if err := writeConfig(&cfg, path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "created config: %s\n", path)
	return nil
}

func (cmd *InitCmd) promptUser(cfg *config.Config) error {
	themes := styles.ThemeNames()
	options := make([]huh.Option[string], len(themes))
	for i, name := range themes {
		options[i] = huh.NewOption(name, name)
	}

	width := strconv.Itoa(cfg.Render.Width)
	depth := strconv.Itoa(cfg.Outline.ExpandDepth)

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Theme").
			Options(options...).
			Value(&cfg.TUI.Theme),
		huh.NewInput().
			Title("Render width").
			Description("Maximum markdown wrap width in columns").
			Value(&width).
			Validate(validateInt(20, 500)),
		huh.NewInput().
			Title("Initial expand depth").
			Description("0 collapses everything, 1 shows top-level children").
			Value(&depth).
			Validate(validateInt(0, 64)),
	))
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Render.Width, _ = strconv.Atoi(width)
	cfg.Outline.ExpandDepth, _ = strconv.Atoi(depth)
	return nil
}

func validateInt(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func writeConfig(cfg *config.Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
