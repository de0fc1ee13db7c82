package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/ByLCY/verso/layout"
	"github.com/ByLCY/verso/tui"
)

type ViewCmd struct {
	flags *Flags

	// flags
	verse verseFlags
}

// NewViewCmd creates a new view command
func NewViewCmd(flags *Flags) *ViewCmd {
	return &ViewCmd{flags: flags}
}

// Register adds the view command to the application
func (cmd *ViewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "view",
		Usage:     "Show a verse in the terminal",
		UsageText: "verso view [options] <file>",
		Description: `Opens a scrollable terminal view of the verse. Line numbers follow the
terminal width and are re-measured whenever the window is resized.

Press q, esc or ctrl+c to quit.`,
		Flags:  cmd.verse.flags(),
		Action: cmd.run,
	})

	return app
}

func (cmd *ViewCmd) run(ctx context.Context, c *cli.Command) error {
	input, err := inputArg(c)
	if err != nil {
		return err
	}
	doc, err := loadDocument(input)
	if err != nil {
		return err
	}
	cmd.verse.apply(doc)

	opts, err := layout.ResolveOptions(doc, cmd.flags.config().Defaults())
	if err != nil {
		return fmt.Errorf("invalid verse options: %w", err)
	}

	m := tui.New(doc.TitleText(), doc.Verse(), opts, cmd.logger())
	return tui.Run(ctx, m)
}

// logger returns the viewer's logger. The alternate screen owns the terminal,
// so without --log-file the viewer does not log at all.
func (cmd *ViewCmd) logger() zerolog.Logger {
	if cmd.flags.LogFile == "" {
		return zerolog.Nop()
	}
	return log.With().Str("component", "tui").Logger()
}
