package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/ByLCY/verso/layout"
	"github.com/ByLCY/verso/verse"
)

type NumbersCmd struct {
	flags *Flags
	out   io.Writer

	// flags
	verse verseFlags
}

// NewNumbersCmd creates a new numbers command
func NewNumbersCmd(flags *Flags) *NumbersCmd {
	return &NumbersCmd{flags: flags, out: os.Stdout}
}

// Register adds the numbers command to the application
func (cmd *NumbersCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "numbers",
		Usage:     "Print the gutter labels of a verse",
		UsageText: "verso numbers [options] <file>",
		Description: `Prints every logical line next to the label the gutter would show for it,
assuming no line wraps. Useful to check numbering and label density.`,
		Flags:  cmd.verse.flags(),
		Action: cmd.run,
	})

	return app
}

func (cmd *NumbersCmd) run(ctx context.Context, c *cli.Command) error {
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
	return writeNumbers(cmd.out, doc.Verse(), opts)
}

// writeNumbers prints one row per logical line. Without a surface every line
// occupies one row, so slots and lines correspond one to one.
func writeNumbers(out io.Writer, raw string, opts verse.Options) error {
	lines := verse.Parse(raw)
	slots := verse.Measure(lines, nil, opts.LineHeight, opts.CounterSkipChar)
	labels := verse.Paint(slots)

	w := tabwriter.NewWriter(out, 0, 0, 0, ' ', tabwriter.AlignRight)
	for i, l := range lines {
		label := labels[i]
		if opts.NoLineNumbers || label == verse.Placeholder {
			label = ""
		}
		text := verse.PlainText(verse.Format(l.Text, opts.CounterSkipChar))
		if text == verse.Placeholder {
			text = ""
		}
		fmt.Fprintf(w, "%s\t  %s\n", label, text)
	}
	return w.Flush()
}
