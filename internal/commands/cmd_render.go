package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/ByLCY/verso/layout"
	"github.com/ByLCY/verso/renderer"
	canvasrenderer "github.com/ByLCY/verso/renderer/canvas"
)

type RenderCmd struct {
	flags   *Flags
	version string
	out     io.Writer

	// flags
	output    string
	debugPath string
	verse     verseFlags
}

// NewRenderCmd creates a new render command
func NewRenderCmd(flags *Flags, version string) *RenderCmd {
	return &RenderCmd{flags: flags, version: version, out: os.Stdout}
}

// Register adds the render command to the application
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render a verse to PDF",
		UsageText: "verso render [options] <file>",
		Description: `Lays out a .verse document (or a plain text file) and writes a PDF with
a line number gutter that stays aligned with wrapped lines.

Lines starting with the skip character are shown without a number.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "PDF output path (defaults to the input name with .pdf)",
				Destination: &cmd.output,
			},
			&cli.StringFlag{
				Name:        "debug",
				Usage:       "write the layout as JSON to this path",
				Destination: &cmd.debugPath,
			},
		}, cmd.verse.flags()...),
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	input, err := inputArg(c)
	if err != nil {
		return err
	}
	output := cmd.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
	}

	cfg := cmd.flags.config()
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		Regular:    cfg.Fonts.Regular,
		Bold:       cfg.Fonts.Bold,
		Italic:     cfg.Fonts.Italic,
		BoldItalic: cfg.Fonts.BoldItalic,
	})
	if err := cmd.render(input, output, r); err != nil {
		return fmt.Errorf("render %s: %w", input, err)
	}

	fmt.Fprintf(cmd.out, "wrote %s\n", output)
	return nil
}

// render chains parsing, layout and PDF output.
func (cmd *RenderCmd) render(inputPath, outputPath string, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer is nil")
	}
	doc, err := loadDocument(inputPath)
	if err != nil {
		return err
	}
	cmd.verse.apply(doc)

	ts, ok := r.(layout.Typesetter)
	if !ok {
		return fmt.Errorf("renderer does not implement layout.Typesetter")
	}

	result, err := layout.Build(doc, layout.BuildOptions{
		Typesetter: ts,
		Defaults:   cmd.flags.config().Defaults(),
		Creator:    "verso " + cmd.version,
	})
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	log.Debug().
		Str("input", inputPath).
		Int("lines", len(result.Lines)).
		Int("slots", len(result.Slots)).
		Int("pages", len(result.Pages)).
		Msg("layout complete")

	if cmd.debugPath != "" {
		if err := layout.WriteDebugJSON(result, cmd.debugPath); err != nil {
			return fmt.Errorf("write debug json: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}
