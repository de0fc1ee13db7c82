package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/ByLCY/verso/dsl"
	"github.com/ByLCY/verso/internal/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// config returns the loaded config, or the stock config when Before did not run.
func (f *Flags) config() *config.Config {
	if f.Config == nil {
		cfg := config.DefaultConfig()
		return &cfg
	}
	return f.Config
}

// verseFlags are the per-invocation overrides shared by render, view and numbers.
// They take precedence over both the config file and the document.
type verseFlags struct {
	lineHeight    string
	width         string
	noLineNumbers bool
	skipChar      string
}

func (v *verseFlags) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "line-height",
			Usage:       "height of one rendered row, e.g. 22, 8mm, 14pt",
			Destination: &v.lineHeight,
		},
		&cli.StringFlag{
			Name:        "width",
			Usage:       "text column width as a percentage or absolute length",
			Destination: &v.width,
		},
		&cli.BoolFlag{
			Name:        "no-line-numbers",
			Usage:       "hide the line number gutter",
			Destination: &v.noLineNumbers,
		},
		&cli.StringFlag{
			Name:        "skip-char",
			Usage:       "marker character that excludes a line from numbering",
			Destination: &v.skipChar,
		},
	}
}

// apply appends the overrides to doc so that they win over its own assignments.
func (v *verseFlags) apply(doc *dsl.Document) {
	if v.lineHeight != "" {
		doc.Set("lineHeight", v.lineHeight)
	}
	if v.width != "" {
		doc.Set("width", v.width)
	}
	if v.noLineNumbers {
		doc.SetBool("noLineNumbers", true)
	}
	if v.skipChar != "" {
		doc.Set("counterSkipChar", v.skipChar)
	}
}
