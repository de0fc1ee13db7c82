package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ByLCY/verso/dsl"
)

// verseExt marks files written in the document DSL; any other file is read as
// plain verse text.
const verseExt = ".verse"

// loadDocument reads the document at path.
func loadDocument(path string) (*dsl.Document, error) {
	if strings.EqualFold(filepath.Ext(path), verseExt) {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open document: %w", err)
		}
		defer file.Close()

		doc, err := dsl.Parse(file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return dsl.FromText(title, string(data)), nil
}

// inputArg returns the single positional file argument.
func inputArg(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("expected exactly one input file, got %d", c.Args().Len())
	}
	return c.Args().First(), nil
}
