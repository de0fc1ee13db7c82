package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/hay-kot/criterio"

	"github.com/ByLCY/verso/layout"
)

// Validate checks every field and reports all problems at once as criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("verse.line_height", c.Verse.LineHeight, absolutePositive),
		criterio.Run("verse.width", c.Verse.Width, parsesAsLength),
		criterio.Run("verse.font_size", c.Verse.FontSize, parsesAsLength),
		criterio.Run("verse.counter_skip_char", c.Verse.CounterSkipChar, singleRune),
		criterio.Run("page.size", c.Page.Size, knownPageSize),
		criterio.Run("page.margin", c.Page.Margin, absoluteLength),
		criterio.Run("fonts.regular", c.Fonts.Regular, fileExistsOrUnset),
		criterio.Run("fonts.bold", c.Fonts.Bold, fileExistsOrUnset),
		criterio.Run("fonts.italic", c.Fonts.Italic, fileExistsOrUnset),
		criterio.Run("fonts.bold_italic", c.Fonts.BoldItalic, fileExistsOrUnset),
	)
}

func parsesAsLength(v string) error {
	_, err := layout.ParseLength(v)
	return err
}

func absoluteLength(v string) error {
	l, err := layout.ParseLength(v)
	if err != nil {
		return err
	}
	if l.Relative() {
		return errors.New("percentages are not allowed here")
	}
	return nil
}

func absolutePositive(v string) error {
	if err := absoluteLength(v); err != nil {
		return err
	}
	if layout.ParseRawLengthStr(v).ToMM() <= 0 {
		return errors.New("must be greater than 0")
	}
	return nil
}

func singleRune(v string) error {
	if utf8.RuneCountInString(v) != 1 {
		return fmt.Errorf("must be exactly one character, got %q", v)
	}
	return nil
}

func knownPageSize(v string) error {
	if !layout.PageSizeKnown(v) {
		return fmt.Errorf("unknown page size %q", v)
	}
	return nil
}

// fileExistsOrUnset validates that a font path, when given, is a readable file.
func fileExistsOrUnset(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}
