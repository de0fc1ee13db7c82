// Package fonts 提供内置的 Latin Modern Roman 字体数据，按强调样式取用。
package fonts

import (
	"fmt"
	"os"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// Style 对应诗行中的一种强调样式。
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

// Styles 列出渲染一首诗所需的全部样式。
var Styles = []Style{Regular, Bold, Italic, BoldItalic}

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bold-italic"
	default:
		return "regular"
	}
}

// Builtin 返回内置字体数据。
func Builtin(style Style) []byte {
	switch style {
	case Bold:
		return lmroman10bold.TTF
	case Italic:
		return lmroman10italic.TTF
	case BoldItalic:
		return lmroman10bolditalic.TTF
	default:
		return lmroman10regular.TTF
	}
}

// Load 返回 style 的字体数据：path 非空时读取该文件，否则使用内置字体。
func Load(style Style, path string) ([]byte, error) {
	if path == "" {
		return Builtin(style), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 字体 %s 失败: %w", style, path, err)
	}
	return data, nil
}
