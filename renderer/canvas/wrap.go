package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/verso/layout"
	"github.com/ByLCY/verso/verse"
)

// token 是折行的最小单位：一段连续的空白或非空白文本，带有所属节点的样式。
type token struct {
	kind  verse.NodeKind
	text  string
	space bool
	width float64
	face  *canvas.FontFace
}

// rowBuilder 累积一行内的 span，相邻同样式的 token 合并为一个 span。
type rowBuilder struct {
	rows  []layout.TextRow
	spans []layout.Span
	width float64
}

func (b *rowBuilder) add(t token) {
	if n := len(b.spans); n > 0 && b.spans[n-1].Kind == t.kind {
		b.spans[n-1].Text += t.text
		b.spans[n-1].Width += t.width
	} else {
		b.spans = append(b.spans, layout.Span{Kind: t.kind, Text: t.text, X: b.width, Width: t.width})
	}
	b.width += t.width
}

func (b *rowBuilder) emit() {
	b.rows = append(b.rows, layout.TextRow{Width: b.width, Spans: b.spans})
	b.spans = nil
	b.width = 0
}

func (b *rowBuilder) empty() bool { return len(b.spans) == 0 }

// wrapTokens 优先在空白处分割，单个词超过限制时按字宽在词内拆分。
// 折行处的空白不会出现在下一行行首。总是至少返回一行。
func wrapTokens(toks []token, width float64) []layout.TextRow {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	b := &rowBuilder{}
	for _, t := range toks {
		if t.space {
			if b.empty() && len(b.rows) > 0 {
				continue
			}
			if !b.empty() && b.width+t.width > limit {
				b.emit()
				continue
			}
			b.add(t)
			continue
		}

		if !b.empty() && b.width+t.width > limit {
			b.emit()
		}
		if t.width <= limit {
			b.add(t)
			continue
		}
		for _, chunk := range splitTokenByWidth(t.text, limit, t.face) {
			c := token{kind: t.kind, text: chunk, width: t.face.TextWidth(chunk), face: t.face}
			if !b.empty() && b.width+c.width > limit {
				b.emit()
			}
			b.add(c)
		}
	}
	if !b.empty() || len(b.rows) == 0 {
		b.emit()
	}
	return b.rows
}

func isSpaceToken(s string) bool {
	for _, r := range s {
		if !breakable(r) {
			return false
		}
	}
	return s != ""
}

// breakable 报告 r 是否为可折行的空白；不换行空格算作词的一部分。
func breakable(r rune) bool {
	return unicode.IsSpace(r) && r != '\u00a0'
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' || r == '\n' {
			continue
		}
		isSpace := breakable(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(tok string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{tok}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range tok {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			if len(runes) < 2 {
				continue
			}
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
