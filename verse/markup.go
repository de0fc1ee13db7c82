package verse

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// NodeKind is the semantic emphasis of a formatted node.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeStrong
	NodeEm
	NodeStrongEm // strong text inside an italic span
)

func (k NodeKind) String() string {
	switch k {
	case NodeStrong:
		return "strong"
	case NodeEm:
		return "em"
	case NodeStrongEm:
		return "strong-em"
	default:
		return "text"
	}
}

// MarshalText lets nodes show up readably in debug JSON.
func (k NodeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Node is a run of text carrying one emphasis kind. Hosts decide how a kind is
// materialised (font face, terminal attribute, markup element).
type Node struct {
	Kind  NodeKind `json:"kind"`
	Value string   `json:"value"`
}

// Placeholder keeps an otherwise empty line one row tall.
const Placeholder = "\u00a0"

var (
	boldPattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*\s](?:[^*]*[^*\s])?)\*`)
)

// strongRun stands in for a whole strong node during the italic pass.
const strongRun = '\uE000'

// Format strips a leading skip marker from line and splits the remainder into
// text, strong and em nodes. Bold is resolved first; the italic pass then runs
// over the line with every strong node collapsed to one opaque rune, so an
// italic span may enclose bold text (`*a **b** c*`, `***x***`). Unbalanced
// markers stay literal.
func Format(line, marker string) []Node {
	if marker != "" && strings.HasPrefix(line, marker) {
		line = strings.Replace(line, marker, "", 1)
	}
	if line == "" {
		return []Node{{Kind: NodeText, Value: Placeholder}}
	}

	nodes := split(line, boldPattern, NodeStrong)
	if strings.ContainsRune(line, strongRun) {
		return italicizeText(nodes)
	}
	return italicize(nodes)
}

// italicize runs the italic pattern across the bold split.
func italicize(nodes []Node) []Node {
	var b strings.Builder
	var strong []string
	for _, n := range nodes {
		if n.Kind == NodeStrong {
			b.WriteRune(strongRun)
			strong = append(strong, n.Value)
			continue
		}
		b.WriteString(n.Value)
	}
	s := b.String()

	out := make([]Node, 0, len(nodes))
	next := 0
	emit := func(text string, em bool) {
		for text != "" {
			i := strings.IndexRune(text, strongRun)
			if i < 0 {
				out = append(out, Node{Kind: emphasized(NodeText, em), Value: text})
				return
			}
			if i > 0 {
				out = append(out, Node{Kind: emphasized(NodeText, em), Value: text[:i]})
			}
			out = append(out, Node{Kind: emphasized(NodeStrong, em), Value: strong[next]})
			next++
			text = text[i+utf8.RuneLen(strongRun):]
		}
	}

	last := 0
	for _, m := range italicPattern.FindAllStringSubmatchIndex(s, -1) {
		emit(s[last:m[0]], false)
		emit(s[m[2]:m[3]], true)
		last = m[1]
	}
	emit(s[last:], false)
	return out
}

// italicizeText searches only the text nodes. Used when the line itself
// contains strongRun and the collapsed form would be ambiguous.
func italicizeText(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != NodeText {
			out = append(out, n)
			continue
		}
		out = append(out, split(n.Value, italicPattern, NodeEm)...)
	}
	return out
}

func emphasized(kind NodeKind, em bool) NodeKind {
	if !em {
		return kind
	}
	if kind == NodeStrong {
		return NodeStrongEm
	}
	return NodeEm
}

// FormatLines formats every line of a parse pass.
func FormatLines(lines []LogicalLine, marker string) [][]Node {
	out := make([][]Node, len(lines))
	for i, l := range lines {
		out[i] = Format(l.Text, marker)
	}
	return out
}

// PlainText joins node values without any emphasis markers.
func PlainText(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.Value)
	}
	return b.String()
}

func split(s string, re *regexp.Regexp, kind NodeKind) []Node {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return []Node{{Kind: NodeText, Value: s}}
	}

	var nodes []Node
	last := 0
	for _, m := range matches {
		if m[0] > last {
			nodes = append(nodes, Node{Kind: NodeText, Value: s[last:m[0]]})
		}
		nodes = append(nodes, Node{Kind: kind, Value: s[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(s) {
		nodes = append(nodes, Node{Kind: NodeText, Value: s[last:]})
	}
	return nodes
}
