package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|px|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"`},
		{Name: "RawString", Pattern: "`[^`]*`"},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment"),
	)
)

// Document is the root AST node of a .verse file.
type Document struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Title      *StringLiteral `parser:"Newline* 'verse' @(String | RawString)?" json:"title,omitempty"`
	Statements []*Assignment  `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*" json:"statements"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident" json:"key"`
	Value *Value         `parser:"':' Newline* @@" json:"value"`
}

// Value is a property value. Exactly one field is set.
type Value struct {
	String *StringLiteral `parser:"  @(String | RawString)" json:"string,omitempty"`
	Number *string        `parser:"| @Number" json:"number,omitempty"`
	Bool   *Boolean       `parser:"| @('true' | 'false')" json:"bool,omitempty"`
	Ident  *string        `parser:"| @Ident" json:"ident,omitempty"`
}

// Text returns the value as written, without quotes.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Bool != nil:
		return strconv.FormatBool(bool(*v.Bool))
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Truth reports the boolean meaning of the value; ok is false for non-boolean values.
func (v *Value) Truth() (val, ok bool) {
	if v == nil {
		return false, false
	}
	if v.Bool != nil {
		return bool(*v.Bool), true
	}
	if v.String != nil {
		b, err := strconv.ParseBool(string(*v.String))
		return b, err == nil
	}
	return false, false
}

// StringLiteral unquotes Go-style quoted and backquoted strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Boolean captures true/false keywords.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	*b = values[0] == "true"
	return nil
}

// Lookup returns the last value assigned to key.
func (d *Document) Lookup(key string) (*Value, bool) {
	if d == nil {
		return nil, false
	}
	for i := len(d.Statements) - 1; i >= 0; i-- {
		st := d.Statements[i]
		if st != nil && st.Key == key {
			return st.Value, true
		}
	}
	return nil, false
}

// Get returns the text of key, or "" when unset.
func (d *Document) Get(key string) string {
	v, _ := d.Lookup(key)
	return v.Text()
}

// TitleText returns the document title, or "" when none was given.
func (d *Document) TitleText() string {
	if d == nil || d.Title == nil {
		return ""
	}
	return string(*d.Title)
}

// Verse returns the raw verse text with Windows line endings normalised.
func (d *Document) Verse() string {
	return strings.ReplaceAll(d.Get("text"), "\r\n", "\n")
}

// Parse parses a .verse document from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses a .verse document from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// FromText wraps plain verse text in a document with no settings of its own.
func FromText(title, raw string) *Document {
	doc := &Document{}
	if title != "" {
		t := StringLiteral(title)
		doc.Title = &t
	}
	text := StringLiteral(raw)
	doc.Statements = []*Assignment{{Key: "text", Value: &Value{String: &text}}}
	return doc
}

// Set appends an assignment that overrides any earlier value of key.
func (d *Document) Set(key, value string) {
	v := value
	d.Statements = append(d.Statements, &Assignment{Key: key, Value: &Value{Ident: &v}})
}

// SetBool appends a boolean assignment for key.
func (d *Document) SetBool(key string, value bool) {
	b := Boolean(value)
	d.Statements = append(d.Statements, &Assignment{Key: key, Value: &Value{Bool: &b}})
}
