package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/verso/fonts"
	"github.com/ByLCY/verso/layout"
	"github.com/ByLCY/verso/renderer"
	"github.com/ByLCY/verso/verse"
)

// gutterScale 行号字号相对正文字号的比例。
const gutterScale = 0.8

var (
	textColor   = canvas.Hex("#1e1e1e")
	gutterColor = canvas.Hex("#8a8a8a")
)

// Renderer draws verse layouts via github.com/tdewolff/canvas and measures text for the layout stage.
type Renderer struct {
	fontPaths map[fonts.Style]string

	fontMu sync.Mutex
	family *canvas.FontFamily
	faces  map[faceKey]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type faceKey struct {
	kind  verse.NodeKind
	size  float64
	color color.RGBA
}

// Options configures the canvas renderer. Empty paths select the built-in Latin Modern faces.
type Options struct {
	Regular string
	Bold       string
	Italic     string
	BoldItalic string
}

// NewRenderer creates a renderer with the built-in fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer whose faces may come from font files.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{
		fontPaths: map[fonts.Style]string{
			fonts.Regular:    opts.Regular,
			fonts.Bold:       opts.Bold,
			fonts.Italic:     opts.Italic,
			fonts.BoldItalic: opts.BoldItalic,
		},
		faces: map[faceKey]*canvas.FontFace{},
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	sizePt := toPt(result.Settings.FontSize)
	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	writer.SetInfo(result.Meta.Title, "", "", result.Meta.Author, result.Meta.Creator)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawGutter(ctx, page.Gutter, sizePt*gutterScale, result.Settings.LineHeight); err != nil {
			return nil, err
		}
		if err := r.drawRows(ctx, page.Rows, sizePt); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutNodes 实现 layout.Typesetter：按各节点字体的实际字宽贪心折行。
// width 与 fontSize 均为毫米。
func (r *Renderer) LayoutNodes(nodes []verse.Node, width, fontSize float64) ([]layout.TextRow, error) {
	sizePt := toPt(fontSize)
	var toks []token
	for _, n := range nodes {
		face, err := r.face(n.Kind, sizePt, textColor)
		if err != nil {
			return nil, err
		}
		for _, t := range tokenizeContent(n.Value) {
			toks = append(toks, token{
				kind:  n.Kind,
				text:  t,
				space: isSpaceToken(t),
				width: face.TextWidth(t),
				face:  face,
			})
		}
	}
	return wrapTokens(toks, width), nil
}

func (r *Renderer) drawRows(ctx *canvas.Context, rows []layout.TextRow, sizePt float64) error {
	for _, row := range rows {
		for _, span := range row.Spans {
			if strings.TrimSpace(span.Text) == "" {
				continue
			}
			face, err := r.face(span.Kind, sizePt, textColor)
			if err != nil {
				return err
			}
			baseline := baselineOf(face, row.Y, row.Height)
			ctx.DrawText(row.X+span.X, baseline, canvas.NewTextLine(face, span.Text, canvas.Left))
		}
	}
	return nil
}

func (r *Renderer) drawGutter(ctx *canvas.Context, cells []layout.GutterCell, sizePt, lineHeight float64) error {
	if len(cells) == 0 {
		return nil
	}
	face, err := r.face(verse.NodeText, sizePt, gutterColor)
	if err != nil {
		return err
	}
	for _, cell := range cells {
		if !cell.Painted() {
			continue
		}
		baseline := baselineOf(face, cell.Y, lineHeight)
		ctx.DrawText(cell.X, baseline, canvas.NewTextLine(face, cell.Label, canvas.Right))
	}
	return nil
}

// baselineOf 把字体行盒在行高内垂直居中，返回基线坐标（mm）。
func baselineOf(face *canvas.FontFace, top, rowHeight float64) float64 {
	m := face.Metrics()
	return top + (rowHeight-m.LineHeight)/2 + m.Ascent
}

func (r *Renderer) face(kind verse.NodeKind, sizePt float64, col color.RGBA) (*canvas.FontFace, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	key := faceKey{kind: kind, size: sizePt, color: col}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	if r.family == nil {
		family, err := r.loadFamily()
		if err != nil {
			return nil, err
		}
		r.family = family
	}
	f := r.family.Face(sizePt, col, fontStyle(kind), canvas.FontNormal)
	r.faces[key] = f
	return f, nil
}

func (r *Renderer) loadFamily() (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily("verso")
	for _, s := range fonts.Styles {
		data, err := fonts.Load(s, r.fontPaths[s])
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, canvasStyle(s)); err != nil {
			return nil, fmt.Errorf("加载 %s 字体失败: %w", s, err)
		}
	}
	return family, nil
}

func fontStyle(kind verse.NodeKind) canvas.FontStyle {
	switch kind {
	case verse.NodeStrong:
		return canvas.FontBold
	case verse.NodeEm:
		return canvas.FontItalic
	case verse.NodeStrongEm:
		return canvas.FontBold | canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}

func canvasStyle(s fonts.Style) canvas.FontStyle {
	switch s {
	case fonts.Bold:
		return canvas.FontBold
	case fonts.Italic:
		return canvas.FontItalic
	case fonts.BoldItalic:
		return canvas.FontBold | canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
