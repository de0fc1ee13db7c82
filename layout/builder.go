package layout

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/verso/dsl"
	"github.com/ByLCY/verso/verse"
)

const (
	gutterColumn = 12.0 // 行号栏宽度（mm）
	gutterPad    = 3.0  // 行号与正文之间的留白（mm）
)

var pageSizes = map[string][2]float64{
	"a4":     {210, 297},
	"a5":     {148, 210},
	"letter": {215.9, 279.4},
}

// Build 根据 .verse 文档计算诗行折行、行号与分页结果。
//
// 折行由 Typesetter 完成；每条逻辑行的渲染高度 = 行数 × 行高，再交给
// verse.Measure 得到与正文逐行对齐的行号格。
func Build(doc *dsl.Document, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}

	settings, margin, pageW, pageH, err := resolveSettings(doc, opts.Defaults.withStock())
	if err != nil {
		return nil, err
	}

	lines := verse.Parse(doc.Verse())
	marker := settings.Options.CounterSkipChar
	fragments := verse.FormatLines(lines, marker)

	lineLayouts := make([]LineLayout, len(lines))
	rowsByLine := make([][]TextRow, len(lines))
	heights := make(verse.Heights, len(lines))
	for i, nodes := range fragments {
		rows, err := opts.Typesetter.LayoutNodes(nodes, settings.TextWidth, settings.FontSize)
		if err != nil {
			return nil, fmt.Errorf("排版第 %d 行失败: %w", i+1, err)
		}
		if len(rows) == 0 {
			rows = []TextRow{{}}
		}
		rowsByLine[i] = rows
		heights[i] = float64(len(rows)) * settings.LineHeight
		lineLayouts[i] = LineLayout{Line: lines[i], Rows: len(rows), Height: heights[i]}
	}

	slots := verse.Measure(lines, heights, settings.LineHeight, marker)

	collector := newPageCollector(pageW, pageH, margin, settings.LineHeight)
	textX := margin.Left + settings.GutterWidth
	k := 0
	for i, rows := range rowsByLine {
		for _, row := range rows {
			acc, y := collector.place(k)
			row.Line = i
			row.X = textX
			row.Y = y
			row.Height = settings.LineHeight
			acc.rows = append(acc.rows, row)
			k++
		}
	}

	if !settings.Options.NoLineNumbers {
		labels := verse.Paint(slots)
		gutterX := margin.Left + settings.GutterWidth - gutterPad
		for i, slot := range slots {
			acc, y := collector.place(i)
			acc.gutter = append(acc.gutter, GutterCell{Slot: slot, Label: labels[i], X: gutterX, Y: y})
		}
	}

	return &Result{
		Pages: collector.pages(),
		Meta: DocumentMeta{
			Title:   doc.TitleText(),
			Author:  doc.Get("author"),
			Creator: opts.Creator,
		},
		Settings: settings,
		Lines:    lineLayouts,
		Slots:    slots,
		Stride:   verse.Stride(slots),
	}, nil
}

func (d Defaults) withStock() Defaults {
	s := StockDefaults()
	if d.LineHeight == "" {
		d.LineHeight = s.LineHeight
	}
	if d.Width == "" {
		d.Width = s.Width
	}
	if d.FontSize == "" {
		d.FontSize = s.FontSize
	}
	if d.CounterSkipChar == "" {
		d.CounterSkipChar = s.CounterSkipChar
	}
	if d.PageSize == "" {
		d.PageSize = s.PageSize
	}
	if d.Margin == "" {
		d.Margin = s.Margin
	}
	return d
}

// resolveSettings 合并文档参数与默认值，并换算为毫米。
func resolveSettings(doc *dsl.Document, d Defaults) (Settings, Margin, float64, float64, error) {
	pick := func(key, fallback string) string {
		if v := strings.TrimSpace(doc.Get(key)); v != "" {
			return v
		}
		return fallback
	}

	var s Settings
	s.PageSize = pick("page", d.PageSize)
	pageW, pageH, err := resolvePageSize(s.PageSize)
	if err != nil {
		return s, Margin{}, 0, 0, err
	}

	m, err := absoluteLength("margin", pick("margin", d.Margin))
	if err != nil {
		return s, Margin{}, 0, 0, err
	}
	margin := Margin{Top: m, Right: m, Bottom: m, Left: m}

	lineHeight, err := absoluteLength("lineHeight", pick("lineHeight", d.LineHeight))
	if err != nil {
		return s, margin, 0, 0, err
	}
	if lineHeight <= 0 {
		return s, margin, 0, 0, fmt.Errorf("lineHeight 必须大于 0")
	}
	s.LineHeight = lineHeight

	fontSize, err := ParseLength(pick("fontSize", d.FontSize))
	if err != nil {
		return s, margin, 0, 0, fmt.Errorf("fontSize: %w", err)
	}
	s.FontSize = fontSize.Resolve(lineHeight)
	if s.FontSize <= 0 {
		return s, margin, 0, 0, fmt.Errorf("fontSize 必须大于 0")
	}

	skip := pick("counterSkipChar", d.CounterSkipChar)
	if utf8.RuneCountInString(skip) != 1 {
		return s, margin, 0, 0, fmt.Errorf("counterSkipChar 必须是单个字符: %q", skip)
	}

	noNumbers := d.NoLineNumbers
	if v, ok := doc.Lookup("noLineNumbers"); ok {
		b, ok := v.Truth()
		if !ok {
			return s, margin, 0, 0, fmt.Errorf("noLineNumbers 需要 true 或 false: %q", v.Text())
		}
		noNumbers = b
	}
	if !noNumbers {
		s.GutterWidth = gutterColumn
	}

	widthRaw := pick("width", d.Width)
	width, err := ParseLength(widthRaw)
	if err != nil {
		return s, margin, 0, 0, fmt.Errorf("width: %w", err)
	}
	available := pageW - margin.Left - margin.Right - s.GutterWidth
	if available <= 0 {
		return s, margin, 0, 0, fmt.Errorf("页面 %s 在边距 %gmm 下没有正文空间", s.PageSize, m)
	}
	s.TextWidth = math.Min(width.Resolve(available), available)
	if s.TextWidth <= 0 {
		return s, margin, 0, 0, fmt.Errorf("width 必须大于 0")
	}

	s.Options = verse.Options{
		LineHeight:      lineHeight / PxToMm,
		Width:           widthRaw,
		NoLineNumbers:   noNumbers,
		CounterSkipChar: skip,
	}
	return s, margin, pageW, pageH, nil
}

// ResolveOptions returns the verse options a document resolves to under defaults,
// validated the same way Build validates them.
func ResolveOptions(doc *dsl.Document, defaults Defaults) (verse.Options, error) {
	if doc == nil {
		return verse.Options{}, fmt.Errorf("文档为空")
	}
	s, _, _, _, err := resolveSettings(doc, defaults.withStock())
	if err != nil {
		return verse.Options{}, err
	}
	return s.Options, nil
}

func absoluteLength(name, raw string) (float64, error) {
	l, err := ParseLength(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if l.Relative() {
		return 0, fmt.Errorf("%s 不支持百分比: %s", name, raw)
	}
	return l.ToMM(), nil
}

func resolvePageSize(name string) (float64, float64, error) {
	size, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, fmt.Errorf("不支持的页面尺寸: %s", name)
	}
	return size[0], size[1], nil
}

// PageSizeKnown 报告 name 是否为支持的页面尺寸。
func PageSizeKnown(name string) bool {
	_, _, err := resolvePageSize(name)
	return err == nil
}

type pageAccumulator struct {
	rows   []TextRow
	gutter []GutterCell
}

// pageCollector 按行序号把正文行与行号格分配到页面；二者各自独立编号，
// 因此同一序号的正文行与行号格总在同一页同一高度。
type pageCollector struct {
	width       float64
	height      float64
	margin      Margin
	lineHeight  float64
	rowsPerPage int
	accs        []*pageAccumulator
}

func newPageCollector(width, height float64, margin Margin, lineHeight float64) *pageCollector {
	usable := height - margin.Top - margin.Bottom
	rpp := int(math.Floor(usable / lineHeight))
	if rpp < 1 {
		rpp = 1
	}
	pc := &pageCollector{
		width:       width,
		height:      height,
		margin:      margin,
		lineHeight:  lineHeight,
		rowsPerPage: rpp,
	}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	return acc
}

// place 返回第 k 行所在的页面与行顶部坐标，必要时追加新页。
func (pc *pageCollector) place(k int) (*pageAccumulator, float64) {
	page := k / pc.rowsPerPage
	for len(pc.accs) <= page {
		pc.newPage()
	}
	y := pc.margin.Top + float64(k%pc.rowsPerPage)*pc.lineHeight
	return pc.accs[page], y
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:  pc.width,
			Height: pc.height,
			Margin: pc.margin,
			Rows:   acc.rows,
			Gutter: acc.gutter,
		}
	}
	return out
}
