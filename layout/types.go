package layout

import "github.com/ByLCY/verso/verse"

// 该文件定义布局结果，供布局计算、渲染与调试 JSON 共用。所有坐标与尺寸单位均为毫米。

// Result 保存布局后的页面、排版参数与诗行编号。
type Result struct {
	Pages    []Page       `json:"pages"`
	Meta     DocumentMeta `json:"meta"`
	Settings Settings     `json:"settings"`
	Lines    []LineLayout `json:"lines"`
	Slots    []verse.Slot `json:"slots"`
	Stride   int          `json:"stride"`
}

// Settings 记录解析后的排版参数（文档值优先，其次为默认值）。
type Settings struct {
	Options     verse.Options `json:"options"`
	LineHeight  float64       `json:"lineHeight"` // mm
	FontSize    float64       `json:"fontSize"`   // mm
	TextWidth   float64       `json:"textWidth"`  // mm
	GutterWidth float64       `json:"gutterWidth"`
	PageSize    string        `json:"pageSize"`
}

// LineLayout 描述一条逻辑行被排版后占用的行数。
type LineLayout struct {
	Line   verse.LogicalLine `json:"line"`
	Rows   int               `json:"rows"`
	Height float64           `json:"height"`
}

// Page 记录页面尺寸、边距与该页上的文本行和行号。
type Page struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Margin Margin       `json:"margin"`
	Rows   []TextRow    `json:"rows"`
	Gutter []GutterCell `json:"gutter,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextRow 表示排版后的一行（可能是某条逻辑行的折行部分）。
type TextRow struct {
	Line   int     `json:"line"` // 所属逻辑行下标
	X      float64 `json:"x"`
	Y      float64 `json:"y"` // 行顶部
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Spans  []Span  `json:"spans"`
}

// Span 是一行内同一强调样式的连续文本。X 相对所在行的起点。
type Span struct {
	Kind  verse.NodeKind `json:"kind"`
	Text  string         `json:"text"`
	X     float64        `json:"x"`
	Width float64        `json:"width"`
}

// GutterCell 是行号栏中的一格；Label 为空白占位时不绘制。
type GutterCell struct {
	Slot  verse.Slot `json:"slot"`
	Label string     `json:"label"`
	X     float64    `json:"x"` // 行号右对齐的基准
	Y     float64    `json:"y"`
}

// Painted 报告该格是否需要绘制数字。
func (c GutterCell) Painted() bool { return c.Label != verse.Placeholder && c.Label != "" }

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Creator string `json:"creator"`
}
