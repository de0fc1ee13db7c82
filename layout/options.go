package layout

import "github.com/ByLCY/verso/verse"

// BuildOptions 配置布局阶段所需的依赖与默认值。
type BuildOptions struct {
	Typesetter Typesetter
	Defaults   Defaults
	Creator    string
}

// Defaults 为文档未声明的参数提供取值，字段均为 DSL 字面量（如 "22"、"12pt"、"100%"）。
type Defaults struct {
	LineHeight      string
	Width           string
	FontSize        string
	NoLineNumbers   bool
	CounterSkipChar string
	PageSize        string
	Margin          string
}

// StockDefaults 返回内置默认值。
func StockDefaults() Defaults {
	o := verse.DefaultOptions()
	return Defaults{
		LineHeight:      "22",
		Width:           o.Width,
		FontSize:        "12pt",
		CounterSkipChar: o.CounterSkipChar,
		PageSize:        "A4",
		Margin:          "20mm",
	}
}

// Typesetter 负责按宽度约束把一条已格式化的诗行折成若干可绘制的行。
// width 与 fontSize 单位均为毫米；返回的行至少有一行。
type Typesetter interface {
	LayoutNodes(nodes []verse.Node, width, fontSize float64) ([]TextRow, error)
}
