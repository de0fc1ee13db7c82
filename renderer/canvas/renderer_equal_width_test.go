package canvasrenderer

import (
	"testing"

	"github.com/ByLCY/verso/layout"
	"github.com/ByLCY/verso/verse"
)

// 当第一个词的宽度与容器宽度恰好相等时，折行处的空白不应产生额外的空行或行首空格。
func TestNoBlankRowWhenEqualWidthThenSpace(t *testing.T) {
	r := NewRenderer()
	fontSizeMM := 12 * layout.PtToMm

	first := "SAMPLE-A"
	// 用极大宽度先测量第一个词的宽度（mm）
	measured, err := r.LayoutNodes([]verse.Node{{Kind: verse.NodeText, Value: first}}, 1e6, fontSizeMM)
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	if len(measured) != 1 {
		t.Fatalf("unexpected measured rows: %d", len(measured))
	}
	limit := measured[0].Width
	if limit <= 0 {
		t.Fatalf("invalid measured width: %g", limit)
	}

	// 构造恰好等宽 + 空白 + 下一个词
	rows, err := r.LayoutNodes([]verse.Node{{Kind: verse.NodeText, Value: first + " SAMPLE-B"}}, limit, fontSizeMM)
	if err != nil {
		t.Fatalf("LayoutNodes error: %v", err)
	}
	if got := len(rows); got != 2 {
		t.Fatalf("expected 2 rows without blank, got %d", got)
	}
	if text := rowText(rows[0]); text != first {
		t.Fatalf("first row mismatch: got=%q want=%q", text, first)
	}
	if text := rowText(rows[1]); text != "SAMPLE-B" {
		t.Fatalf("second row mismatch: got=%q want=%q", text, "SAMPLE-B")
	}
}
