package engine

import "fmt"

// TextItem is one parsed template text line. It is created at load time and
// never mutated; Text still contains its token markers.
type TextItem struct {
	Indent     int // raw prefix value, -9..9
	IsRelative bool
	IsOneTime  bool
	Text       string
}

// ControlItem holds the generation metadata of one segment.
type ControlItem struct {
	FirstTimeIndent int
	IsFirstTime     bool
	PadSegment      string // empty when the segment has no pad
	TabSize         int    // 0 inherits the engine tab size
}

func newControlItem() *ControlItem {
	return &ControlItem{IsFirstTime: true}
}

// shouldGeneratePad reports whether the pad segment precedes this generation.
// The pad separates repeated generations, so it never runs the first time.
func (c *ControlItem) shouldGeneratePad() bool {
	return c.PadSegment != "" && !c.IsFirstTime
}

// String summarizes the control item for diagnostics and tests.
func (c ControlItem) String() string {
	return fmt.Sprintf("first time: %t / FTI: %d / PAD: %s / TAB: %d",
		c.IsFirstTime, c.FirstTimeIndent, c.PadSegment, c.TabSize)
}
