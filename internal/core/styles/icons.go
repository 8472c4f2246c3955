package styles

// Tree glyphs for the outline viewer.
const (
	GlyphExpanded  = "▾"
	GlyphCollapsed = "▸"
	GlyphLeaf      = "·"

	GlyphBranch = "├─"
	GlyphLast   = "└─"
)
