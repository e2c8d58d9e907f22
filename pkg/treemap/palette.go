package treemap

// palette is the default fill palette for items without an explicit color.
// Colors repeat once the item count exceeds the palette size.
var palette = []string{
	"#4E79A7", // blue
	"#F28E2B", // orange
	"#E15759", // red
	"#76B7B2", // teal
	"#59A14F", // green
	"#EDC948", // yellow
	"#B07AA1", // purple
	"#FF9DA7", // pink
	"#9C755F", // brown
	"#BAB0AC", // gray
	"#86BCB6", // sea green
	"#D37295", // rose
	"#A0CBE8", // light blue
	"#F1CE63", // gold
	"#8CD17D", // light green
}

// paletteColor returns the palette entry for an item index.
func paletteColor(i int) string {
	return palette[i%len(palette)]
}

// PaletteSize returns the number of distinct palette colors.
func PaletteSize() int { return len(palette) }
