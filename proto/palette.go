package proto

import "math/rand"

// Palette is the fixed set of colors assigned to participants at join
// time. Assignment is independent per join; collisions are accepted.
var Palette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#06b6d4", // cyan
	"#3b82f6", // blue
	"#8b5cf6", // violet
	"#ec4899", // pink
}

var paletteIndex = func() int { return rand.Intn(len(Palette)) }

// AssignColor picks a color from the palette for a joining participant.
func AssignColor() string { return Palette[paletteIndex()] }
