package model

import (
	"regexp"
	"strings"
	"time"
)

// Palette is the fixed set of colors offered for new tags
var Palette = []string{
	"#4f7cff", // blue
	"#2bb673", // green
	"#f5a623", // amber
	"#e94f64", // red
	"#9b59b6", // purple
	"#7f8c8d", // gray
}

// DefaultTagColor is used when a tag arrives without a usable color
var DefaultTagColor = Palette[0]

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Tag represents a user-defined label a task can carry
type Tag struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// SameName reports whether two tag names collide (trimmed, case-insensitive)
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// InPalette returns true if color is one of the palette entries
func InPalette(color string) bool {
	for _, c := range Palette {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// NormalizeColor returns color if it is a palette entry or a hex color,
// otherwise DefaultTagColor
func NormalizeColor(color string) string {
	color = strings.TrimSpace(color)
	if InPalette(color) || hexColor.MatchString(color) {
		return color
	}
	return DefaultTagColor
}

// CloneTags copies a tag list
func CloneTags(tags []Tag) []Tag {
	if tags == nil {
		return nil
	}
	out := make([]Tag, len(tags))
	copy(out, tags)
	return out
}
