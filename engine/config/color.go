package config

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor turns a CSS color name ("midnightblue") or a hex string
// ("#191970") into normalized RGBA components. Alpha is always 1.
func ParseColor(s string) ([4]float32, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[name]; ok {
		return [4]float32{
			float32(c.R) / 255,
			float32(c.G) / 255,
			float32(c.B) / 255,
			1,
		}, nil
	}
	c, err := colorful.Hex(name)
	if err != nil {
		return [4]float32{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), 1}, nil
}

// ClearColorRGBA returns the parsed clear color.
func (r RendererConfig) ClearColorRGBA() ([4]float32, error) {
	return ParseColor(r.ClearColor)
}
