package service

import (
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// The path rasterizer has no glyph support, so text elements are lifted out
// of the markup before shape rasterization and composited onto the canvas
// afterwards with an embedded typeface.

// svgText is one extracted <text> element.
type svgText struct {
	x, y   float64 // y is the SVG baseline, which matches the font drawer's dot
	size   float64
	anchor string
	fill   color.Color
	value  string
}

var textElementRe = regexp.MustCompile(`(?s)<text\b[^>]*/>|<text\b[^>]*>.*?</text>`)

var (
	fontOnce sync.Once
	baseFont *opentype.Font
	fontErr  error
)

func loadBaseFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		baseFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return baseFont, fontErr
}

// extractText pulls every <text> element out of svg, returning the parsed
// runs and the markup with those elements removed. Character data is
// XML-unescaped by the tokenizer, so values arrive ready to draw.
func extractText(svg string) ([]svgText, string, error) {
	var texts []svgText

	dec := xml.NewDecoder(strings.NewReader(svg))
	var current *svgText
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("parse markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "text" {
				continue
			}
			el := svgText{size: 16, anchor: "start", fill: color.Black}
			for _, attr := range t.Attr {
				switch attr.Name.Local {
				case "x":
					el.x = parseFloatAttr(attr.Value, el.x)
				case "y":
					el.y = parseFloatAttr(attr.Value, el.y)
				case "font-size":
					el.size = parseFloatAttr(attr.Value, el.size)
				case "text-anchor":
					el.anchor = attr.Value
				case "fill":
					if c, ok := parseHexColor(attr.Value); ok {
						el.fill = c
					}
				}
			}
			current = &el
		case xml.CharData:
			if current != nil {
				current.value += string(t)
			}
		case xml.EndElement:
			if t.Name.Local == "text" && current != nil {
				current.value = strings.TrimSpace(current.value)
				texts = append(texts, *current)
				current = nil
			}
		}
	}

	return texts, textElementRe.ReplaceAllString(svg, ""), nil
}

// drawText composites the extracted runs onto the rasterized canvas.
func drawText(img *image.RGBA, texts []svgText) error {
	fnt, err := loadBaseFont()
	if err != nil {
		return fmt.Errorf("load typeface: %w", err)
	}

	for _, t := range texts {
		if t.value == "" || t.size <= 0 {
			continue
		}
		face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    t.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return fmt.Errorf("size typeface: %w", err)
		}

		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(t.fill),
			Face: face,
		}
		x := fixed.Int26_6(t.x * 64)
		switch t.anchor {
		case "middle":
			x -= d.MeasureString(t.value) / 2
		case "end":
			x -= d.MeasureString(t.value)
		}
		d.Dot = fixed.Point26_6{X: x, Y: fixed.Int26_6(t.y * 64)}
		d.DrawString(t.value)
		face.Close()
	}
	return nil
}

func parseFloatAttr(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "px"), 64)
	if err != nil {
		return fallback
	}
	return v
}

// parseHexColor parses #rgb and #rrggbb fills. Anything else (named colors,
// "none") is left to the caller's default.
func parseHexColor(s string) (color.Color, bool) {
	if !strings.HasPrefix(s, "#") {
		return nil, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}
