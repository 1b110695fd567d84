package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const simpleSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600">` +
	`<rect x="0" y="0" width="800" height="600" fill="#ffffff"/>` +
	`<circle cx="400" cy="300" r="100" fill="#c9a227"/></svg>`

func TestRenderProducesPNG(t *testing.T) {
	s := NewRenderService(5*time.Second, zerolog.Nop())

	data, err := s.Render(context.Background(), simpleSVG)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != canvasWidth || b.Dy() != canvasHeight {
		t.Errorf("canvas = %dx%d, want %dx%d", b.Dx(), b.Dy(), canvasWidth, canvasHeight)
	}
}

func TestRenderMalformedMarkup(t *testing.T) {
	s := NewRenderService(5*time.Second, zerolog.Nop())

	_, err := s.Render(context.Background(), "<svg><unclosed")
	if !errors.Is(err, ErrRenderFailed) {
		t.Errorf("err = %v, want ErrRenderFailed", err)
	}
}

func TestRenderTimeout(t *testing.T) {
	s := NewRenderService(time.Nanosecond, zerolog.Nop())

	// Enough elements that rasterization cannot finish inside a nanosecond.
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600">`)
	for i := 0; i < 2000; i++ {
		fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="40" fill="#00%02x00"/>`, i%800, (i*7)%600, i%256)
	}
	b.WriteString(`</svg>`)

	_, err := s.Render(context.Background(), b.String())
	if !errors.Is(err, ErrRenderTimeout) {
		t.Errorf("err = %v, want ErrRenderTimeout", err)
	}
}

func TestNormalizeMarkup(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">` + "\n" +
		`<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%">` +
		`<rect width="50%" height="50%"/></svg>`

	out := normalizeMarkup(in)

	if strings.Contains(out, "<?xml") || strings.Contains(out, "<!DOCTYPE") {
		t.Errorf("prolog/doctype not stripped: %q", out)
	}
	if !strings.Contains(out, `width="800"`) || !strings.Contains(out, `height="600"`) {
		t.Errorf("root percentage size not pinned: %q", out)
	}
	// Nested elements keep their own percentages.
	if !strings.Contains(out, `<rect width="50%" height="50%"/>`) {
		t.Errorf("nested percentages were rewritten: %q", out)
	}
}

func TestRenderStripsPrologAndPercentSizes(t *testing.T) {
	s := NewRenderService(5*time.Second, zerolog.Nop())

	in := `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%">` +
		`<rect x="0" y="0" width="800" height="600" fill="#eeeeee"/></svg>`

	data, err := s.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
}
