package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Canvas size every certificate template assumes.
const (
	canvasWidth  = 800
	canvasHeight = 600
)

// Sentinel errors for certificate rendering.
var (
	ErrRenderFailed  = errors.New("certificate rendering failed")
	ErrRenderTimeout = errors.New("certificate rendering timed out")
)

var (
	// xmlPrologRe and doctypeRe match declarations some rasterizers trip
	// over; both are stripped before parsing.
	xmlPrologRe = regexp.MustCompile(`<\?xml[^?]*\?>`)
	doctypeRe   = regexp.MustCompile(`<!DOCTYPE[^>]*>`)

	// percentWidthRe / percentHeightRe match percentage sizes on the root
	// element, which are rewritten to the fixed canvas size.
	percentWidthRe  = regexp.MustCompile(`width="[0-9.]+%"`)
	percentHeightRe = regexp.MustCompile(`height="[0-9.]+%"`)
)

// RenderService rasterizes filled SVG markup into PNG bytes.
type RenderService struct {
	timeout time.Duration
	log     zerolog.Logger
}

// NewRenderService creates a RenderService with the given per-render timeout.
func NewRenderService(timeout time.Duration, log zerolog.Logger) *RenderService {
	return &RenderService{
		timeout: timeout,
		log:     log.With().Str("component", "render_service").Logger(),
	}
}

type renderResult struct {
	png []byte
	err error
}

// Render converts SVG markup into PNG bytes on an 800x600 canvas.
// Rasterization races against the configured timeout so a hung render cannot
// stall the request: on expiry it returns ErrRenderTimeout and the render
// goroutine is abandoned. Malformed markup yields ErrRenderFailed.
func (s *RenderService) Render(ctx context.Context, svg string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ch := make(chan renderResult, 1)
	go func() {
		data, err := rasterize(normalizeMarkup(svg))
		ch <- renderResult{png: data, err: err}
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Dur("timeout", s.timeout).Msg("Render deadline exceeded")
		return nil, fmt.Errorf("%w after %s", ErrRenderTimeout, s.timeout)
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.png, nil
	}
}

// normalizeMarkup strips XML prolog/doctype declarations and pins
// percentage-based root sizes to the fixed canvas.
func normalizeMarkup(svg string) string {
	svg = xmlPrologRe.ReplaceAllString(svg, "")
	svg = doctypeRe.ReplaceAllString(svg, "")

	// Only the root element carries the canvas size; bound the rewrite to
	// the opening <svg> tag so nested elements keep their own percentages.
	if end := strings.Index(svg, ">"); end >= 0 {
		root := svg[:end+1]
		root = percentWidthRe.ReplaceAllString(root, fmt.Sprintf(`width="%d"`, canvasWidth))
		root = percentHeightRe.ReplaceAllString(root, fmt.Sprintf(`height="%d"`, canvasHeight))
		svg = root + svg[end+1:]
	}
	return strings.TrimSpace(svg)
}

// rasterize is the pure markup → PNG transform. Text elements are split off
// first since the path rasterizer has no glyph support: shapes go through
// the rasterizer, text runs are composited on top afterwards. The rasterizer
// panics on some malformed inputs, so panics are converted to
// ErrRenderFailed.
func rasterize(svg string) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRenderFailed, r)
		}
	}()

	texts, shapes, err := extractText(svg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(shapes), oksvg.StrictErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	icon.SetTarget(0, 0, float64(canvasWidth), float64(canvasHeight))

	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(canvasWidth, canvasHeight, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(canvasWidth, canvasHeight, scanner), 1.0)

	if err := drawText(img, texts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}
