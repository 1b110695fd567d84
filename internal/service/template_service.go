package service

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/NTBooks/solquiz/internal/config"
	"github.com/NTBooks/solquiz/internal/model"
)

// fallbackTemplateName is the last resolution candidate tried on disk before
// giving up and using the inline template.
const fallbackTemplateName = "certificate.svg"

// inlineTemplate is the built-in certificate used when no template file
// resolves. Layout assumes the 800x600 canvas the renderer normalizes to.
const inlineTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600" viewBox="0 0 800 600">
  <rect x="0" y="0" width="800" height="600" fill="#fffdf5" stroke="#1a1a2e" stroke-width="8"/>
  <rect x="24" y="24" width="752" height="552" fill="none" stroke="#c9a227" stroke-width="2"/>
  <text x="400" y="110" text-anchor="middle" font-family="Georgia, serif" font-size="40" fill="#1a1a2e">##CERT_TITLE##</text>
  <text x="400" y="160" text-anchor="middle" font-family="Georgia, serif" font-size="22" fill="#444466">##COURSE_TITLE##</text>
  <text x="400" y="230" text-anchor="middle" font-family="Georgia, serif" font-size="18" fill="#444466">##INTRO_TEXT##</text>
  <text x="400" y="300" text-anchor="middle" font-family="Georgia, serif" font-size="44" fill="#c9a227">##NAME##</text>
  <text x="400" y="360" text-anchor="middle" font-family="Georgia, serif" font-size="18" fill="#444466">##COMPLETION_TEXT##</text>
  <text x="400" y="395" text-anchor="middle" font-family="Georgia, serif" font-size="16" fill="#444466">##SECONDARY_TEXT##</text>
  <text x="400" y="470" text-anchor="middle" font-family="Georgia, serif" font-size="16" fill="#1a1a2e">##DATE##</text>
  <text x="400" y="505" text-anchor="middle" font-family="Georgia, serif" font-size="13" fill="#888899">##CERT_ID##</text>
  <text x="400" y="560" text-anchor="middle" font-family="Georgia, serif" font-size="12" fill="#888899">##FOOTER##</text>
</svg>`

var (
	// tspanRe matches inline text-span wrapper tags. Vector editors split
	// placeholder tokens across tspans, which breaks literal token matching,
	// so the wrappers are stripped before substitution.
	tspanRe = regexp.MustCompile(`</?tspan[^>]*>`)

	// placeholderRe matches any ##TOKEN##-shaped marker left after
	// substitution.
	placeholderRe = regexp.MustCompile(`##[A-Za-z0-9_]+##`)

	// fontFamilyRe matches font-family attribute values for the optional
	// config override.
	fontFamilyRe = regexp.MustCompile(`font-family="[^"]*"`)

	// xmlEscaper escapes field values for use inside XML text nodes.
	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
)

// TemplateService resolves certificate SVG templates from disk and fills in
// their placeholder tokens.
type TemplateService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(cfg *config.Config, log zerolog.Logger) *TemplateService {
	return &TemplateService{
		cfg: cfg,
		log: log.With().Str("component", "template_service").Logger(),
	}
}

// Resolve loads the first readable template from the ordered candidate chain:
// explicit preferred name, configured default, then the hard-coded fallback
// name. Templates are read fresh on every call; nothing is cached. The second
// return is false when no candidate loads — callers substitute the inline
// template in that case.
func (s *TemplateService) Resolve(preferred string) (string, bool) {
	candidates := make([]string, 0, 3)
	if preferred != "" {
		candidates = append(candidates, preferred)
	}
	if s.cfg.DefaultTemplate != "" {
		candidates = append(candidates, s.cfg.DefaultTemplate)
	}
	candidates = append(candidates, fallbackTemplateName)

	for _, name := range candidates {
		// Base-name only: template names must not escape the template dir.
		path := filepath.Join(s.cfg.TemplateDir, filepath.Base(name))
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Debug().Str("candidate", path).Msg("Template candidate not readable")
			continue
		}
		return string(data), true
	}
	return "", false
}

// Inline returns the built-in certificate template.
func (s *TemplateService) Inline() string {
	return inlineTemplate
}

// Substitute replaces every ##TOKEN## marker in svg with the XML-escaped
// field value. tspan wrappers are stripped first so each token appears as one
// contiguous literal. Field values are never re-expanded. The second return
// lists any markers still present afterward; unresolved markers are a warning
// for the caller, not a failure.
func (s *TemplateService) Substitute(svg string, fields model.CertFields) (string, []string) {
	svg = tspanRe.ReplaceAllString(svg, "")

	for token, value := range fields.Tokens() {
		svg = strings.ReplaceAll(svg, "##"+token+"##", xmlEscaper.Replace(value))
	}

	unresolved := placeholderRe.FindAllString(svg, -1)
	return svg, unresolved
}

// ApplyFontFamily rewrites every font-family attribute in svg to family.
// Empty family leaves the markup untouched.
func (s *TemplateService) ApplyFontFamily(svg, family string) string {
	if family == "" {
		return svg
	}
	return fontFamilyRe.ReplaceAllString(svg, `font-family="`+xmlEscaper.Replace(family)+`"`)
}
