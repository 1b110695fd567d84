package model

// CertFields is the closed set of substitutable certificate template fields.
// Each maps to a literal ##TOKEN## marker in the SVG template. Values are
// XML-escaped during substitution and are never themselves treated as
// templates.
type CertFields struct {
	CertTitle      string
	CourseTitle    string
	IntroText      string
	Name           string
	CompletionText string
	SecondaryText  string
	Date           string
	CertID         string
	Footer         string
}

// Tokens returns the placeholder token → value mapping. Keys match the
// ##TOKEN## markers verbatim, without the surrounding hash pairs.
func (f CertFields) Tokens() map[string]string {
	return map[string]string{
		"CERT_TITLE":      f.CertTitle,
		"COURSE_TITLE":    f.CourseTitle,
		"INTRO_TEXT":      f.IntroText,
		"NAME":            f.Name,
		"COMPLETION_TEXT": f.CompletionText,
		"SECONDARY_TEXT":  f.SecondaryText,
		"DATE":            f.Date,
		"CERT_ID":         f.CertID,
		"FOOTER":          f.Footer,
	}
}
