package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NTBooks/solquiz/internal/config"
	"github.com/NTBooks/solquiz/internal/model"
	"github.com/NTBooks/solquiz/internal/webhook"
)

// CertificateService runs the certificate pipeline for a perfect-score
// submission: resolve template, substitute fields, render, upload, stamp.
type CertificateService struct {
	cfg       *config.Config
	templates *TemplateService
	renderer  *RenderService
	hook      *webhook.Client
	log       zerolog.Logger
}

// NewCertificateService creates a new CertificateService.
func NewCertificateService(
	cfg *config.Config,
	templates *TemplateService,
	renderer *RenderService,
	hook *webhook.Client,
	log zerolog.Logger,
) *CertificateService {
	return &CertificateService{
		cfg:       cfg,
		templates: templates,
		renderer:  renderer,
		hook:      hook,
		log:       log.With().Str("component", "certificate_service").Logger(),
	}
}

// Generate produces, uploads and stamps a certificate for name. name must
// already be sanitized. Returns the content hash the webhook reported
// ("unknown" when the response carried none). The transient local PNG is
// removed on every exit path; a stamp failure is logged and swallowed since
// the upload has already succeeded.
func (s *CertificateService) Generate(ctx context.Context, name, courseTitle string) (string, error) {
	certID := newCertID()

	svg, ok := s.templates.Resolve("")
	if !ok {
		s.log.Info().Msg("No template file resolved, using inline template")
		svg = s.templates.Inline()
	}

	filled, unresolved := s.templates.Substitute(svg, s.fields(name, courseTitle, certID))
	for _, token := range unresolved {
		s.log.Warn().Str("token", token).Msg("Unresolved template placeholder")
	}
	filled = s.templates.ApplyFontFamily(filled, s.cfg.FontFamily)

	data, err := s.renderer.Render(ctx, filled)
	if err != nil {
		return "", err
	}

	// The upload reads from a transient local file scoped to this request.
	path := filepath.Join(s.cfg.TmpDir, "certificate-"+uuid.New().String()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write transient certificate: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("Failed to remove transient certificate")
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open transient certificate: %w", err)
	}
	defer f.Close()

	hash, err := s.hook.Upload(ctx, s.cfg.HookCollection, fmt.Sprintf("certificate-%s.png", certID), f)
	if err != nil {
		return "", err
	}

	// Best-effort: the submission already succeeded once the upload did.
	if err := s.hook.Stamp(ctx, s.cfg.HookCollection); err != nil {
		s.log.Warn().Err(err).Str("collection", s.cfg.HookCollection).Msg("Stamp failed after upload")
	}

	return hash, nil
}

// fields assembles the closed certificate field set.
func (s *CertificateService) fields(name, courseTitle, certID string) model.CertFields {
	return model.CertFields{
		CertTitle:      "Certificate of Completion",
		CourseTitle:    courseTitle,
		IntroText:      "This certifies that",
		Name:           name,
		CompletionText: "has successfully completed the quiz",
		SecondaryText:  "with a perfect score",
		Date:           time.Now().Format("January 2, 2006"),
		CertID:         certID,
		Footer:         s.cfg.FooterText,
	}
}

// newCertID derives a certificate identifier from the current timestamp.
// Millisecond resolution gives coarse monotonic uniqueness; collisions inside
// the same millisecond are an accepted risk for this demo.
func newCertID() string {
	return fmt.Sprintf("SOLQ-%d", time.Now().UnixMilli())
}
