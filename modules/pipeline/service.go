package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/robbolivercreates/ridecanvas/modules/analyze"
	"github.com/robbolivercreates/ridecanvas/modules/compose"
)

// RenderedImage is one finished poster in one output format.
type RenderedImage struct {
	Format   string `json:"format"`
	Data     []byte `json:"-"`
	MimeType string `json:"mimeType"`
}

// Base64 returns the image data encoded for JSON transport.
func (r *RenderedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(r.Data)
}

type Service struct {
	renderer Renderer
}

func NewService(renderer Renderer) *Service {
	return &Service{renderer: renderer}
}

// RenderPreview generates the phone-format image from the source photo alone.
// This is the reference render: it locks the artwork's palette, style, and
// scene before payment, and the paid formats are derived from it.
func (s *Service) RenderPreview(ctx context.Context, photoBase64 string, analysis *analyze.VehicleAnalysis, cfg compose.GenerationConfig) (*RenderedImage, error) {
	photo, err := base64.StdEncoding.DecodeString(photoBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode source photo: %w", err)
	}

	basePrompt := compose.BuildBasePrompt(analysis, cfg)
	prompt := compose.BuildFormatPrompt(basePrompt, compose.FormatPhone, false)

	data, mimeType, err := s.renderer.Render(ctx, prompt, compose.AspectRatio(compose.FormatPhone), photo, nil)
	if err != nil {
		return nil, fmt.Errorf("preview render failed: %w", err)
	}

	log.Printf("✅ Preview rendered for %s (%d bytes)", analysis.VehicleName(), len(data))
	return &RenderedImage{Format: compose.FormatPhone, Data: data, MimeType: mimeType}, nil
}

// RenderRemaining generates the desktop and print formats, each conditioned
// on the already-approved preview. The reference is a required argument: the
// paid formats cannot be produced without the image the buyer approved.
func (s *Service) RenderRemaining(ctx context.Context, photoBase64 string, analysis *analyze.VehicleAnalysis, cfg compose.GenerationConfig, reference *RenderedImage, onFormat func(format string, err error)) ([]RenderedImage, error) {
	if reference == nil || len(reference.Data) == 0 {
		return nil, fmt.Errorf("reference preview is required for paid renders")
	}

	photo, err := base64.StdEncoding.DecodeString(photoBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode source photo: %w", err)
	}

	basePrompt := compose.BuildBasePrompt(analysis, cfg)

	var rendered []RenderedImage
	for _, format := range compose.Formats() {
		if format == compose.FormatPhone {
			continue
		}

		prompt := compose.BuildFormatPrompt(basePrompt, format, true)
		data, mimeType, err := s.renderer.Render(ctx, prompt, compose.AspectRatio(format), photo, reference.Data)
		if onFormat != nil {
			onFormat(format, err)
		}
		if err != nil {
			return nil, fmt.Errorf("%s render failed: %w", format, err)
		}

		rendered = append(rendered, RenderedImage{Format: format, Data: data, MimeType: mimeType})
	}

	return rendered, nil
}

// RenderFullSet assembles the complete purchase: the phone image is the
// approved preview byte-for-byte, followed by the freshly rendered desktop
// and print formats.
func (s *Service) RenderFullSet(ctx context.Context, photoBase64 string, analysis *analyze.VehicleAnalysis, cfg compose.GenerationConfig, preview *RenderedImage, onFormat func(format string, err error)) ([]RenderedImage, error) {
	remaining, err := s.RenderRemaining(ctx, photoBase64, analysis, cfg, preview, onFormat)
	if err != nil {
		return nil, err
	}

	set := make([]RenderedImage, 0, len(remaining)+1)
	set = append(set, *preview)
	set = append(set, remaining...)
	return set, nil
}
