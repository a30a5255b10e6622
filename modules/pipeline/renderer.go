package pipeline

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"github.com/robbolivercreates/ridecanvas/modules/common/config"
	"github.com/robbolivercreates/ridecanvas/modules/common/gemini"
)

// Renderer produces one poster image from a prompt, the source photo, and an
// optional style reference. Implementations must be safe for concurrent use.
type Renderer interface {
	Render(ctx context.Context, prompt, aspectRatio string, sourceJPEG, reference []byte) (data []byte, mimeType string, err error)
}

// GeminiRenderer renders through the Gemini image model with API key
// rotation on quota errors.
type GeminiRenderer struct{}

func NewGeminiRenderer() *GeminiRenderer {
	return &GeminiRenderer{}
}

func (r *GeminiRenderer) Render(ctx context.Context, prompt, aspectRatio string, sourceJPEG, reference []byte) ([]byte, string, error) {
	cfg := config.GetConfig()

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: sourceJPEG}},
	}
	if len(reference) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/png", Data: reference},
		})
	}

	log.Printf("🎨 Rendering %s image (prompt %d chars, source %d bytes, reference=%v, model %s)",
		aspectRatio, len(prompt), len(sourceJPEG), len(reference) > 0, cfg.GeminiImageModel)

	result, err := gemini.GenerateContentWithRetry(
		ctx,
		cfg.GeminiAPIKeys,
		cfg.GeminiImageModel,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: aspectRatio},
		},
	)
	if err != nil {
		return nil, "", fmt.Errorf("image generation failed: %w", err)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				log.Printf("✅ Received image from Gemini: %d bytes (%s)", len(part.InlineData.Data), mimeType)
				return part.InlineData.Data, mimeType, nil
			}
		}
	}

	return nil, "", fmt.Errorf("no image data in response")
}
