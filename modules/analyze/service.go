package analyze

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/robbolivercreates/ridecanvas/modules/common/config"
	"github.com/robbolivercreates/ridecanvas/modules/common/gemini"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Analyze sends the preprocessed photo to the vision model and returns the
// validated vehicle analysis. Any model failure, malformed JSON, or missing
// required field is an analysis failure; the handler converts it to a generic
// retry message and never surfaces provider detail.
func (s *Service) Analyze(ctx context.Context, base64Photo string) (*VehicleAnalysis, error) {
	cfg := config.GetConfig()

	photoData, err := base64.StdEncoding.DecodeString(base64Photo)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 photo: %w", err)
	}

	log.Printf("🔍 Analyzing vehicle photo (%d bytes, template %s, model %s)",
		len(photoData), InstructionVersion, cfg.GeminiAnalyzeModel)

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(analysisInstruction),
			genai.NewPartFromBytes(photoData, "image/jpeg"),
		},
	}

	result, err := gemini.GenerateContentWithRetry(
		ctx,
		cfg.GeminiAPIKeys,
		cfg.GeminiAnalyzeModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   analysisSchema(),
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("analysis API call failed: %w", err)
	}

	text := collectText(result)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("analysis returned no text content")
	}

	var analysis VehicleAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		log.Printf("❌ Analysis JSON parse failed (%d chars)", len(text))
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	if err := analysis.Validate(); err != nil {
		return nil, fmt.Errorf("analysis validation failed: %w", err)
	}

	log.Printf("✅ Vehicle identified: %s (%s, offroad=%v, mods=%d, wheels=%d)",
		analysis.VehicleName(), analysis.Category, analysis.IsOffroad,
		len(analysis.PopularMods), len(analysis.PopularWheels))

	return &analysis, nil
}

// collectText concatenates the text parts of the first candidate.
func collectText(result *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		break
	}
	return sb.String()
}
