package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbolivercreates/ridecanvas/modules/analyze"
)

func offroadAnalysis() *analyze.VehicleAnalysis {
	return &analyze.VehicleAnalysis{
		Make:            "Toyota",
		Model:           "Tacoma",
		Year:            "2019",
		Color:           "cement grey",
		Category:        analyze.CategoryOffroad,
		IsOffroad:       true,
		Orientation:     "front three-quarter",
		FacingDirection: "facing left",
		Accessories:     []string{"roof rack", "LED light bar"},
		WheelAudit: &analyze.WheelAudit{
			HasWhiteLettering: true,
			HasCenterCaps:     false,
			WheelColor:        "bronze",
			WheelType:         "alloy",
		},
		PopularWheels: []analyze.PopularWheel{
			{Name: "Method 305 NV", Description: "classic off-road wheel"},
		},
	}
}

func sportsAnalysis() *analyze.VehicleAnalysis {
	return &analyze.VehicleAnalysis{
		Make:            "Mazda",
		Model:           "MX-5",
		Year:            "2021",
		Color:           "soul red",
		Category:        analyze.CategorySports,
		IsOffroad:       false,
		Orientation:     "side profile",
		FacingDirection: "facing right",
		PopularWheels: []analyze.PopularWheel{
			{Name: "Enkei RPF1"},
		},
	}
}

func TestBuildBasePromptIsDeterministic(t *testing.T) {
	analysis := offroadAnalysis()
	cfg := DefaultConfig(analysis)

	first := BuildBasePrompt(analysis, cfg)
	second := BuildBasePrompt(analysis, cfg)

	assert.Equal(t, first, second, "the same inputs must always produce the same prompt")
	assert.NotEmpty(t, first)
}

func TestBuildBasePromptSelectsExactlyOneFidelity(t *testing.T) {
	analysis := offroadAnalysis()
	cfg := DefaultConfig(analysis)
	cfg.Fidelity = FidelityFactoryFresh

	prompt := BuildBasePrompt(analysis, cfg)

	assert.Contains(t, prompt, fidelityPrompts[FidelityFactoryFresh])
	assert.NotContains(t, prompt, fidelityPrompts[FidelityExactMatch])
	assert.NotContains(t, prompt, fidelityPrompts[FidelityCleanBuild])
}

func TestBuildBasePromptCarriesVehicleDetails(t *testing.T) {
	analysis := offroadAnalysis()
	cfg := DefaultConfig(analysis)

	prompt := BuildBasePrompt(analysis, cfg)

	assert.Contains(t, prompt, "2019 Toyota Tacoma")
	assert.Contains(t, prompt, "roof rack")
	assert.Contains(t, prompt, "LED light bar")
	assert.Contains(t, prompt, "white lettering: reproduce it")
	assert.Contains(t, prompt, "no center caps: do not add any")
	assert.Contains(t, prompt, "NEVER invent cargo, people")
}

func TestBuildBasePromptInterpolatesPopularWheel(t *testing.T) {
	analysis := sportsAnalysis()
	cfg := DefaultConfig(analysis)
	cfg.Stance = StanceLoweredWheels

	prompt := BuildBasePrompt(analysis, cfg)

	assert.Contains(t, prompt, "Enkei RPF1")
}

func TestBuildFormatPromptFirstGeneration(t *testing.T) {
	prompt := BuildFormatPrompt("BASE", FormatPhone, false)

	assert.True(t, strings.HasPrefix(prompt, "BASE"))
	assert.Contains(t, prompt, "[COMPOSITION]")
	assert.Contains(t, prompt, "9:16")
	assert.NotContains(t, prompt, "[STYLE MATCH")
}

func TestBuildFormatPromptFollowUpMatchesReference(t *testing.T) {
	prompt := BuildFormatPrompt("BASE", FormatPrint, true)

	assert.Contains(t, prompt, "[STYLE MATCH - REFERENCE IMAGE]")
	assert.Contains(t, prompt, "4:3")
	assert.Contains(t, prompt, "width-to-height proportions")
	assert.Contains(t, prompt, "Never")
	assert.NotContains(t, prompt, "[COMPOSITION]")
}

func TestStanceOptionsSplitByVehicleType(t *testing.T) {
	offroad := StanceOptions(true)
	assert.Contains(t, offroad, StanceLiftedAT)
	assert.Contains(t, offroad, StanceSteeliesMud)
	assert.NotContains(t, offroad, StanceLoweredWheels)

	street := StanceOptions(false)
	assert.Contains(t, street, StanceLoweredWheels)
	assert.NotContains(t, street, StanceLiftedAT)
	assert.NotContains(t, street, StanceSteeliesMud)
}

func TestDefaultConfigHonorsUsableSuggestions(t *testing.T) {
	analysis := offroadAnalysis()
	analysis.SuggestedBackground = BackgroundDesertDunes
	analysis.SuggestedStance = StanceLiftedAT

	cfg := DefaultConfig(analysis)
	assert.Equal(t, BackgroundDesertDunes, cfg.Background)
	assert.Equal(t, StanceLiftedAT, cfg.Stance)
}

func TestDefaultConfigIgnoresIncompatibleSuggestions(t *testing.T) {
	analysis := offroadAnalysis()
	analysis.SuggestedBackground = "volcano"
	analysis.SuggestedStance = StanceLoweredWheels // not valid for off-road

	cfg := DefaultConfig(analysis)
	assert.Equal(t, BackgroundStudio, cfg.Background)
	assert.Equal(t, StanceStock, cfg.Stance)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	analysis := offroadAnalysis()

	tests := []struct {
		name   string
		mutate func(*GenerationConfig)
	}{
		{"unknown background", func(c *GenerationConfig) { c.Background = "moon" }},
		{"unknown fidelity", func(c *GenerationConfig) { c.Fidelity = "pristine" }},
		{"unknown position", func(c *GenerationConfig) { c.Position = "rear" }},
		{"incompatible stance", func(c *GenerationConfig) { c.Stance = StanceLoweredWheels }},
		{"unknown art style", func(c *GenerationConfig) { c.ArtStyle = "watercolor" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(analysis)
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate(analysis))
		})
	}

	valid := DefaultConfig(analysis)
	require.NoError(t, valid.Validate(analysis))
}

func TestAspectRatios(t *testing.T) {
	assert.Equal(t, "9:16", AspectRatio(FormatPhone))
	assert.Equal(t, "16:9", AspectRatio(FormatDesktop))
	assert.Equal(t, "4:3", AspectRatio(FormatPrint))
}
