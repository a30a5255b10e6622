package compose

import (
	"fmt"

	"github.com/robbolivercreates/ridecanvas/modules/analyze"
)

// Background scene themes.
const (
	BackgroundStudio         = "studio"
	BackgroundDesertDunes    = "desert_dunes"
	BackgroundMountainPass   = "mountain_pass"
	BackgroundForestTrail    = "forest_trail"
	BackgroundCityNight      = "city_night"
	BackgroundCoastalHighway = "coastal_highway"
	BackgroundCanyonRun      = "canyon_run"
	BackgroundSnowfield      = "snowfield"
	BackgroundGarage         = "garage"
)

// Fidelity modes: how much of the photographed condition to preserve.
const (
	FidelityExactMatch   = "exact_match"
	FidelityCleanBuild   = "clean_build"
	FidelityFactoryFresh = "factory_fresh"
)

// Position modes.
const (
	PositionAsPhotographed = "as_photographed"
	PositionSideProfile    = "side_profile"
)

// Stance styles. Off-road and lowered stances are mutually exclusive
// depending on the analyzed vehicle.
const (
	StanceStock         = "stock"
	StanceLiftedAT      = "lifted_at"
	StanceSteeliesMud   = "steelies_mud"
	StanceLoweredWheels = "lowered_wheels"
)

// Output formats (purpose + aspect ratio).
const (
	FormatPhone   = "phone"
	FormatDesktop = "desktop"
	FormatPrint   = "print"
)

// Resolution tiers.
const (
	ResolutionPreview = "preview"
	ResolutionFull    = "full"
)

// The only art style currently offered.
const ArtStylePoster = "poster"

// GenerationConfig is the user-editable selection driving prompt
// composition.
type GenerationConfig struct {
	ArtStyle     string   `json:"artStyle"`
	Background   string   `json:"background"`
	Fidelity     string   `json:"fidelity"`
	Position     string   `json:"position"`
	Stance       string   `json:"stance"`
	SelectedMods []string `json:"selectedMods,omitempty"`
	Resolution   string   `json:"resolution,omitempty"`
}

// AspectRatio returns the aspect ratio string for a format, suitable for the
// generation API's image config and for composition guidance.
func AspectRatio(format string) string {
	switch format {
	case FormatPhone:
		return "9:16"
	case FormatDesktop:
		return "16:9"
	case FormatPrint:
		return "4:3"
	default:
		return "9:16"
	}
}

// Formats lists all output formats, reference format first.
func Formats() []string {
	return []string{FormatPhone, FormatDesktop, FormatPrint}
}

// StanceOptions filters selectable stances by the analyzed vehicle. Off-road
// vehicles never see lowered_wheels; everything else never sees the off-road
// stances.
func StanceOptions(isOffroad bool) []string {
	if isOffroad {
		return []string{StanceStock, StanceLiftedAT, StanceSteeliesMud}
	}
	return []string{StanceStock, StanceLoweredWheels}
}

// DefaultConfig builds the starting configuration for a fresh analysis,
// honoring the model's stance/background suggestions when they are usable.
func DefaultConfig(analysis *analyze.VehicleAnalysis) GenerationConfig {
	cfg := GenerationConfig{
		ArtStyle:   ArtStylePoster,
		Background: BackgroundStudio,
		Fidelity:   FidelityExactMatch,
		Position:   PositionAsPhotographed,
		Stance:     StanceStock,
		Resolution: ResolutionFull,
	}

	if _, ok := backgroundPrompts[analysis.SuggestedBackground]; ok {
		cfg.Background = analysis.SuggestedBackground
	}
	for _, stance := range StanceOptions(analysis.IsOffroad) {
		if stance == analysis.SuggestedStance {
			cfg.Stance = stance
			break
		}
	}

	return cfg
}

// Validate rejects unknown enum values and stances incompatible with the
// analyzed vehicle.
func (c *GenerationConfig) Validate(analysis *analyze.VehicleAnalysis) error {
	if c.ArtStyle != "" && c.ArtStyle != ArtStylePoster {
		return fmt.Errorf("invalid art style: %s", c.ArtStyle)
	}
	if _, ok := backgroundPrompts[c.Background]; !ok {
		return fmt.Errorf("invalid background: %s", c.Background)
	}
	if _, ok := fidelityPrompts[c.Fidelity]; !ok {
		return fmt.Errorf("invalid fidelity: %s", c.Fidelity)
	}
	if c.Position != PositionAsPhotographed && c.Position != PositionSideProfile {
		return fmt.Errorf("invalid position: %s", c.Position)
	}

	for _, stance := range StanceOptions(analysis.IsOffroad) {
		if stance == c.Stance {
			return nil
		}
	}
	return fmt.Errorf("stance %s not available for this vehicle", c.Stance)
}
