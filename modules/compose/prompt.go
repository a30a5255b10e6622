package compose

import (
	"fmt"
	"strings"

	"github.com/robbolivercreates/ridecanvas/modules/analyze"
)

// One lookup table per enum, mapping variant to prompt fragment. These are the
// only copies; UI labels are derived client-side from the enum values.

var backgroundPrompts = map[string]string{
	BackgroundStudio:         "Place the vehicle in a minimal studio scene with a smooth gradient backdrop and a soft reflective floor.",
	BackgroundDesertDunes:    "Place the vehicle on wind-sculpted desert dunes under a late-afternoon sun, with long warm shadows across the sand.",
	BackgroundMountainPass:   "Place the vehicle on a high mountain pass switchback, with layered peaks and thin clouds behind it.",
	BackgroundForestTrail:    "Place the vehicle on a pine forest trail, shafts of light breaking through the canopy onto the ground.",
	BackgroundCityNight:      "Place the vehicle on a rain-slicked city street at night, neon signage reflecting off the pavement.",
	BackgroundCoastalHighway: "Place the vehicle on a coastal highway overlook, ocean and cliffs stretching out behind it at golden hour.",
	BackgroundCanyonRun:      "Place the vehicle on a winding canyon road between red rock walls under a clear sky.",
	BackgroundSnowfield:      "Place the vehicle on a packed-snow field with distant frosted evergreens and a cold blue-grey sky.",
	BackgroundGarage:         "Place the vehicle inside a moody workshop garage, tool chests and soft overhead lamps in the background.",
}

var fidelityPrompts = map[string]string{
	FidelityExactMatch:   "Reproduce the vehicle exactly as photographed: keep every visible scratch, dirt, wear, sticker, and modification unchanged.",
	FidelityCleanBuild:   "Keep all visible modifications and accessories, but render the vehicle freshly washed and detailed: no dirt, dust, or grime.",
	FidelityFactoryFresh: "Render the vehicle as it left the factory: remove aftermarket modifications and accessories, restore stock trim, and show a spotless showroom finish.",
}

var positionPrompts = map[string]string{
	PositionAsPhotographed: "Keep the vehicle at the exact angle it was photographed: %s, %s. Do not rotate or mirror it.",
	PositionSideProfile:    "Re-pose the vehicle into a clean full side profile view, %s, regardless of the photographed angle (%s).",
}

var stancePrompts = map[string]string{
	StanceStock:         "Keep the suspension and wheels exactly as photographed.",
	StanceLiftedAT:      "Apply a moderate suspension lift and fit aggressive all-terrain tires on the existing wheels.",
	StanceSteeliesMud:   "Fit matte black steel wheels with chunky mud-terrain tires and a modest lift; keep the body unchanged.",
	StanceLoweredWheels: "Lower the suspension for a flush, planted stance and fit a tasteful aftermarket wheel upgrade%s.",
}

// invariantBlock is the standing contract for every render: the model must
// not invent content that is not in the source photo or explicitly requested.
const invariantBlock = `[SOURCE FIDELITY - ALWAYS]
Reproduce only what is visible in the source photograph or explicitly requested below.
NEVER invent cargo, people, pets, logos, text, extra dirt, damage, or modifications
that are not present in the source or listed in this instruction.`

// firstGenGuidance keys format to composition guidance for the reference
// (first) generation.
var firstGenGuidance = map[string]string{
	FormatPhone:   "Compose for a %s phone wallpaper: vertical poster framing, vehicle in the lower two thirds of the frame occupying roughly 60%% of the width, scenery extending above it.",
	FormatDesktop: "Compose for a %s desktop wallpaper: wide cinematic framing, vehicle off-center per the rule of thirds occupying roughly 45%% of the frame width, scenery filling the rest.",
	FormatPrint:   "Compose for a %s print poster: balanced framing with the vehicle prominent at roughly 55%% of the frame width and breathing room on all sides.",
}

// BuildBasePrompt deterministically composes the shared generation
// instruction from the analysis and the user's configuration. Pure function:
// identical inputs always produce identical text.
func BuildBasePrompt(analysis *analyze.VehicleAnalysis, cfg GenerationConfig) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`[VEHICLE POSTER ART]
Transform the photographed %s into stylized poster artwork: bold shapes, clean
gradients, confident linework, printed-poster color depth. The vehicle must stay
instantly recognizable as the exact vehicle in the photo.`, analysis.VehicleName()))
	sb.WriteString("\n\n")

	sb.WriteString(invariantBlock)
	sb.WriteString("\n\n[POSITION]\n")
	sb.WriteString(fmt.Sprintf(positionPrompts[cfg.Position], analysis.FacingDirection, analysis.Orientation))

	sb.WriteString("\n\n[CONDITION]\n")
	sb.WriteString(fidelityPrompts[cfg.Fidelity])

	sb.WriteString("\n\n[STANCE]\n")
	sb.WriteString(stanceText(cfg.Stance, analysis))

	sb.WriteString("\n\n[SCENE]\n")
	sb.WriteString(backgroundPrompts[cfg.Background])

	if len(analysis.Accessories) > 0 {
		sb.WriteString("\n\n[INSTALLED ACCESSORIES - PRESERVE VERBATIM]\n")
		for _, acc := range analysis.Accessories {
			sb.WriteString("- " + acc + "\n")
		}
	}

	if len(cfg.SelectedMods) > 0 {
		sb.WriteString("\n[REQUESTED VIRTUAL MODS - ADD THESE]\n")
		for _, mod := range cfg.SelectedMods {
			sb.WriteString("- " + mod + "\n")
		}
	}

	if audit := analysis.WheelAudit; audit != nil {
		sb.WriteString("\n[WHEEL AND TIRE AUDIT]\n")
		sb.WriteString(wheelAuditText(audit))
	}

	return sb.String()
}

// BuildFormatPrompt appends per-format guidance to a base prompt. The first
// generation gets composition guidance; follow-up generations get the
// style-match contract tying them to the reference image.
func BuildFormatPrompt(basePrompt, format string, hasReference bool) string {
	aspect := AspectRatio(format)

	if !hasReference {
		return basePrompt + "\n\n[COMPOSITION]\n" + fmt.Sprintf(firstGenGuidance[format], aspect)
	}

	return basePrompt + fmt.Sprintf(`

[STYLE MATCH - REFERENCE IMAGE]
A previously generated poster of this exact vehicle is provided as a reference.
The new image is the %s aspect ratio edition of the SAME artwork:
- Replicate the reference's color palette, line style, lighting, and background elements.
- Keep the vehicle's width-to-height proportions exactly as in the reference. Never
  stretch or squash the vehicle to fill the frame.
- Fill the %s frame by extending the background and scenery, not by resizing the subject.
- Same vehicle, same condition, same scene; only the framing changes.`, aspect, aspect)
}

// stanceText resolves the stance fragment, interpolating the top popular
// wheel into the lowered variant when the analysis found one.
func stanceText(stance string, analysis *analyze.VehicleAnalysis) string {
	if stance == StanceLoweredWheels {
		wheelHint := ""
		if wheel := analysis.TopPopularWheel(); wheel != "" {
			wheelHint = fmt.Sprintf(" such as %s", wheel)
		}
		return fmt.Sprintf(stancePrompts[StanceLoweredWheels], wheelHint)
	}
	return stancePrompts[stance]
}

func wheelAuditText(audit *analyze.WheelAudit) string {
	var sb strings.Builder

	if audit.HasWhiteLettering {
		sb.WriteString("- Tires have white lettering: reproduce it.\n")
	} else {
		sb.WriteString("- Tires have no white lettering: do not add any.\n")
	}
	if audit.HasCenterCaps {
		line := "- Wheels have center caps"
		if audit.CenterCapColor != "" {
			line += " (" + audit.CenterCapColor + ")"
		}
		sb.WriteString(line + ": reproduce them.\n")
	} else {
		sb.WriteString("- Wheels have no center caps: do not add any.\n")
	}
	if audit.WheelColor != "" {
		sb.WriteString("- Wheel color: " + audit.WheelColor + ".\n")
	}
	if audit.WheelFinish != "" {
		sb.WriteString("- Wheel finish: " + audit.WheelFinish + ".\n")
	}
	if audit.WheelType != "" {
		sb.WriteString("- Wheel type: " + audit.WheelType + ".\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
