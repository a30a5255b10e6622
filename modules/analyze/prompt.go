package analyze

import "google.golang.org/genai"

// Instruction template version. Bump when the wording changes enough to shift
// output distributions; logged with every analysis for correlation.
const InstructionVersion = "v3"

// analysisInstruction is the fixed instruction sent with every photo. It stays
// server-side only and is never exposed through the API.
const analysisInstruction = `You are an automotive expert analyzing a single photograph of a vehicle.

Identify the vehicle and return a JSON object describing it.

IDENTITY:
- make, model, year, color: your best identification as plain strings. If the
  exact year is unclear, give the most likely year or a short range.
- category: exactly one of "offroad", "sports", "luxury", "classic", "everyday".
- isOffroad: true only for vehicles genuinely built or equipped for off-road use
  (4x4 trucks, SUVs with off-road trim, overland builds). Sports sedans and
  crossovers are NOT off-road.

PHOTO GEOMETRY:
- orientation: how the vehicle is presented in the frame, e.g. "front three-quarter",
  "side profile", "rear three-quarter".
- facingDirection: which way the vehicle faces, e.g. "facing left", "facing right",
  "facing camera".

CONDITION DETAILS (only what is actually visible):
- accessories: visible installed accessories and modifications (roof rack, bull bar,
  light bar, tow hitch, decals, aftermarket bumper, ...). Empty list if none.
- wheelAudit: describe the wheels and tires exactly as photographed:
  hasWhiteLettering (white tire lettering visible), hasCenterCaps, centerCapColor,
  wheelColor, wheelFinish (gloss/matte/machined/chrome), wheelType (alloy/steel/beadlock).

UPGRADE SUGGESTIONS (use web search):
- popularMods: up to 5 modifications that are genuinely popular in the real-world
  community for this exact make and model, each with a short name and one-line
  description.
- popularWheels: up to 3 wheel upgrades popular for this exact make and model,
  most popular first.

RENDER SUGGESTIONS:
- suggestedStance: "stock", "lifted_at", "steelies_mud", or "lowered_wheels" —
  the stance that best flatters this vehicle. Off-road stances only for off-road
  vehicles, "lowered_wheels" only for non-off-road vehicles.
- suggestedBackground: the scene that best suits this vehicle, one of: "studio",
  "desert_dunes", "mountain_pass", "forest_trail", "city_night", "coastal_highway",
  "canyon_run", "snowfield", "garage".

Report only what is visible in the photograph. Never invent accessories, damage,
or modifications that are not present.`

// analysisSchema constrains the model output so parsing failures are rare.
// Only identity and geometry fields are required; everything else degrades to
// empty values.
func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"make":            {Type: genai.TypeString},
			"model":           {Type: genai.TypeString},
			"year":            {Type: genai.TypeString},
			"color":           {Type: genai.TypeString},
			"category": {
				Type: genai.TypeString,
				Enum: []string{CategoryOffroad, CategorySports, CategoryLuxury, CategoryClassic, CategoryEveryday},
			},
			"isOffroad":       {Type: genai.TypeBoolean},
			"orientation":     {Type: genai.TypeString},
			"facingDirection": {Type: genai.TypeString},
			"accessories": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"wheelAudit": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"hasWhiteLettering": {Type: genai.TypeBoolean},
					"hasCenterCaps":     {Type: genai.TypeBoolean},
					"centerCapColor":    {Type: genai.TypeString},
					"wheelColor":        {Type: genai.TypeString},
					"wheelFinish":       {Type: genai.TypeString},
					"wheelType":         {Type: genai.TypeString},
				},
			},
			"popularMods": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":        {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
					},
					Required: []string{"name"},
				},
			},
			"popularWheels": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":        {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
					},
					Required: []string{"name"},
				},
			},
			"suggestedStance":     {Type: genai.TypeString},
			"suggestedBackground": {Type: genai.TypeString},
		},
		Required: []string{"make", "model", "year", "color", "category", "isOffroad", "orientation", "facingDirection"},
	}
}
