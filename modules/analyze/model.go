package analyze

import (
	"fmt"
	"strings"
)

// Vehicle categories returned by the vision model.
const (
	CategoryOffroad  = "offroad"
	CategorySports   = "sports"
	CategoryLuxury   = "luxury"
	CategoryClassic  = "classic"
	CategoryEveryday = "everyday"
)

// WheelAudit describes the photographed wheel/tire setup so renders can
// reproduce (or deliberately replace) it.
type WheelAudit struct {
	HasWhiteLettering bool   `json:"hasWhiteLettering"`
	HasCenterCaps     bool   `json:"hasCenterCaps"`
	CenterCapColor    string `json:"centerCapColor,omitempty"`
	WheelColor        string `json:"wheelColor,omitempty"`
	WheelFinish       string `json:"wheelFinish,omitempty"`
	WheelType         string `json:"wheelType,omitempty"`
}

// PopularMod is one real-world modification the model found for this
// make/model via web search.
type PopularMod struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PopularWheel is one real-world wheel upgrade the model found for this
// make/model via web search.
type PopularWheel struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// VehicleAnalysis is the structured result of analyzing one uploaded photo.
// It is created once per photo and never mutated; the UI may override the
// suggested stance/background in its own GenerationConfig.
type VehicleAnalysis struct {
	// Required fields. Free text from the model, not validated against any
	// catalog.
	Make            string `json:"make"`
	Model           string `json:"model"`
	Year            string `json:"year"`
	Color           string `json:"color"`
	Category        string `json:"category"`
	IsOffroad       bool   `json:"isOffroad"`
	Orientation     string `json:"orientation"`
	FacingDirection string `json:"facingDirection"`

	// Optional fields; absent means empty, never fatal.
	Accessories         []string       `json:"accessories,omitempty"`
	WheelAudit          *WheelAudit    `json:"wheelAudit,omitempty"`
	PopularMods         []PopularMod   `json:"popularMods,omitempty"`
	PopularWheels       []PopularWheel `json:"popularWheels,omitempty"`
	SuggestedStance     string         `json:"suggestedStance,omitempty"`
	SuggestedBackground string         `json:"suggestedBackground,omitempty"`
}

// VehicleName builds the human-readable identity used for merchant records
// and download filenames.
func (a *VehicleAnalysis) VehicleName() string {
	parts := []string{}
	for _, p := range []string{a.Year, a.Make, a.Model} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Vehicle"
	}
	return strings.Join(parts, " ")
}

// TopPopularWheel returns the first suggested wheel name, or "".
func (a *VehicleAnalysis) TopPopularWheel() string {
	if len(a.PopularWheels) == 0 {
		return ""
	}
	return a.PopularWheels[0].Name
}

// Validate checks the required fields the schema cannot fully guarantee.
func (a *VehicleAnalysis) Validate() error {
	required := map[string]string{
		"make":            a.Make,
		"model":           a.Model,
		"year":            a.Year,
		"color":           a.Color,
		"category":        a.Category,
		"orientation":     a.Orientation,
		"facingDirection": a.FacingDirection,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("analysis missing required field: %s", field)
		}
	}

	switch a.Category {
	case CategoryOffroad, CategorySports, CategoryLuxury, CategoryClassic, CategoryEveryday:
	default:
		return fmt.Errorf("analysis returned unknown category: %s", a.Category)
	}

	return nil
}
