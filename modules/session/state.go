package session

import (
	"fmt"

	"github.com/robbolivercreates/ridecanvas/modules/analyze"
	"github.com/robbolivercreates/ridecanvas/modules/compose"
)

// Wizard steps. The client walks forward through these; the server only
// persists a snapshot across the checkout redirect.
const (
	StepIdle        = "idle"
	StepAnalyzing   = "analyzing"
	StepCustomizing = "customizing"
	StepPreviewing  = "previewing"
	StepCompleting  = "completing"
	StepDone        = "done"
)

// transitions maps each step to the steps reachable from it. Backward edges
// let the user revise choices before paying.
var transitions = map[string][]string{
	StepIdle:        {StepAnalyzing},
	StepAnalyzing:   {StepCustomizing, StepIdle},
	StepCustomizing: {StepPreviewing, StepIdle},
	StepPreviewing:  {StepCompleting, StepCustomizing, StepIdle},
	StepCompleting:  {StepDone, StepPreviewing},
	StepDone:        {StepIdle},
}

// Advance validates a step transition. Pure function.
func Advance(from, to string) (string, error) {
	for _, next := range transitions[from] {
		if next == to {
			return to, nil
		}
	}
	return from, fmt.Errorf("invalid step transition: %s -> %s", from, to)
}

// Snapshot is everything needed to resume the wizard after the hosted
// checkout redirect: the preprocessed photo, its analysis, the user's
// configuration, and the preview that conditions the paid renders.
type Snapshot struct {
	CorrelationID string                   `json:"correlationId"`
	PhotoBase64   string                   `json:"photoBase64"`
	Analysis      *analyze.VehicleAnalysis `json:"analysis"`
	Config        compose.GenerationConfig `json:"config"`
	PreviewBase64 string                   `json:"previewBase64"`
	PreviewMime   string                   `json:"previewMime"`
}

// Validate checks that the snapshot carries everything a paid render needs.
func (s *Snapshot) Validate() error {
	if s.CorrelationID == "" {
		return fmt.Errorf("snapshot missing correlation ID")
	}
	if s.PhotoBase64 == "" {
		return fmt.Errorf("snapshot missing source photo")
	}
	if s.Analysis == nil {
		return fmt.Errorf("snapshot missing analysis")
	}
	if s.PreviewBase64 == "" {
		return fmt.Errorf("snapshot missing preview image")
	}
	return s.Config.Validate(s.Analysis)
}
