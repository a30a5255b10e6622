package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbolivercreates/ridecanvas/modules/analyze"
	"github.com/robbolivercreates/ridecanvas/modules/compose"
)

type renderCall struct {
	prompt       string
	aspectRatio  string
	hasReference bool
}

// stubRenderer records calls and returns deterministic bytes per aspect.
type stubRenderer struct {
	calls []renderCall
	fail  map[string]bool // aspectRatio -> force error
}

func (s *stubRenderer) Render(ctx context.Context, prompt, aspectRatio string, sourceJPEG, reference []byte) ([]byte, string, error) {
	s.calls = append(s.calls, renderCall{prompt: prompt, aspectRatio: aspectRatio, hasReference: len(reference) > 0})
	if s.fail[aspectRatio] {
		return nil, "", fmt.Errorf("stub failure for %s", aspectRatio)
	}
	return []byte("rendered-" + aspectRatio), "image/png", nil
}

func testAnalysis() *analyze.VehicleAnalysis {
	return &analyze.VehicleAnalysis{
		Make:            "Jeep",
		Model:           "Wrangler",
		Year:            "2020",
		Color:           "firecracker red",
		Category:        analyze.CategoryOffroad,
		IsOffroad:       true,
		Orientation:     "front three-quarter",
		FacingDirection: "facing left",
	}
}

func photoB64() string {
	return base64.StdEncoding.EncodeToString([]byte("source-photo"))
}

func TestRenderPreviewUsesPhoneAspectWithoutReference(t *testing.T) {
	stub := &stubRenderer{}
	service := NewService(stub)
	analysis := testAnalysis()

	preview, err := service.RenderPreview(context.Background(), photoB64(), analysis, compose.DefaultConfig(analysis))
	require.NoError(t, err)

	assert.Equal(t, compose.FormatPhone, preview.Format)
	assert.Equal(t, []byte("rendered-9:16"), preview.Data)

	require.Len(t, stub.calls, 1)
	assert.Equal(t, "9:16", stub.calls[0].aspectRatio)
	assert.False(t, stub.calls[0].hasReference, "the preview defines the style, it cannot have a reference")
	assert.Contains(t, stub.calls[0].prompt, "[COMPOSITION]")
}

func TestRenderRemainingRequiresReference(t *testing.T) {
	service := NewService(&stubRenderer{})
	analysis := testAnalysis()

	_, err := service.RenderRemaining(context.Background(), photoB64(), analysis, compose.DefaultConfig(analysis), nil, nil)
	assert.Error(t, err)

	_, err = service.RenderRemaining(context.Background(), photoB64(), analysis, compose.DefaultConfig(analysis), &RenderedImage{}, nil)
	assert.Error(t, err, "an empty reference is as useless as a missing one")
}

func TestRenderRemainingConditionsOnReference(t *testing.T) {
	stub := &stubRenderer{}
	service := NewService(stub)
	analysis := testAnalysis()
	preview := &RenderedImage{Format: compose.FormatPhone, Data: []byte("approved-preview"), MimeType: "image/png"}

	var reported []string
	onFormat := func(format string, err error) {
		require.NoError(t, err)
		reported = append(reported, format)
	}

	rendered, err := service.RenderRemaining(context.Background(), photoB64(), analysis, compose.DefaultConfig(analysis), preview, onFormat)
	require.NoError(t, err)

	require.Len(t, rendered, 2)
	assert.Equal(t, compose.FormatDesktop, rendered[0].Format)
	assert.Equal(t, compose.FormatPrint, rendered[1].Format)
	assert.Equal(t, []string{compose.FormatDesktop, compose.FormatPrint}, reported)

	require.Len(t, stub.calls, 2)
	for _, call := range stub.calls {
		assert.True(t, call.hasReference, "paid renders must carry the approved preview")
		assert.Contains(t, call.prompt, "[STYLE MATCH - REFERENCE IMAGE]")
	}
	assert.Equal(t, "16:9", stub.calls[0].aspectRatio)
	assert.Equal(t, "4:3", stub.calls[1].aspectRatio)
}

func TestRenderFullSetReusesPreviewUnchanged(t *testing.T) {
	stub := &stubRenderer{}
	service := NewService(stub)
	analysis := testAnalysis()
	preview := &RenderedImage{Format: compose.FormatPhone, Data: []byte("approved-preview"), MimeType: "image/png"}

	set, err := service.RenderFullSet(context.Background(), photoB64(), analysis, compose.DefaultConfig(analysis), preview, nil)
	require.NoError(t, err)

	require.Len(t, set, 3)
	assert.Equal(t, compose.FormatPhone, set[0].Format)
	assert.Equal(t, []byte("approved-preview"), set[0].Data, "the phone image is the approved preview byte-for-byte")

	// Only desktop and print hit the renderer.
	assert.Len(t, stub.calls, 2)
}

func TestRenderFullSetStopsOnFirstFailure(t *testing.T) {
	stub := &stubRenderer{fail: map[string]bool{"16:9": true}}
	service := NewService(stub)
	analysis := testAnalysis()
	preview := &RenderedImage{Format: compose.FormatPhone, Data: []byte("approved-preview"), MimeType: "image/png"}

	var failures []string
	onFormat := func(format string, err error) {
		if err != nil {
			failures = append(failures, format)
		}
	}

	_, err := service.RenderFullSet(context.Background(), photoB64(), analysis, compose.DefaultConfig(analysis), preview, onFormat)
	require.Error(t, err)

	assert.Equal(t, []string{compose.FormatDesktop}, failures)
	assert.Len(t, stub.calls, 1, "print must not render after desktop fails")
}
