package preprocess

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder

	_ "github.com/kolesa-team/go-webp/decoder" // register WebP decoder

	"strings"
)

// Compression knobs. The byte ceiling tracks the transport request-size limit
// of the generation API; everything else exists to land under it without ever
// rejecting an oversized photo.
const (
	DefaultMaxDimension = 1400
	DefaultMaxBytes     = 3 * 1024 * 1024

	startQuality    = 80
	qualityStep     = 10
	qualityFloor    = 30
	fallbackShrink  = 0.7
	fallbackQuality = 50
)

// ErrDecode reports an unreadable or unsupported upload. The caller shows a
// generic "try a different photo" message; HEIC uploads land here since no
// pure-Go decoder exists for them.
type ErrDecode struct {
	cause error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("could not decode uploaded image: %v", e.cause)
}

func (e *ErrDecode) Unwrap() error { return e.cause }

// Result is the normalized upload: always JPEG, always under the byte
// ceiling, both dimensions under the max.
type Result struct {
	JPEG    []byte
	Width   int
	Height  int
	Quality int
}

// Base64 returns the JPEG payload base64-encoded for the model API.
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.JPEG)
}

// Compress normalizes a raw upload for transport: decode, cap the longer side
// at maxDimension, then re-encode as JPEG, walking quality down (and finally
// shrinking once more) until the payload fits under maxBytes. Oversized input
// degrades, it never fails; only an undecodable file is an error.
func Compress(raw []byte, maxDimension, maxBytes int) (*Result, error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &ErrDecode{cause: err}
	}

	img = fitWithin(img, maxDimension)

	quality := startQuality
	encoded, err := encodeJPEG(img, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	// Quality ladder: step down until under the ceiling or at the floor.
	for len(encoded) > maxBytes && quality-qualityStep >= qualityFloor {
		quality -= qualityStep
		encoded, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	}

	// Still oversized at the floor: shrink the raster once and re-encode.
	if len(encoded) > maxBytes {
		bounds := img.Bounds()
		img = scaleTo(img,
			int(float64(bounds.Dx())*fallbackShrink),
			int(float64(bounds.Dy())*fallbackShrink))
		quality = fallbackQuality
		encoded, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	}

	bounds := img.Bounds()
	return &Result{
		JPEG:    encoded,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Quality: quality,
	}, nil
}

// DecodeDataURL strips an optional data:*;base64, prefix and decodes the
// payload. Clients send uploads and cached previews in this form.
func DecodeDataURL(s string) ([]byte, error) {
	if idx := strings.Index(s, ","); idx >= 0 && strings.HasPrefix(s, "data:") {
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return data, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitWithin scales down so the longer side equals maxDimension, preserving
// aspect ratio. Images already inside the cap are returned as-is.
func fitWithin(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= maxDimension && h <= maxDimension {
		return img
	}

	if w >= h {
		return scaleTo(img, maxDimension, h*maxDimension/w)
	}
	return scaleTo(img, w*maxDimension/h, maxDimension)
}

// scaleTo resizes with nearest-neighbour sampling.
func scaleTo(src image.Image, targetWidth, targetHeight int) image.Image {
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	srcBounds := src.Bounds()
	srcWidth := srcBounds.Dx()
	srcHeight := srcBounds.Dy()

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	for y := 0; y < targetHeight; y++ {
		for x := 0; x < targetWidth; x++ {
			srcX := srcBounds.Min.X + x*srcWidth/targetWidth
			srcY := srcBounds.Min.Y + y*srcHeight/targetHeight
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	return dst
}
