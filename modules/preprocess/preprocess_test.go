package preprocess

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPhotoJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7 % 256), G: uint8(y * 13 % 256), B: uint8((x + y) % 256), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestCompressKeepsSmallImageDimensions(t *testing.T) {
	raw := testPhotoJPEG(t, 800, 600)

	result, err := Compress(raw, DefaultMaxDimension, DefaultMaxBytes)
	require.NoError(t, err)

	assert.Equal(t, 800, result.Width)
	assert.Equal(t, 600, result.Height)
	assert.Equal(t, startQuality, result.Quality, "an image already under the limits should not be degraded")
}

func TestCompressShrinksOversizedImage(t *testing.T) {
	raw := testPhotoJPEG(t, 3000, 2000)

	result, err := Compress(raw, DefaultMaxDimension, DefaultMaxBytes)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Width, DefaultMaxDimension)
	assert.LessOrEqual(t, result.Height, DefaultMaxDimension)
	assert.Equal(t, 1400, result.Width, "the longer side should land exactly on the cap")

	// aspect ratio preserved within rounding
	assert.InDelta(t, 3.0/2.0, float64(result.Width)/float64(result.Height), 0.01)
}

func TestCompressOutputIsAlwaysJPEG(t *testing.T) {
	var pngBuf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	require.NoError(t, png.Encode(&pngBuf, img))

	result, err := Compress(pngBuf.Bytes(), DefaultMaxDimension, DefaultMaxBytes)
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(result.JPEG))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestCompressWalksQualityDownToFit(t *testing.T) {
	raw := testPhotoJPEG(t, 1400, 1400)

	full, err := Compress(raw, DefaultMaxDimension, DefaultMaxBytes)
	require.NoError(t, err)

	// Force the ladder with a ceiling below the q=80 size.
	ceiling := len(full.JPEG) - 1
	result, err := Compress(raw, DefaultMaxDimension, ceiling)
	require.NoError(t, err)

	assert.Less(t, result.Quality, startQuality)
	assert.LessOrEqual(t, len(result.JPEG), ceiling)
}

func TestCompressNeverFailsOnSize(t *testing.T) {
	raw := testPhotoJPEG(t, 2000, 2000)

	// Absurdly small ceiling: the fallback shrink kicks in but the call still
	// succeeds.
	result, err := Compress(raw, DefaultMaxDimension, 1)
	require.NoError(t, err)

	assert.Equal(t, fallbackQuality, result.Quality)
	assert.Less(t, result.Width, 1400)
}

func TestCompressRejectsUndecodableData(t *testing.T) {
	_, err := Compress([]byte("definitely not an image"), DefaultMaxDimension, DefaultMaxBytes)
	require.Error(t, err)

	var decodeErr *ErrDecode
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeDataURL(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	encoded := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name  string
		input string
	}{
		{"bare base64", encoded},
		{"jpeg data url", "data:image/jpeg;base64," + encoded},
		{"webp data url", "data:image/webp;base64," + encoded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDataURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}

	_, err := DecodeDataURL("data:image/jpeg;base64,!!!not-base64!!!")
	assert.Error(t, err)
}
