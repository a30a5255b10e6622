package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"log"
	"net/http"
	"time"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/robbolivercreates/ridecanvas/modules/common/config"
)

// UploadArtImage stores one rendered poster image in Supabase Storage as WebP
// and returns the storage path. format is the poster format name (phone,
// desktop, print) and becomes part of the path.
func UploadArtImage(ctx context.Context, imageData []byte, purchaseID, format string) (string, error) {
	cfg := config.GetConfig()

	webpData, err := convertToWebP(imageData, 90.0)
	if err != nil {
		return "", fmt.Errorf("failed to convert image to WebP: %w", err)
	}

	timestamp := time.Now().UnixNano() / int64(time.Millisecond)
	filePath := fmt.Sprintf("art-sets/%s/%s_%d.webp", purchaseID, format, timestamp)

	log.Printf("📤 Uploading WebP art image to storage: %s", filePath)

	uploadURL := fmt.Sprintf("%s/storage/v1/object/ridecanvas/%s", cfg.SupabaseURL, filePath)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(webpData))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", "image/webp")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("✅ WebP art image uploaded: %s (%d bytes)", filePath, len(webpData))
	return filePath, nil
}

// DownloadArtImage fetches a stored art image back from Supabase Storage.
func DownloadArtImage(ctx context.Context, filePath string) ([]byte, error) {
	cfg := config.GetConfig()

	fullURL := cfg.SupabaseStorageBaseURL + filePath
	log.Printf("📥 Downloading art image from: %s", fullURL)

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to download image: status %d, body: %s", resp.StatusCode, string(body))
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	log.Printf("✅ Art image downloaded: %d bytes", len(imageData))
	return imageData, nil
}

// convertToWebP re-encodes any decodable raster (PNG/JPEG from the model) as
// lossy WebP for storage.
func convertToWebP(data []byte, quality float32) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	log.Printf("🔄 Converted %s to WebP: %d bytes → %d bytes", format, len(data), buf.Len())
	return buf.Bytes(), nil
}
