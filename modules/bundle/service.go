package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/robbolivercreates/ridecanvas/modules/common/database"
	"github.com/robbolivercreates/ridecanvas/modules/common/storage"
	"github.com/robbolivercreates/ridecanvas/modules/compose"
)

type Service struct {
	db *database.Client
}

func NewService(db *database.Client) *Service {
	return &Service{db: db}
}

// ArtSet is a purchase's rendered set with its storage paths resolved.
type ArtSet struct {
	Purchase *database.PurchaseRecord
	Record   *database.ArtSetRecord
}

// FormatPath resolves the storage path for one format.
func (a *ArtSet) FormatPath(format string) (string, error) {
	switch format {
	case compose.FormatPhone:
		return a.Record.PhonePath, nil
	case compose.FormatDesktop:
		return a.Record.DesktopPath, nil
	case compose.FormatPrint:
		return a.Record.PrintPath, nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

// Lookup fetches the purchase and its art set. A paid purchase whose renders
// have not finished yet returns a set with a nil Record.
func (s *Service) Lookup(ctx context.Context, purchaseID string) (*ArtSet, error) {
	purchase, err := s.db.FetchPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, nil
	}

	record, err := s.db.FetchArtSetByPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	return &ArtSet{Purchase: purchase, Record: record}, nil
}

// FetchFormat downloads one format's image bytes and builds its download
// filename from the vehicle name.
func (s *Service) FetchFormat(ctx context.Context, set *ArtSet, format string) ([]byte, string, error) {
	path, err := set.FormatPath(format)
	if err != nil {
		return nil, "", err
	}

	data, err := storage.DownloadArtImage(ctx, path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s image: %w", format, err)
	}

	filename := fmt.Sprintf("%s-%s.webp", slugify(set.Purchase.VehicleName), format)
	return data, filename, nil
}

// BuildZip assembles all three formats into one zip archive.
func (s *Service) BuildZip(ctx context.Context, set *ArtSet) ([]byte, string, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, format := range compose.Formats() {
		data, filename, err := s.FetchFormat(ctx, set, format)
		if err != nil {
			return nil, "", err
		}

		entry, err := zw.Create(filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create zip entry %s: %w", filename, err)
		}
		if _, err := entry.Write(data); err != nil {
			return nil, "", fmt.Errorf("failed to write zip entry %s: %w", filename, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize zip: %w", err)
	}

	filename := slugify(set.Purchase.VehicleName) + "-poster-set.zip"
	log.Printf("📦 Bundle built: %s (%d bytes)", filename, buf.Len())
	return buf.Bytes(), filename, nil
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "vehicle"
	}
	return slug
}
