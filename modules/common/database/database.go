package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"

	"github.com/robbolivercreates/ridecanvas/modules/common/config"
)

// Client wraps the Supabase REST client for the rc_* tables.
type Client struct {
	supabase *supabase.Client
}

// PurchaseRecord is one row of rc_purchase: a completed checkout for one
// poster set.
type PurchaseRecord struct {
	PurchaseID        string  `json:"purchase_id"`
	CheckoutSessionID string  `json:"checkout_session_id"`
	CorrelationID     string  `json:"correlation_id"`
	VehicleName       string  `json:"vehicle_name"`
	AmountCents       int     `json:"amount_cents"`
	Currency          string  `json:"currency"`
	CustomerEmail     *string `json:"customer_email,omitempty"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// ArtSetRecord is one row of rc_art_set: storage paths for the three rendered
// formats of a paid poster set.
type ArtSetRecord struct {
	ArtSetID    string `json:"art_set_id"`
	PurchaseID  string `json:"purchase_id"`
	PhonePath   string `json:"phone_path"`
	DesktopPath string `json:"desktop_path"`
	PrintPath   string `json:"print_path"`
	MimeType    string `json:"mime_type"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// NewClient creates the Supabase client from config.
func NewClient() *Client {
	cfg := config.GetConfig()

	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{supabase: client}
}

// InsertPurchase records a verified purchase.
func (c *Client) InsertPurchase(ctx context.Context, rec *PurchaseRecord) error {
	log.Printf("💾 Inserting purchase record: %s (session %s)", rec.PurchaseID, rec.CheckoutSessionID)

	insertData := map[string]interface{}{
		"purchase_id":         rec.PurchaseID,
		"checkout_session_id": rec.CheckoutSessionID,
		"correlation_id":      rec.CorrelationID,
		"vehicle_name":        rec.VehicleName,
		"amount_cents":        rec.AmountCents,
		"currency":            rec.Currency,
		"status":              rec.Status,
	}
	if rec.CustomerEmail != nil {
		insertData["customer_email"] = *rec.CustomerEmail
	}

	_, _, err := c.supabase.From("rc_purchase").
		Insert(insertData, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	log.Printf("✅ Purchase record created: %s", rec.PurchaseID)
	return nil
}

// InsertArtSet records the storage paths of a rendered poster set.
func (c *Client) InsertArtSet(ctx context.Context, rec *ArtSetRecord) error {
	log.Printf("💾 Inserting art set record for purchase: %s", rec.PurchaseID)

	insertData := map[string]interface{}{
		"art_set_id":   rec.ArtSetID,
		"purchase_id":  rec.PurchaseID,
		"phone_path":   rec.PhonePath,
		"desktop_path": rec.DesktopPath,
		"print_path":   rec.PrintPath,
		"mime_type":    rec.MimeType,
	}

	_, _, err := c.supabase.From("rc_art_set").
		Insert(insertData, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert art set: %w", err)
	}

	log.Printf("✅ Art set record created: %s", rec.ArtSetID)
	return nil
}

// FetchPurchaseBySession looks up a purchase by checkout session id. Returns
// nil (no error) when no row exists.
func (c *Client) FetchPurchaseBySession(ctx context.Context, sessionID string) (*PurchaseRecord, error) {
	var purchases []PurchaseRecord

	data, _, err := c.supabase.From("rc_purchase").
		Select("*", "exact", false).
		Eq("checkout_session_id", sessionID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query rc_purchase: %w", err)
	}

	if err := json.Unmarshal(data, &purchases); err != nil {
		return nil, fmt.Errorf("failed to parse purchase response: %w", err)
	}

	if len(purchases) == 0 {
		return nil, nil
	}
	return &purchases[0], nil
}

// FetchPurchaseByID looks up a purchase by its own id. Returns nil (no
// error) when no row exists.
func (c *Client) FetchPurchaseByID(ctx context.Context, purchaseID string) (*PurchaseRecord, error) {
	var purchases []PurchaseRecord

	data, _, err := c.supabase.From("rc_purchase").
		Select("*", "exact", false).
		Eq("purchase_id", purchaseID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query rc_purchase: %w", err)
	}

	if err := json.Unmarshal(data, &purchases); err != nil {
		return nil, fmt.Errorf("failed to parse purchase response: %w", err)
	}

	if len(purchases) == 0 {
		return nil, nil
	}
	return &purchases[0], nil
}

// FetchArtSetByPurchase looks up the rendered art set for a purchase. Returns
// nil (no error) when rendering has not completed yet.
func (c *Client) FetchArtSetByPurchase(ctx context.Context, purchaseID string) (*ArtSetRecord, error) {
	var sets []ArtSetRecord

	data, _, err := c.supabase.From("rc_art_set").
		Select("*", "exact", false).
		Eq("purchase_id", purchaseID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query rc_art_set: %w", err)
	}

	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("failed to parse art set response: %w", err)
	}

	if len(sets) == 0 {
		return nil, nil
	}
	return &sets[0], nil
}
