package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/robbolivercreates/ridecanvas/modules/common/config"
	"github.com/robbolivercreates/ridecanvas/modules/common/database"
	"github.com/robbolivercreates/ridecanvas/modules/pipeline"
	"github.com/robbolivercreates/ridecanvas/modules/session"
)

// snapshotStore is the slice of the session store the checkout flow uses.
type snapshotStore interface {
	Save(ctx context.Context, token string, snap *session.Snapshot) error
	Load(ctx context.Context, token string) (*session.Snapshot, error)
	Delete(ctx context.Context, token string) error
	MarkProcessed(ctx context.Context, checkoutSessionID string) (bool, error)
	UnmarkProcessed(ctx context.Context, checkoutSessionID string) error
}

// purchaseStore is the slice of the database client the checkout flow uses.
type purchaseStore interface {
	InsertPurchase(ctx context.Context, rec *database.PurchaseRecord) error
	FetchPurchaseBySession(ctx context.Context, sessionID string) (*database.PurchaseRecord, error)
}

type Service struct {
	client  *Client
	store   snapshotStore
	db      purchaseStore
	rdb     *redis.Client
	enqueue func(ctx context.Context, job *pipeline.RenderJob) error
}

func NewService(store *session.Store, db *database.Client, rdb *redis.Client) *Service {
	s := &Service{
		client: NewClient(),
		store:  store,
		db:     db,
		rdb:    rdb,
	}
	s.enqueue = func(ctx context.Context, job *pipeline.RenderJob) error {
		return pipeline.Enqueue(ctx, s.rdb, job)
	}
	return s
}

// BeginCheckout snapshots the wizard state and opens a hosted checkout
// session. The returned URL is where the client redirects the buyer.
func (s *Service) BeginCheckout(ctx context.Context, snap *session.Snapshot) (checkoutURL string, err error) {
	if err := snap.Validate(); err != nil {
		return "", fmt.Errorf("wizard state incomplete: %w", err)
	}

	token := uuid.New().String()
	if err := s.store.Save(ctx, token, snap); err != nil {
		return "", fmt.Errorf("failed to persist pending purchase: %w", err)
	}

	checkoutSession, err := s.client.CreateSession(ctx, token, snap.Analysis.VehicleName())
	if err != nil {
		// best effort; the snapshot expires on its own otherwise
		s.store.Delete(ctx, token)
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return checkoutSession.URL, nil
}

// ReturnResult is the outcome of handling the redirect back from checkout.
type ReturnResult struct {
	Paid          bool   `json:"paid"`
	PurchaseID    string `json:"purchaseId,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
	AlreadyDone   bool   `json:"alreadyDone,omitempty"`
}

// CompleteReturn verifies a checkout session after the buyer comes back from
// the hosted page. Idempotent: revisiting the success URL never double-charges
// a render or creates a second purchase row.
func (s *Service) CompleteReturn(ctx context.Context, checkoutSessionID string) (*ReturnResult, error) {
	checkoutSession, err := s.client.GetSession(ctx, checkoutSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify checkout session: %w", err)
	}

	if !checkoutSession.Paid() {
		log.Printf("⚠️ Checkout session %s not paid (status=%s)", checkoutSessionID, checkoutSession.PaymentStatus)
		return &ReturnResult{Paid: false}, nil
	}

	// Repeat visit: return the existing purchase instead of reprocessing.
	first, err := s.store.MarkProcessed(ctx, checkoutSessionID)
	if err != nil {
		return nil, err
	}
	if !first {
		existing, err := s.db.FetchPurchaseBySession(ctx, checkoutSessionID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("session %s marked processed but has no purchase record", checkoutSessionID)
		}
		log.Printf("🔁 Session %s already settled, purchase %s", checkoutSessionID, existing.PurchaseID)
		return &ReturnResult{
			Paid:          true,
			PurchaseID:    existing.PurchaseID,
			CorrelationID: existing.CorrelationID,
			AlreadyDone:   true,
		}, nil
	}

	// The marker is ours now. Every failure below must release it, otherwise
	// the session stays "processed" with no purchase row and the buyer can
	// never recover by revisiting.
	fail := func(err error) (*ReturnResult, error) {
		if unmarkErr := s.store.UnmarkProcessed(ctx, checkoutSessionID); unmarkErr != nil {
			log.Printf("⚠️ Failed to release processed marker for %s: %v", checkoutSessionID, unmarkErr)
		}
		return nil, err
	}

	token := checkoutSession.ClientReferenceID
	snap, err := s.store.Load(ctx, token)
	if err != nil {
		return fail(err)
	}
	if snap == nil {
		return fail(fmt.Errorf("pending purchase %s expired before payment completed", token))
	}

	// An earlier visit may have inserted the purchase and then failed to
	// enqueue (releasing the marker); reuse its row instead of duplicating.
	record, err := s.db.FetchPurchaseBySession(ctx, checkoutSessionID)
	if err != nil {
		return fail(err)
	}
	if record == nil {
		cfg := config.GetConfig()

		record = &database.PurchaseRecord{
			PurchaseID:        uuid.New().String(),
			CheckoutSessionID: checkoutSessionID,
			CorrelationID:     snap.CorrelationID,
			VehicleName:       snap.Analysis.VehicleName(),
			AmountCents:       cfg.PosterPriceCents,
			Currency:          cfg.PosterCurrency,
			Status:            "paid",
		}
		if checkoutSession.AmountTotal > 0 {
			record.AmountCents = checkoutSession.AmountTotal
		}
		if checkoutSession.Currency != "" {
			record.Currency = checkoutSession.Currency
		}
		if checkoutSession.CustomerDetails != nil && checkoutSession.CustomerDetails.Email != "" {
			email := checkoutSession.CustomerDetails.Email
			record.CustomerEmail = &email
		}

		if err := s.db.InsertPurchase(ctx, record); err != nil {
			return fail(err)
		}
	}

	if err := s.enqueue(ctx, &pipeline.RenderJob{PurchaseID: record.PurchaseID, Snapshot: snap}); err != nil {
		return fail(fmt.Errorf("failed to enqueue render job: %w", err))
	}

	s.store.Delete(ctx, token)

	log.Printf("✅ Purchase settled: %s (session %s, vehicle %s)", record.PurchaseID, checkoutSessionID, record.VehicleName)
	return &ReturnResult{
		Paid:          true,
		PurchaseID:    record.PurchaseID,
		CorrelationID: snap.CorrelationID,
	}, nil
}
