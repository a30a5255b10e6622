package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/robbolivercreates/ridecanvas/modules/common/database"
	"github.com/robbolivercreates/ridecanvas/modules/common/storage"
	"github.com/robbolivercreates/ridecanvas/modules/compose"
	"github.com/robbolivercreates/ridecanvas/modules/progress"
	"github.com/robbolivercreates/ridecanvas/modules/session"
)

// RenderQueue is the Redis list paid render jobs go through.
const RenderQueue = "render:queue"

// artSetStore persists finished art sets.
type artSetStore interface {
	InsertArtSet(ctx context.Context, rec *database.ArtSetRecord) error
}

// progressPublisher pushes wizard progress events.
type progressPublisher interface {
	Publish(event progress.Event)
}

var uploadArtImage = storage.UploadArtImage

// RenderJob is one paid purchase waiting for its desktop and print renders.
// The snapshot is carried inline so the job survives snapshot-key expiry.
type RenderJob struct {
	PurchaseID string            `json:"purchaseId"`
	Snapshot   *session.Snapshot `json:"snapshot"`
}

// Enqueue pushes a render job onto the queue.
func Enqueue(ctx context.Context, rdb *redis.Client, job *RenderJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, RenderQueue, data).Err()
}

// StartWorker watches the render queue and processes paid purchases. Runs
// forever; call in a goroutine from main.
func StartWorker(rdb *redis.Client, db *database.Client, hub *progress.Hub, service *Service) {
	log.Println("🔄 Render queue worker starting...")
	log.Printf("👀 Watching queue: %s", RenderQueue)

	ctx := context.Background()

	for {
		result, err := rdb.BRPop(ctx, 0, RenderQueue).Result()
		if err != nil {
			log.Printf("❌ Redis BRPOP error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// result[0] is the queue name, result[1] the job payload
		var job RenderJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("❌ Failed to unmarshal render job: %v", err)
			continue
		}

		log.Printf("🎯 Received render job: purchase=%s", job.PurchaseID)
		go processRenderJob(ctx, db, hub, service, &job)
	}
}

func processRenderJob(ctx context.Context, db artSetStore, hub progressPublisher, service *Service, job *RenderJob) {
	snap := job.Snapshot
	if snap == nil {
		log.Printf("❌ Render job %s has no snapshot", job.PurchaseID)
		return
	}
	if err := snap.Validate(); err != nil {
		log.Printf("❌ Render job %s snapshot invalid: %v", job.PurchaseID, err)
		hub.Publish(progress.Event{
			Type:          progress.EventPurchaseError,
			CorrelationID: snap.CorrelationID,
			Message:       "Purchase data incomplete. Contact support with your receipt.",
		})
		return
	}

	log.Printf("🚀 Rendering paid set: purchase=%s vehicle=%s", job.PurchaseID, snap.Analysis.VehicleName())

	previewData, err := base64.StdEncoding.DecodeString(snap.PreviewBase64)
	if err != nil {
		log.Printf("❌ Failed to decode preview for %s: %v", job.PurchaseID, err)
		return
	}
	preview := &RenderedImage{Format: compose.FormatPhone, Data: previewData, MimeType: snap.PreviewMime}

	onFormat := func(format string, err error) {
		eventType := progress.EventStageDone
		if err != nil {
			eventType = progress.EventStageFailed
		}
		hub.Publish(progress.Event{
			Type:          eventType,
			CorrelationID: snap.CorrelationID,
			Stage:         "render",
			Format:        format,
		})
	}

	set, err := service.RenderFullSet(ctx, snap.PhotoBase64, snap.Analysis, snap.Config, preview, onFormat)
	if err != nil {
		log.Printf("❌ Paid render failed for %s: %v", job.PurchaseID, err)
		hub.Publish(progress.Event{
			Type:          progress.EventPurchaseError,
			CorrelationID: snap.CorrelationID,
			Message:       "Artwork generation failed. Contact support with your receipt.",
		})
		return
	}

	paths := map[string]string{}
	for _, image := range set {
		hub.Publish(progress.Event{
			Type:          progress.EventStageStarted,
			CorrelationID: snap.CorrelationID,
			Stage:         "upload",
			Format:        image.Format,
		})

		path, err := uploadArtImage(ctx, image.Data, job.PurchaseID, image.Format)
		if err != nil {
			log.Printf("❌ Upload failed for %s/%s: %v", job.PurchaseID, image.Format, err)
			hub.Publish(progress.Event{
				Type:          progress.EventPurchaseError,
				CorrelationID: snap.CorrelationID,
				Message:       "Artwork upload failed. Contact support with your receipt.",
			})
			return
		}
		paths[image.Format] = path
	}

	record := &database.ArtSetRecord{
		ArtSetID:    uuid.New().String(),
		PurchaseID:  job.PurchaseID,
		PhonePath:   paths[compose.FormatPhone],
		DesktopPath: paths[compose.FormatDesktop],
		PrintPath:   paths[compose.FormatPrint],
		MimeType:    "image/webp",
	}
	if err := db.InsertArtSet(ctx, record); err != nil {
		log.Printf("❌ Failed to save art set for %s: %v", job.PurchaseID, err)
		hub.Publish(progress.Event{
			Type:          progress.EventPurchaseError,
			CorrelationID: snap.CorrelationID,
			Message:       "Artwork could not be saved. Contact support with your receipt.",
		})
		return
	}

	hub.Publish(progress.Event{
		Type:          progress.EventSetReady,
		CorrelationID: snap.CorrelationID,
		Message:       job.PurchaseID,
	})
	log.Printf("✅ Art set complete: purchase=%s artSet=%s", job.PurchaseID, record.ArtSetID)
}
