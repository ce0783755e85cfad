// Package recorder writes one verification log row per verify request,
// asynchronously, and publishes a best-effort event for downstream consumers.
// Recording never blocks or fails the verification path.
package recorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"certverify/internal/platform/kafka/producer"
	"certverify/internal/verifylog/models"
	"certverify/internal/verifylog/store"
	"certverify/pkg/requestcontext"
)

const (
	bufferSize    = 256
	batchSize     = 64
	flushInterval = 2 * time.Second
)

// EventPublisher publishes verification events. Fire-and-forget.
type EventPublisher interface {
	ProduceAsync(msg *producer.Message) error
}

// Recorder buffers verification log entries and flushes them in batches from
// a background worker. Under backpressure entries are dropped, not queued
// unboundedly: the log is observational, the verify path is not allowed to
// slow down for it.
type Recorder struct {
	store     store.Store
	publisher EventPublisher
	topic     string
	logger    *slog.Logger

	entries chan models.Entry
	done    chan struct{}
	wg      sync.WaitGroup
}

// New starts a Recorder. publisher may be nil to disable event publishing.
func New(store store.Store, publisher EventPublisher, topic string, logger *slog.Logger) *Recorder {
	r := &Recorder{
		store:     store,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
		entries:   make(chan models.Entry, bufferSize),
		done:      make(chan struct{}),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record enqueues a log entry for the given verification outcome. Client IP,
// user agent, and timestamp are taken from the request context.
func (r *Recorder) Record(ctx context.Context, verifyCode, result string) {
	rawUA := requestcontext.UserAgent(ctx)
	entry := models.Entry{
		ID:            uuid.New(),
		VerifyCode:    verifyCode,
		Result:        result,
		ClientIP:      requestcontext.ClientIP(ctx),
		UserAgent:     rawUA,
		DeviceSummary: deviceSummary(rawUA),
		CreatedAt:     requestcontext.Now(ctx),
	}

	select {
	case r.entries <- entry:
	default:
		r.logger.WarnContext(ctx, "verification log buffer full, dropping entry",
			"verify_code", verifyCode)
	}
}

// Close flushes buffered entries and stops the worker.
func (r *Recorder) Close() {
	close(r.done)
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]models.Entry, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		r.flush(batch)
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-r.entries:
			batch = append(batch, entry)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-r.done:
			for {
				select {
				case entry := <-r.entries:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (r *Recorder) flush(batch []models.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.store.InsertBatch(ctx, batch); err != nil {
		r.logger.Error("verification log flush failed", "error", err, "entries", len(batch))
	}
	r.publish(batch)
}

// verificationEvent is the wire shape published per verification.
type verificationEvent struct {
	VerifyCode string    `json:"verify_code"`
	Result     string    `json:"result"`
	ClientIP   string    `json:"client_ip,omitempty"`
	Device     string    `json:"device,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (r *Recorder) publish(batch []models.Entry) {
	if r.publisher == nil {
		return
	}
	for _, entry := range batch {
		payload, err := json.Marshal(verificationEvent{
			VerifyCode: entry.VerifyCode,
			Result:     entry.Result,
			ClientIP:   entry.ClientIP,
			Device:     entry.DeviceSummary,
			OccurredAt: entry.CreatedAt,
		})
		if err != nil {
			continue
		}
		if err := r.publisher.ProduceAsync(&producer.Message{
			Topic: r.topic,
			Key:   []byte(entry.VerifyCode),
			Value: payload,
		}); err != nil {
			r.logger.Warn("verification event publish failed", "error", err)
		}
	}
}

// deviceSummary condenses a raw User-Agent into a short human-readable label.
func deviceSummary(rawUA string) string {
	if rawUA == "" {
		return "Unknown"
	}
	ua := useragent.New(rawUA)
	if ua.Bot() {
		return "Bot"
	}

	name, version := ua.Browser()
	parts := []string{}
	if name != "" {
		if version != "" {
			if i := strings.Index(version, "."); i > 0 {
				version = version[:i]
			}
			name = name + " " + version
		}
		parts = append(parts, name)
	}
	if os := ua.OS(); os != "" {
		parts = append(parts, "on "+os)
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, " ")
}
