package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/fitcoach/coaching-platform/internal/api/metrics"
	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Notifier fans trainer notifications out to a fixed set of workers,
// sharded by trainer id so each trainer's notifications are written in
// order. Processing writes a record into the trainernotifications
// collection through the gateway, under the system context, so
// notifications live under the same scoping regime as everything else.
type Notifier struct {
	workers []chan ports.TrainerNotification
	gateway ports.DataGateway
	log     zerolog.Logger
}

// NewNotifier creates a Notifier with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewNotifier(numWorkers int, gateway ports.DataGateway, log zerolog.Logger) *Notifier {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	n := &Notifier{
		workers: make([]chan ports.TrainerNotification, numWorkers),
		gateway: gateway,
		log:     log,
	}
	for i := range n.workers {
		n.workers[i] = make(chan ports.TrainerNotification, channelBuffer)
	}
	return n
}

// Start launches all worker goroutines. Workers stop when ctx is
// cancelled.
func (n *Notifier) Start(ctx context.Context) {
	for i, ch := range n.workers {
		go n.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a notification to the worker responsible for its
// trainer. Non-blocking up to channelBuffer capacity.
func (n *Notifier) Enqueue(note ports.TrainerNotification) {
	idx := n.shardIndex(note.TrainerID)
	n.workers[idx] <- note
	metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(n.workers[idx])))
}

// shardIndex maps a trainer id deterministically to a worker index.
func (n *Notifier) shardIndex(trainerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trainerID))
	return int(h.Sum32()) % len(n.workers)
}

func (n *Notifier) runWorker(ctx context.Context, id int, ch <-chan ports.TrainerNotification) {
	for {
		select {
		case <-ctx.Done():
			return
		case note, ok := <-ch:
			if !ok {
				return
			}
			if err := n.process(ctx, note); err != nil {
				metrics.NotificationsTotal.WithLabelValues("error").Inc()
				n.log.Error().Err(err).
					Str("trainer_id", note.TrainerID).
					Int("worker_id", id).
					Msg("notification write failed")
				continue
			}
			metrics.NotificationsTotal.WithLabelValues("delivered").Inc()
			metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}

func (n *Notifier) process(ctx context.Context, note ports.TrainerNotification) error {
	rec := domain.Record{
		domain.FieldTrainerID: note.TrainerID,
		"type":                note.Type,
		"message":             note.Message,
		"read":                false,
	}
	if note.ClientID != "" {
		rec[domain.FieldClientID] = note.ClientID
	}
	_, err := n.gateway.CreateRecord(ctx, domain.CollectionTrainerNotifications, rec, domain.SystemContext())
	return err
}
