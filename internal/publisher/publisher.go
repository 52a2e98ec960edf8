package publisher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/fooddash/fooddash/internal/models"
	"github.com/fooddash/fooddash/internal/store"
)

// Topics for the order event stream, one per transition kind.
const (
	TopicOrderEvents        = "order_events"
	TopicStatusEvents       = "order_status_events"
	TopicCancellationEvents = "order_cancellation_events"
)

// OutputDestination receives serialized order events.
type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	output := fmt.Sprintf("[%s] %s\n", topic, string(msg))
	if _, err := os.Stdout.Write([]byte(output)); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

// JSONOutput appends one JSON document per line to <basePath>/<topic>.jsonl.
// Progression tasks of different orders publish concurrently, so the file map
// and the appends are guarded.
type JSONOutput struct {
	mu       sync.Mutex
	basePath string
	files    map[string]*os.File
}

func NewJSONOutput(basePath string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, ok := j.files[topic]
	if !ok {
		if err := os.MkdirAll(j.basePath, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
		var err error
		file, err = os.OpenFile(
			filepath.Join(j.basePath, topic+".jsonl"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
		)
		if err != nil {
			return fmt.Errorf("failed to open file for topic %s: %w", topic, err)
		}
		j.files[topic] = file
	}

	if _, err := file.Write(append(msg, '\n')); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	return nil
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var lastErr error
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// ForConfig picks the destination: Kafka when enabled, JSONL files when an
// output path is set, console otherwise.
func ForConfig(cfg *models.Config) (OutputDestination, error) {
	if cfg.KafkaEnabled {
		return NewSaramaProducer(cfg)
	}
	if cfg.OutputPath != "" {
		return NewJSONOutput(cfg.OutputPath), nil
	}
	return &ConsoleOutput{}, nil
}

// statusEvent is the wire shape shared by all topics.
type statusEvent struct {
	EventID      string  `json:"eventId"`
	EventType    string  `json:"eventType"`
	OrderID      int64   `json:"orderId"`
	RestaurantID string  `json:"restaurantId"`
	FromStatus   string  `json:"fromStatus,omitempty"`
	ToStatus     string  `json:"toStatus"`
	Total        float64 `json:"total"`
	Timestamp    int64   `json:"timestamp"`
}

// Serialize maps a store event to its topic and JSON payload.
func Serialize(ev store.Event) (string, []byte, error) {
	var topic string
	switch ev.Type {
	case store.EventOrderPlaced:
		topic = TopicOrderEvents
	case store.EventStatusUpdated:
		topic = TopicStatusEvents
	case store.EventOrderCancelled:
		topic = TopicCancellationEvents
	default:
		return "", nil, fmt.Errorf("unknown event type: %s", ev.Type)
	}

	msg, err := json.Marshal(statusEvent{
		EventID:      ev.EventID,
		EventType:    ev.Type,
		OrderID:      ev.OrderID,
		RestaurantID: ev.Order.Restaurant.ID,
		FromStatus:   ev.From,
		ToStatus:     ev.To,
		Total:        ev.Order.Total,
		Timestamp:    ev.At.Unix(),
	})
	if err != nil {
		return "", nil, err
	}
	return topic, msg, nil
}

// Attach subscribes the destination to the store's event hook. Write failures
// are logged, never propagated back into the transition that caused them.
func Attach(s *store.OrderStore, dest OutputDestination, logger *zap.Logger) {
	log := logger.Sugar()
	s.Subscribe(func(ev store.Event) {
		topic, msg, err := Serialize(ev)
		if err != nil {
			log.Errorw("failed to serialize order event", "event_id", ev.EventID, "error", err)
			return
		}
		if err := dest.WriteMessage(topic, msg); err != nil {
			log.Errorw("failed to publish order event", "topic", topic, "event_id", ev.EventID, "error", err)
		}
	})
}
