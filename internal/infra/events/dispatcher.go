package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const writeTimeout = 5 * time.Second

// Dispatcher публикует события в Kafka из фоновой горутины.
// Publish никогда не блокирует запрос: при переполненной очереди событие отбрасывается.
type Dispatcher struct {
	writer MessageWriter
	topic  string
	queue  chan kafka.Message
	log    Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher создаёт диспетчер. Без брокеров публикация выключена, события только логируются.
func NewDispatcher(brokers, topic string, bufferSize int, log Logger) *Dispatcher {
	list := SplitBrokers(brokers)
	if len(list) == 0 {
		log.Warn("Event dispatcher disabled (no kafka brokers configured)")
		return newDispatcher(nil, topic, bufferSize, log)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(list...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return newDispatcher(writer, topic, bufferSize, log)
}

func newDispatcher(writer MessageWriter, topic string, bufferSize int, log Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	d := &Dispatcher{
		writer: writer,
		topic:  topic,
		queue:  make(chan kafka.Message, bufferSize),
		log:    log,
		done:   make(chan struct{}),
	}
	go d.worker()
	return d
}

// Publish ставит событие в очередь. Trace context берётся из ctx запроса.
func (d *Dispatcher) Publish(ctx context.Context, ev Event) {
	if d.writer == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		d.log.Error("Publish: failed to marshal event type=%s, appointment=%s: %v", ev.Type, ev.AppointmentID, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(ev.AppointmentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(ev.ID)},
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	carrier := &headerCarrier{headers: msg.Headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	msg.Headers = carrier.headers

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("Publish: dispatcher closed, dropping event type=%s, appointment=%s", ev.Type, ev.AppointmentID)
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.log.Warn("Publish: event queue full, dropping event type=%s, appointment=%s", ev.Type, ev.AppointmentID)
	}
}

// Close дожидается отправки очереди (или ctx) и закрывает writer.
// Публикации после Close отбрасываются.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-ctx.Done():
		d.log.Warn("Close: event queue not drained: %v", ctx.Err())
	}

	if d.writer == nil {
		return nil
	}
	return d.writer.Close()
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.writer.WriteMessages(ctx, msg); err != nil {
			d.log.Error("worker: failed to publish event key=%s to topic=%s: %v", string(msg.Key), d.topic, err)
		}
		cancel()
	}
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)
