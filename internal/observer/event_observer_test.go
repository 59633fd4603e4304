package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type recordingObserver struct {
	name   string
	mu     sync.Mutex
	events []ExtractionEvent
}

func (r *recordingObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) GetObserverName() string { return r.name }

func (r *recordingObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event ExtractionEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                            { return "panicking" }

func TestEventPublisher_NotifiesAllObservers(t *testing.T) {
	p := NewEventPublisher()
	a := &recordingObserver{name: "a"}
	b := &recordingObserver{name: "b"}
	p.Subscribe(a)
	p.Subscribe(b)
	p.Subscribe(panickingObserver{})

	p.NotifyObservers(context.Background(), ExtractionEvent{EventType: ExtractionStarted})
	p.NotifyObservers(context.Background(), ExtractionEvent{EventType: ExtractionCompleted})
	p.Wait()

	if a.count() != 2 || b.count() != 2 {
		t.Errorf("Expected 2 events per observer, got %d and %d", a.count(), b.count())
	}
	if a.events[0].Timestamp.IsZero() {
		t.Error("Expected publisher to stamp events")
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	p := NewEventPublisher()
	a := &recordingObserver{name: "a"}
	b := &recordingObserver{name: "b"}
	p.Subscribe(a)
	p.Subscribe(b)
	p.Unsubscribe(&recordingObserver{name: "a"})

	p.NotifyObservers(context.Background(), ExtractionEvent{EventType: ExtractionStarted})
	p.Wait()

	if a.count() != 0 {
		t.Errorf("Expected unsubscribed observer to receive nothing, got %d", a.count())
	}
	if b.count() != 1 {
		t.Errorf("Expected 1 event, got %d", b.count())
	}
}

func TestEventPublisher_OutlivesCancelledContext(t *testing.T) {
	p := NewEventPublisher()
	ctxSeen := make(chan error, 1)
	p.Subscribe(observerFunc(func(ctx context.Context, e ExtractionEvent) {
		ctxSeen <- ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.NotifyObservers(ctx, ExtractionEvent{EventType: ExtractionCompleted})
	p.Wait()

	if err := <-ctxSeen; err != nil {
		t.Errorf("Expected observer context to be detached from cancellation, got %v", err)
	}
}

type observerFunc func(ctx context.Context, e ExtractionEvent)

func (f observerFunc) OnEvent(ctx context.Context, e ExtractionEvent) { f(ctx, e) }
func (f observerFunc) GetObserverName() string                        { return "func" }

func TestMetricsObserver_Snapshot(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()

	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionStarted})
	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionStarted})
	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionStarted})
	m.OnEvent(ctx, ExtractionEvent{
		EventType:      ExtractionCompleted,
		ProcessingTime: 100 * time.Millisecond,
		Metadata:       map[string]interface{}{"color_count": 6},
	})
	m.OnEvent(ctx, ExtractionEvent{
		EventType:      ExtractionCompleted,
		ProcessingTime: 300 * time.Millisecond,
		Metadata:       map[string]interface{}{"color_count": 4},
	})
	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionFailed})
	m.OnEvent(ctx, ExtractionEvent{EventType: UploadRejected})
	m.OnEvent(ctx, ExtractionEvent{EventType: ImageFetched})
	m.OnEvent(ctx, ExtractionEvent{EventType: ImageFetchFailed})

	s := m.Snapshot()
	if s.TotalExtractions != 3 || s.SuccessfulExtractions != 2 || s.FailedExtractions != 1 {
		t.Errorf("Unexpected extraction counters: %+v", s)
	}
	if s.RejectedUploads != 1 || s.ImageFetches != 1 || s.FailedImageFetches != 1 {
		t.Errorf("Unexpected upload/fetch counters: %+v", s)
	}
	if s.ColorsExtracted != 10 {
		t.Errorf("Expected 10 colors extracted, got %d", s.ColorsExtracted)
	}
	if s.AvgProcessingTime != 200*time.Millisecond {
		t.Errorf("Expected 200ms average, got %s", s.AvgProcessingTime)
	}
	if s.PaletteSizes[6] != 1 || s.PaletteSizes[4] != 1 {
		t.Errorf("Unexpected palette sizes: %v", s.PaletteSizes)
	}

	s.PaletteSizes[6] = 99
	if m.Snapshot().PaletteSizes[6] != 1 {
		t.Error("Expected snapshot to be a copy")
	}
}

func TestLoggingObserver_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	o := NewLoggingObserver(l)
	o.OnEvent(context.Background(), ExtractionEvent{
		EventType:      ExtractionFailed,
		RequestID:      "req-1",
		Source:         "hero.png",
		ProcessingTime: 1500 * time.Millisecond,
		ErrorMessage:   "decode failed",
		Metadata:       map[string]interface{}{"color_count": 6},
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q", buf.String())
	}
	if entry["level"] != "error" {
		t.Errorf("Expected error level, got %v", entry["level"])
	}
	if entry["request_id"] != "req-1" || entry["source"] != "hero.png" {
		t.Errorf("Missing identifying fields: %v", entry)
	}
	if entry["processing_time_ms"] != float64(1500) {
		t.Errorf("Expected processing_time_ms 1500, got %v", entry["processing_time_ms"])
	}
	if !strings.Contains(buf.String(), "decode failed") {
		t.Error("Expected error message in log output")
	}
}
