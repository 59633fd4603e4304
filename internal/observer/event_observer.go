package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ExtractionEvent describes one step of a palette request
type ExtractionEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RequestID      string                 `json:"request_id,omitempty"`
	Source         string                 `json:"source"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of extraction event
type EventType string

const (
	// ExtractionStarted when a palette request is accepted
	ExtractionStarted EventType = "extraction_started"
	// ExtractionCompleted when a palette was produced
	ExtractionCompleted EventType = "extraction_completed"
	// ExtractionFailed when decoding or extraction fails
	ExtractionFailed EventType = "extraction_failed"
	// ImageFetched when a referenced image was loaded from storage
	ImageFetched EventType = "image_fetched"
	// ImageFetchFailed when storage could not deliver the image
	ImageFetchFailed EventType = "image_fetch_failed"
	// UploadRejected when an upload fails type or size checks
	UploadRejected EventType = "upload_rejected"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ExtractionEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ExtractionEvent)
	// Wait blocks until in-flight notifications have been delivered
	Wait()
}

// LoggingObserver logs extraction events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles extraction events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	fields := logrus.Fields{
		"event_type":         event.EventType,
		"source":             event.Source,
		"processing_time_ms": event.ProcessingTime.Milliseconds(),
		"success":            event.Success,
	}
	if event.RequestID != "" {
		fields["request_id"] = event.RequestID
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case ExtractionStarted:
		entry.Debug("Palette extraction started")
	case ExtractionCompleted:
		entry.Info("Palette extraction completed")
	case ExtractionFailed:
		entry.Error("Palette extraction failed")
	case ImageFetched:
		entry.Debug("Image fetched successfully")
	case ImageFetchFailed:
		entry.Error("Image fetch failed")
	case UploadRejected:
		entry.Warn("Upload rejected")
	default:
		entry.Info("Extraction event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	inflight  sync.WaitGroup
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event. Delivery is
// asynchronous and outlives the request context.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ExtractionEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, observer := range observers {
		p.inflight.Add(1)
		go func(obs Observer) {
			defer p.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					// Log panic but don't crash the application
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

// Wait blocks until every notification sent so far has been handled
func (p *EventPublisher) Wait() {
	p.inflight.Wait()
}
