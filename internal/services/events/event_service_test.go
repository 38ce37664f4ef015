package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
)

func TestPublishSync(t *testing.T) {
	svc := NewService(common.GetLogger())

	var calls atomic.Int32
	handler := func(ctx context.Context, event interfaces.Event) error {
		calls.Add(1)
		return nil
	}

	if err := svc.Subscribe(interfaces.EventAgentTrace, handler); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := svc.Subscribe(interfaces.EventAgentTrace, handler); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	err := svc.PublishSync(context.Background(), interfaces.Event{
		Type:    interfaces.EventAgentTrace,
		Payload: map[string]interface{}{"step": 1},
	})
	if err != nil {
		t.Fatalf("PublishSync failed: %v", err)
	}

	if calls.Load() != 2 {
		t.Errorf("handler called %d times, want 2", calls.Load())
	}
}

func TestPublishSync_HandlerError(t *testing.T) {
	svc := NewService(common.GetLogger())

	if err := svc.Subscribe(interfaces.EventDocumentIngested, func(ctx context.Context, event interfaces.Event) error {
		return errors.New("handler broke")
	}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	err := svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventDocumentIngested})
	if err == nil {
		t.Error("PublishSync swallowed a handler error")
	}
}

func TestPublish_NoSubscribers(t *testing.T) {
	svc := NewService(common.GetLogger())
	if err := svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventEmbeddingComplete}); err != nil {
		t.Errorf("Publish with no subscribers failed: %v", err)
	}
}

func TestPublish_OnlyMatchingType(t *testing.T) {
	svc := NewService(common.GetLogger())

	var calls atomic.Int32
	if err := svc.Subscribe(interfaces.EventAgentTrace, func(ctx context.Context, event interfaces.Event) error {
		calls.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventDocumentIngested}); err != nil {
		t.Fatalf("PublishSync failed: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("handler received an event of another type")
	}
}

func TestSubscribe_NilHandler(t *testing.T) {
	svc := NewService(common.GetLogger())
	if err := svc.Subscribe(interfaces.EventAgentTrace, nil); err == nil {
		t.Error("Subscribe accepted a nil handler")
	}
}
