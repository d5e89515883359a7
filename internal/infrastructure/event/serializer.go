package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/domain/trade"
)

// EventSerializer turns domain events into outbox payloads and back.
// Deserialization needs the concrete type registered under its event type.
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewEventSerializer creates an empty serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{types: make(map[string]reflect.Type)}
}

// NewLedgerEventSerializer creates a serializer that knows every event the
// ledger raises
func NewLedgerEventSerializer() *EventSerializer {
	s := NewEventSerializer()

	s.Register(partner.EventTypeCustomerCreated, &partner.CustomerCreatedEvent{})
	s.Register(partner.EventTypeCustomerBalanceChanged, &partner.CustomerBalanceChangedEvent{})
	s.Register(partner.EventTypeSupplierCreated, &partner.SupplierCreatedEvent{})
	s.Register(partner.EventTypeSupplierBalanceChanged, &partner.SupplierBalanceChangedEvent{})

	s.Register(trade.EventTypeSaleCreated, &trade.SaleCreatedEvent{})
	s.Register(trade.EventTypeSaleDeleted, &trade.SaleDeletedEvent{})
	s.Register(trade.EventTypePurchaseCreated, &trade.PurchaseCreatedEvent{})
	s.Register(trade.EventTypePurchaseDeleted, &trade.PurchaseDeletedEvent{})

	s.Register(finance.EventTypeReceiptCreated, &finance.ReceiptCreatedEvent{})
	s.Register(finance.EventTypeReceiptUpdated, &finance.ReceiptUpdatedEvent{})
	s.Register(finance.EventTypeReceiptDeleted, &finance.ReceiptDeletedEvent{})
	s.Register(finance.EventTypeSupplierPaymentRecorded, &finance.SupplierPaymentRecordedEvent{})
	s.Register(finance.EventTypeSupplierPaymentUpdated, &finance.SupplierPaymentUpdatedEvent{})
	s.Register(finance.EventTypeSupplierPaymentDeleted, &finance.SupplierPaymentDeletedEvent{})

	return s
}

// Register maps an event type to the concrete struct it decodes into
func (s *EventSerializer) Register(eventType string, prototype shared.DomainEvent) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	s.mu.Lock()
	s.types[eventType] = t
	s.mu.Unlock()
}

// Serialize encodes an event as JSON
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}
	return data, nil
}

// Deserialize decodes a payload stored under eventType
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.types[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	ptr := reflect.New(t).Interface()
	if err := json.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("%s does not implement DomainEvent", t)
	}
	return event, nil
}

// IsRegistered checks if an event type is registered
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.types[eventType]
	return ok
}

// RegisteredTypes returns the registered event types, sorted
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.types))
	for t := range s.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
