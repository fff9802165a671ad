package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock type for the NotificationDispatcher interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Dispatch(ctx context.Context, notification domain.Notification) (domain.DeliveryReport, error) {
	args := m.Called(ctx, notification)
	return args.Get(0).(domain.DeliveryReport), args.Error(1)
}

// MockPostalLookup is a mock type for the PostalReferenceLookup interface
type MockPostalLookup struct {
	mock.Mock
}

func (m *MockPostalLookup) Validate(ctx context.Context, line1, line2, city, postcode string) (domain.PostalLookupResult, error) {
	args := m.Called(ctx, line1, line2, city, postcode)
	return args.Get(0).(domain.PostalLookupResult), args.Error(1)
}

// recordingAuditSink keeps every event it is given.
type recordingAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *recordingAuditSink) Record(_ context.Context, event domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAuditSink) For(resourceType domain.AuditResourceType, resourceID string) []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.AuditEvent{}
	for _, e := range r.events {
		if e.ResourceType == resourceType && e.ResourceID == resourceID {
			out = append(out, e)
		}
	}
	return out
}

// --- Fixtures ---

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func queenStreet(number, postcode string) domain.Address {
	return domain.Address{
		Line1:    number + " Queen St",
		City:     "Auckland",
		Region:   "Auckland",
		Postcode: postcode,
		Country:  "NZ",
	}
}

func georgeStreet() domain.Address {
	return domain.Address{
		Line1:    "1 George St",
		City:     "Sydney",
		Region:   "NSW",
		Postcode: "2000",
		Country:  "AU",
	}
}

func lambtonQuay() domain.Address {
	return domain.Address{
		Line1:    "10 Lambton Quay",
		City:     "Wellington",
		Region:   "Wellington",
		Postcode: "6011",
		Country:  "NZ",
	}
}
