package service

import (
	"testing"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

func TestStreamHubDeliversToTicketSubscribers(t *testing.T) {
	hub := NewStreamHub()
	ch, cancel := hub.Subscribe("t1")
	defer cancel()
	other, cancelOther := hub.Subscribe("t2")
	defer cancelOther()

	hub.Publish(StreamEvent{TicketID: "t1", MessageID: "m1", Text: "chunk"})

	select {
	case event := <-ch:
		if event.Text != "chunk" {
			t.Fatalf("event = %+v", event)
		}
	default:
		t.Fatal("subscriber received nothing")
	}
	select {
	case event := <-other:
		t.Fatalf("wrong ticket received %+v", event)
	default:
	}
}

func TestStreamHubPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	hub := NewStreamHub()
	_, cancel := hub.Subscribe("t1")
	defer cancel()

	// Overfill the buffer; extra events must be dropped, not block.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(StreamEvent{TicketID: "t1", Text: "x"})
	}
}

func TestStreamHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewStreamHub()
	ch, cancel := hub.Subscribe("t1")
	cancel()

	hub.Publish(StreamEvent{TicketID: "t1", Final: true, Status: domain.TicketStatusPendingUser})
	select {
	case event := <-ch:
		t.Fatalf("cancelled subscriber received %+v", event)
	default:
	}
}
