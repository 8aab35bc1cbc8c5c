package infrastructure

import (
	"fmt"

	"guildledger/events"
)

// EventSubjectMapper handles mapping between ledger events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a ledger event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return "ledger.balance_changed"
	case events.EventTypeWagerSettled:
		return "wagers.settled"
	case events.EventTypeCodeRedeemed:
		return "codes.redeemed"
	case events.EventTypeRoundExpired:
		return "rounds.expired"
	case events.EventTypeDailyClaimed:
		return "rewards.daily_claimed"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "ledger.balance_changed":
		return events.EventTypeBalanceChange
	case "wagers.settled":
		return events.EventTypeWagerSettled
	case "codes.redeemed":
		return events.EventTypeCodeRedeemed
	case "rounds.expired":
		return events.EventTypeRoundExpired
	case "rewards.daily_claimed":
		return events.EventTypeDailyClaimed
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"ledger.balance_changed",
		"wagers.settled",
		"codes.redeemed",
		"rounds.expired",
		"rewards.daily_claimed",
	}
}
