package settlement

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/ddd"
)

const EventTypePaid = "SettlementPaid"

// Party distinguishes owner and courier settlements in events and queries.
type Party string

const (
	PartyOwner   Party = "OWNER"
	PartyCourier Party = "COURIER"
)

type PaidEvent struct {
	ddd.BaseEvent
	SettlementID       string `json:"settlement_id"`
	Party              Party  `json:"party"`
	PartyID            string `json:"party_id"`
	Amount             int64  `json:"amount"`
	ExternalTransferID string `json:"external_transfer_id,omitempty"`
}

func newPaidEvent(party Party, settlementID, partyID kernel.UUID, amount int64, transferID string) PaidEvent {
	return PaidEvent{
		BaseEvent:          ddd.NewBaseEvent(EventTypePaid, settlementID.Bytes()),
		SettlementID:       settlementID.String(),
		Party:              party,
		PartyID:            partyID.String(),
		Amount:             amount,
		ExternalTransferID: transferID,
	}
}
