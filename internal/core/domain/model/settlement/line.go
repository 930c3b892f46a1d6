package settlement

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var ErrSettlementRequired = errors.New("included or paid item must reference a settlement")

// lineState is the status and header reference shared by owner and courier items.
type lineState struct {
	settlementID *kernel.UUID
	status       ItemStatus
}

func restoreLineState(settlementID *kernel.UUID, status ItemStatus) (lineState, error) {
	if err := status.Validate(); err != nil {
		return lineState{}, err
	}
	if settlementID == nil && (status == ItemIncluded || status == ItemPaid) {
		return lineState{}, errs.NewValueIsRequiredErrorWithCause("settlement id", ErrSettlementRequired)
	}
	return lineState{settlementID: settlementID, status: status}, nil
}

func (l *lineState) SettlementID() *kernel.UUID { return l.settlementID }
func (l *lineState) Status() ItemStatus         { return l.status }

// Include attaches the item to a settlement header.
func (l *lineState) Include(settlementID kernel.UUID) error {
	if err := settlementID.Validate(); err != nil {
		return err
	}
	next, err := l.status.transitionTo(ItemIncluded)
	if err != nil {
		return err
	}
	l.status = next
	l.settlementID = &settlementID
	return nil
}

func (l *lineState) MarkPaid() error {
	next, err := l.status.transitionTo(ItemPaid)
	if err != nil {
		return err
	}
	l.status = next
	return nil
}

func (l *lineState) Cancel() error {
	next, err := l.status.transitionTo(ItemCanceled)
	if err != nil {
		return err
	}
	l.status = next
	return nil
}
