package accessbus

import (
	"net/mail"
	"time"

	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/purpose"
	"github.com/dattastudio/studio-api/business/types/requeststatus"
	"github.com/google/uuid"
)

// AccessRequest represents a consumer lab's request to download a dataset.
// The connection ID is minted at submission and identifies the consumer in
// every API key issued for this request.
type AccessRequest struct {
	ID             uuid.UUID
	DatasetID      uuid.UUID
	ConnectionID   uuid.UUID
	RequesterName  name.Name
	RequesterEmail mail.Address
	Company        name.Null
	Purpose        purpose.Purpose
	Status         requeststatus.Status
	Notes          string
	Reason         string
	APIKey         string
	ExpiresAt      time.Time
	ProcessedAt    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewAccessRequest contains information needed to submit a new access
// request.
type NewAccessRequest struct {
	DatasetID      uuid.UUID
	RequesterName  name.Name
	RequesterEmail mail.Address
	Company        name.Null
	Purpose        purpose.Purpose
}

// ApproveAccess contains the approver's decision details. A zero Days
// falls back to the default access duration.
type ApproveAccess struct {
	Days  int
	Notes string
}
