package accessbus

import (
	"net/mail"
	"time"

	"github.com/dattastudio/studio-api/business/types/requeststatus"
	"github.com/google/uuid"
)

// QueryFilter holds the available fields a query can be filtered on.
type QueryFilter struct {
	ID             *uuid.UUID
	DatasetID      *uuid.UUID
	ConnectionID   *uuid.UUID
	RequesterEmail *mail.Address
	Status         *requeststatus.Status
	StartCreatedAt *time.Time
	EndCreatedAt   *time.Time
}
