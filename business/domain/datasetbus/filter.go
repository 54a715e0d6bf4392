package datasetbus

import (
	"time"

	"github.com/dattastudio/studio-api/business/types/datasetstatus"
	"github.com/dattastudio/studio-api/business/types/license"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/google/uuid"
)

// QueryFilter holds the available fields a query can be filtered on.
type QueryFilter struct {
	ID             *uuid.UUID
	OwnerID        *uuid.UUID
	Name           *name.Name
	License        *license.Kind
	Status         *datasetstatus.Status
	StartCreatedAt *time.Time
	EndCreatedAt   *time.Time
}
