package datasetbus

import (
	"time"

	"github.com/dattastudio/studio-api/business/types/datasetstatus"
	"github.com/dattastudio/studio-api/business/types/license"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/sourcekind"
	"github.com/google/uuid"
)

// Dataset represents a dataset listed in the marketplace.
type Dataset struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Name             name.Name
	Description      string
	Source           sourcekind.Kind
	License          license.Kind
	Status           datasetstatus.Status
	FileSize         int64 // bytes, total across all files
	FileCount        int
	Tags             []string
	ApprovedAccess   int
	RejectedRequests int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewDataset contains information needed to create a new dataset.
type NewDataset struct {
	OwnerID     uuid.UUID
	Name        name.Name
	Description string
	Source      sourcekind.Kind
	License     license.Kind
	FileSize    int64
	FileCount   int
	Tags        []string
}

// UpdateDataset contains information needed to update a dataset.
type UpdateDataset struct {
	Name        *name.Name
	Description *string
	License     *license.Kind
	Status      *datasetstatus.Status
	FileSize    *int64
	FileCount   *int
	Tags        []string
}

// Grant represents an entry in a dataset's allowed users set. The
// connection ID identifies the consumer lab the API key was issued to.
type Grant struct {
	DatasetID    uuid.UUID
	ConnectionID uuid.UUID
	RequestID    uuid.UUID
	ExpiresAt    time.Time
}
