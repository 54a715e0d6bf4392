package datasetdb

import (
	"fmt"
	"time"

	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/sdk/sqldb/dbarray"
	"github.com/dattastudio/studio-api/business/types/datasetstatus"
	"github.com/dattastudio/studio-api/business/types/license"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/sourcekind"
	"github.com/google/uuid"
)

type datasetDB struct {
	ID               uuid.UUID      `db:"dataset_id"`
	OwnerID          uuid.UUID      `db:"owner_id"`
	Name             string         `db:"name"`
	Description      string         `db:"description"`
	Source           string         `db:"source"`
	License          string         `db:"license"`
	Status           string         `db:"status"`
	FileSize         int64          `db:"file_size"`
	FileCount        int            `db:"file_count"`
	Tags             dbarray.String `db:"tags"`
	ApprovedAccess   int            `db:"approved_access"`
	RejectedRequests int            `db:"rejected_requests"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func toDBDataset(bus datasetbus.Dataset) datasetDB {
	return datasetDB{
		ID:               bus.ID,
		OwnerID:          bus.OwnerID,
		Name:             bus.Name.String(),
		Description:      bus.Description,
		Source:           bus.Source.String(),
		License:          bus.License.String(),
		Status:           bus.Status.String(),
		FileSize:         bus.FileSize,
		FileCount:        bus.FileCount,
		Tags:             dbarray.String(bus.Tags),
		ApprovedAccess:   bus.ApprovedAccess,
		RejectedRequests: bus.RejectedRequests,
		CreatedAt:        bus.CreatedAt.UTC(),
		UpdatedAt:        bus.UpdatedAt.UTC(),
	}
}

func toBusDataset(db datasetDB) (datasetbus.Dataset, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return datasetbus.Dataset{}, fmt.Errorf("parse name: %w", err)
	}

	source, err := sourcekind.Parse(db.Source)
	if err != nil {
		return datasetbus.Dataset{}, fmt.Errorf("parse source: %w", err)
	}

	lic, err := license.Parse(db.License)
	if err != nil {
		return datasetbus.Dataset{}, fmt.Errorf("parse license: %w", err)
	}

	status, err := datasetstatus.Parse(db.Status)
	if err != nil {
		return datasetbus.Dataset{}, fmt.Errorf("parse status: %w", err)
	}

	bus := datasetbus.Dataset{
		ID:               db.ID,
		OwnerID:          db.OwnerID,
		Name:             nme,
		Description:      db.Description,
		Source:           source,
		License:          lic,
		Status:           status,
		FileSize:         db.FileSize,
		FileCount:        db.FileCount,
		Tags:             db.Tags,
		ApprovedAccess:   db.ApprovedAccess,
		RejectedRequests: db.RejectedRequests,
		CreatedAt:        db.CreatedAt.In(time.Local),
		UpdatedAt:        db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusDatasets(dbs []datasetDB) ([]datasetbus.Dataset, error) {
	bus := make([]datasetbus.Dataset, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusDataset(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}

type grantDB struct {
	DatasetID    uuid.UUID `db:"dataset_id"`
	ConnectionID uuid.UUID `db:"connection_id"`
	RequestID    uuid.UUID `db:"request_id"`
	ExpiresAt    time.Time `db:"expires_at"`
}

func toDBGrant(bus datasetbus.Grant) grantDB {
	return grantDB{
		DatasetID:    bus.DatasetID,
		ConnectionID: bus.ConnectionID,
		RequestID:    bus.RequestID,
		ExpiresAt:    bus.ExpiresAt.UTC(),
	}
}
