package datasetapp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dattastudio/studio-api/app/sdk/errs"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/types/datasetstatus"
	"github.com/dattastudio/studio-api/business/types/license"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/sourcekind"
	"github.com/google/uuid"
)

// Dataset represents information about an individual dataset.
type Dataset struct {
	ID               string   `json:"id"`
	OwnerID          string   `json:"ownerID"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Source           string   `json:"source"`
	License          string   `json:"license"`
	Status           string   `json:"status"`
	FileSize         int64    `json:"fileSize"`
	FileCount        int      `json:"fileCount"`
	Tags             []string `json:"tags"`
	ApprovedAccess   int      `json:"approvedAccess"`
	RejectedRequests int      `json:"rejectedRequests"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

// Encode implements the encoder interface.
func (app Dataset) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppDataset(bus datasetbus.Dataset) Dataset {
	return Dataset{
		ID:               bus.ID.String(),
		OwnerID:          bus.OwnerID.String(),
		Name:             bus.Name.String(),
		Description:      bus.Description,
		Source:           bus.Source.String(),
		License:          bus.License.String(),
		Status:           bus.Status.String(),
		FileSize:         bus.FileSize,
		FileCount:        bus.FileCount,
		Tags:             bus.Tags,
		ApprovedAccess:   bus.ApprovedAccess,
		RejectedRequests: bus.RejectedRequests,
		CreatedAt:        bus.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        bus.UpdatedAt.Format(time.RFC3339),
	}
}

func toAppDatasets(datasets []datasetbus.Dataset) []Dataset {
	app := make([]Dataset, len(datasets))
	for i, ds := range datasets {
		app[i] = toAppDataset(ds)
	}

	return app
}

// NewDataset defines the data needed to add a new dataset.
type NewDataset struct {
	Name        string   `json:"name" validate:"required,min=3,max=60"`
	Description string   `json:"description" validate:"max=2000"`
	Source      string   `json:"source" validate:"required"`
	License     string   `json:"license" validate:"required"`
	FileSize    int64    `json:"fileSize" validate:"gte=0"`
	FileCount   int      `json:"fileCount" validate:"gte=0"`
	Tags        []string `json:"tags"`
}

// Decode implements the decoder interface.
func (app *NewDataset) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewDataset) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.Newf(errs.InvalidArgument, "validate: %s", err)
	}

	return nil
}

func toBusNewDataset(ownerID uuid.UUID, app NewDataset) (datasetbus.NewDataset, error) {
	nme, err := name.Parse(app.Name)
	if err != nil {
		return datasetbus.NewDataset{}, fmt.Errorf("parse name: %w", err)
	}

	source, err := sourcekind.Parse(app.Source)
	if err != nil {
		return datasetbus.NewDataset{}, fmt.Errorf("parse source: %w", err)
	}

	lic, err := license.Parse(app.License)
	if err != nil {
		return datasetbus.NewDataset{}, fmt.Errorf("parse license: %w", err)
	}

	bus := datasetbus.NewDataset{
		OwnerID:     ownerID,
		Name:        nme,
		Description: app.Description,
		Source:      source,
		License:     lic,
		FileSize:    app.FileSize,
		FileCount:   app.FileCount,
		Tags:        app.Tags,
	}

	return bus, nil
}

// UpdateDataset defines the data needed to update a dataset.
type UpdateDataset struct {
	Name        *string  `json:"name" validate:"omitempty,min=3,max=60"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	License     *string  `json:"license"`
	Status      *string  `json:"status"`
	FileSize    *int64   `json:"fileSize" validate:"omitempty,gte=0"`
	FileCount   *int     `json:"fileCount" validate:"omitempty,gte=0"`
	Tags        []string `json:"tags"`
}

// Decode implements the decoder interface.
func (app *UpdateDataset) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app UpdateDataset) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.Newf(errs.InvalidArgument, "validate: %s", err)
	}

	return nil
}

func toBusUpdateDataset(app UpdateDataset) (datasetbus.UpdateDataset, error) {
	var bus datasetbus.UpdateDataset

	if app.Name != nil {
		nme, err := name.Parse(*app.Name)
		if err != nil {
			return datasetbus.UpdateDataset{}, fmt.Errorf("parse name: %w", err)
		}
		bus.Name = &nme
	}

	bus.Description = app.Description

	if app.License != nil {
		lic, err := license.Parse(*app.License)
		if err != nil {
			return datasetbus.UpdateDataset{}, fmt.Errorf("parse license: %w", err)
		}
		bus.License = &lic
	}

	if app.Status != nil {
		status, err := datasetstatus.Parse(*app.Status)
		if err != nil {
			return datasetbus.UpdateDataset{}, fmt.Errorf("parse status: %w", err)
		}
		bus.Status = &status
	}

	bus.FileSize = app.FileSize
	bus.FileCount = app.FileCount
	bus.Tags = app.Tags

	return bus, nil
}
