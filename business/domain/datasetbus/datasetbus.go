// Package datasetbus provides business access to marketplace datasets,
// their usage statistics, and the set of consumers allowed to download
// them.
package datasetbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dattastudio/studio-api/business/domain/licensebus"
	"github.com/dattastudio/studio-api/business/sdk/order"
	"github.com/dattastudio/studio-api/business/sdk/page"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/business/types/datasetstatus"
	"github.com/dattastudio/studio-api/foundation/otel"
	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("dataset not found")
	ErrNotPublished = errors.New("dataset is not published")
)

// Storer defines the behavior required to persist and retrieve datasets
// and their access grants.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, ds Dataset) error
	Update(ctx context.Context, ds Dataset) error
	Delete(ctx context.Context, ds Dataset) error
	Query(ctx context.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]Dataset, error)
	Count(ctx context.Context, filter QueryFilter) (int, error)
	QueryByID(ctx context.Context, datasetID uuid.UUID) (Dataset, error)
	GrantAccess(ctx context.Context, grant Grant) error
	RevokeAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID) error
	RecordRejection(ctx context.Context, datasetID uuid.UUID) error
	HasAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID, now time.Time) (bool, error)
	PruneExpiredAccess(ctx context.Context, now time.Time) (int, error)
}

// Core manages the set of APIs for dataset access.
type Core struct {
	licenseBus *licensebus.Core
	storer     Storer
}

// NewCore constructs a core for dataset api access.
func NewCore(licenseBus *licensebus.Core, storer Storer) *Core {
	return &Core{
		licenseBus: licenseBus,
		storer:     storer,
	}
}

// NewWithTx constructs a new Core value replacing the Storer
// value with a Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return NewCore(c.licenseBus, storer), nil
}

// Create adds a new dataset to the system after checking its contents
// against the limits of the chosen license tier.
func (c *Core) Create(ctx context.Context, nd NewDataset) (Dataset, error) {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.create")
	defer span.End()

	lic, err := c.licenseBus.Lookup(nd.License)
	if err != nil {
		return Dataset{}, fmt.Errorf("license: %w", err)
	}

	if err := c.licenseBus.ValidateFileCount(nd.FileCount, lic); err != nil {
		return Dataset{}, fmt.Errorf("license: %w", err)
	}

	if err := c.licenseBus.ValidateTotalSize(nd.FileSize, lic); err != nil {
		return Dataset{}, fmt.Errorf("license: %w", err)
	}

	now := time.Now()

	ds := Dataset{
		ID:          uuid.New(),
		OwnerID:     nd.OwnerID,
		Name:        nd.Name,
		Description: nd.Description,
		Source:      nd.Source,
		License:     nd.License,
		Status:      datasetstatus.Draft,
		FileSize:    nd.FileSize,
		FileCount:   nd.FileCount,
		Tags:        nd.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storer.Create(ctx, ds); err != nil {
		return Dataset{}, fmt.Errorf("create: %w", err)
	}

	return ds, nil
}

// Update modifies data about a dataset. Changes to the license or the
// contents are re-checked against the tier limits.
func (c *Core) Update(ctx context.Context, ds Dataset, ud UpdateDataset) (Dataset, error) {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.update")
	defer span.End()

	if ud.Name != nil {
		ds.Name = *ud.Name
	}

	if ud.Description != nil {
		ds.Description = *ud.Description
	}

	if ud.License != nil {
		ds.License = *ud.License
	}

	if ud.Status != nil {
		ds.Status = *ud.Status
	}

	if ud.FileSize != nil {
		ds.FileSize = *ud.FileSize
	}

	if ud.FileCount != nil {
		ds.FileCount = *ud.FileCount
	}

	if ud.Tags != nil {
		ds.Tags = ud.Tags
	}

	lic, err := c.licenseBus.Lookup(ds.License)
	if err != nil {
		return Dataset{}, fmt.Errorf("license: %w", err)
	}

	if err := c.licenseBus.ValidateFileCount(ds.FileCount, lic); err != nil {
		return Dataset{}, fmt.Errorf("license: %w", err)
	}

	if err := c.licenseBus.ValidateTotalSize(ds.FileSize, lic); err != nil {
		return Dataset{}, fmt.Errorf("license: %w", err)
	}

	ds.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, ds); err != nil {
		return Dataset{}, fmt.Errorf("update: %w", err)
	}

	return ds, nil
}

// Delete removes the specified dataset and its access grants.
func (c *Core) Delete(ctx context.Context, ds Dataset) error {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.delete")
	defer span.End()

	if err := c.storer.Delete(ctx, ds); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// Query retrieves a list of existing datasets.
func (c *Core) Query(ctx context.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]Dataset, error) {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.query")
	defer span.End()

	datasets, err := c.storer.Query(ctx, filter, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return datasets, nil
}

// Count returns the total number of datasets.
func (c *Core) Count(ctx context.Context, filter QueryFilter) (int, error) {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.count")
	defer span.End()

	return c.storer.Count(ctx, filter)
}

// QueryByID finds the dataset by the specified ID.
func (c *Core) QueryByID(ctx context.Context, datasetID uuid.UUID) (Dataset, error) {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.queryByID")
	defer span.End()

	ds, err := c.storer.QueryByID(ctx, datasetID)
	if err != nil {
		return Dataset{}, fmt.Errorf("query: datasetID[%s]: %w", datasetID, err)
	}

	return ds, nil
}

// GrantAccess adds the connection to the dataset's allowed users and
// increments the approved access counter. Re-approving an existing
// connection extends its expiry instead of adding a second entry.
func (c *Core) GrantAccess(ctx context.Context, grant Grant) error {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.grantAccess")
	defer span.End()

	if err := c.storer.GrantAccess(ctx, grant); err != nil {
		return fmt.Errorf("grantaccess: %w", err)
	}

	return nil
}

// RevokeAccess removes the connection from the dataset's allowed users.
func (c *Core) RevokeAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.revokeAccess")
	defer span.End()

	if err := c.storer.RevokeAccess(ctx, datasetID, connectionID); err != nil {
		return fmt.Errorf("revokeaccess: %w", err)
	}

	return nil
}

// RecordRejection increments the dataset's rejected requests counter. The
// allowed users set is never touched on a rejection.
func (c *Core) RecordRejection(ctx context.Context, datasetID uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.recordRejection")
	defer span.End()

	if err := c.storer.RecordRejection(ctx, datasetID); err != nil {
		return fmt.Errorf("recordrejection: %w", err)
	}

	return nil
}

// HasAccess reports whether the connection holds an unexpired grant for
// the dataset. The check is read only; expired grants are left in place
// for PruneExpiredAccess to collect.
func (c *Core) HasAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID) (bool, error) {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.hasAccess")
	defer span.End()

	ok, err := c.storer.HasAccess(ctx, datasetID, connectionID, time.Now())
	if err != nil {
		return false, fmt.Errorf("hasaccess: %w", err)
	}

	return ok, nil
}

// PruneExpiredAccess removes every grant whose expiry has passed and
// returns the number of grants removed.
func (c *Core) PruneExpiredAccess(ctx context.Context) (int, error) {
	ctx, span := otel.AddSpan(ctx, "business.datasetbus.pruneExpiredAccess")
	defer span.End()

	n, err := c.storer.PruneExpiredAccess(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("pruneexpiredaccess: %w", err)
	}

	return n, nil
}
