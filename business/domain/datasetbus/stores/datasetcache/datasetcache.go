// Package datasetcache contains dataset related CRUD functionality with a
// read-through cache on single dataset lookups.
package datasetcache

import (
	"context"
	"time"

	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/sdk/order"
	"github.com/dattastudio/studio-api/business/sdk/page"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/foundation/logger"
	"github.com/google/uuid"
	"github.com/viccon/sturdyc"
)

const (
	capacity           = 10_000
	numShards          = 10
	evictionPercentage = 10
)

// Store manages the set of APIs for dataset data and caching.
type Store struct {
	log    *logger.Logger
	storer datasetbus.Storer
	cache  *sturdyc.Client[datasetbus.Dataset]
}

// NewStore constructs the api for data and caching access.
func NewStore(log *logger.Logger, storer datasetbus.Storer, ttl time.Duration) *Store {
	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[datasetbus.Dataset](capacity, numShards, ttl, evictionPercentage),
	}
}

// NewWithTx constructs a new Store value replacing the storer with one that
// is currently inside a transaction. The cache is shared so writes made
// during the transaction stay visible after commit.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (datasetbus.Storer, error) {
	storer, err := s.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return &Store{
		log:    s.log,
		storer: storer,
		cache:  s.cache,
	}, nil
}

// Create inserts a new dataset into the database.
func (s *Store) Create(ctx context.Context, ds datasetbus.Dataset) error {
	if err := s.storer.Create(ctx, ds); err != nil {
		return err
	}

	s.cache.Set(ds.ID.String(), ds)

	return nil
}

// Update replaces a dataset record in the database.
func (s *Store) Update(ctx context.Context, ds datasetbus.Dataset) error {
	if err := s.storer.Update(ctx, ds); err != nil {
		return err
	}

	s.cache.Set(ds.ID.String(), ds)

	return nil
}

// Delete removes a dataset from the database.
func (s *Store) Delete(ctx context.Context, ds datasetbus.Dataset) error {
	if err := s.storer.Delete(ctx, ds); err != nil {
		return err
	}

	s.cache.Delete(ds.ID.String())

	return nil
}

// Query retrieves a list of existing datasets. Collection reads bypass
// the cache.
func (s *Store) Query(ctx context.Context, filter datasetbus.QueryFilter, orderBy order.By, page page.Page) ([]datasetbus.Dataset, error) {
	return s.storer.Query(ctx, filter, orderBy, page)
}

// Count returns the total number of datasets in the DB.
func (s *Store) Count(ctx context.Context, filter datasetbus.QueryFilter) (int, error) {
	return s.storer.Count(ctx, filter)
}

// QueryByID gets the specified dataset from the cache or falls back to
// the database.
func (s *Store) QueryByID(ctx context.Context, datasetID uuid.UUID) (datasetbus.Dataset, error) {
	if ds, ok := s.cache.Get(datasetID.String()); ok {
		return ds, nil
	}

	ds, err := s.storer.QueryByID(ctx, datasetID)
	if err != nil {
		return datasetbus.Dataset{}, err
	}

	s.cache.Set(ds.ID.String(), ds)

	return ds, nil
}

// GrantAccess records the grant and invalidates the cached dataset since
// its counters changed.
func (s *Store) GrantAccess(ctx context.Context, grant datasetbus.Grant) error {
	if err := s.storer.GrantAccess(ctx, grant); err != nil {
		return err
	}

	s.cache.Delete(grant.DatasetID.String())

	return nil
}

// RevokeAccess removes the grant for the specified connection.
func (s *Store) RevokeAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID) error {
	return s.storer.RevokeAccess(ctx, datasetID, connectionID)
}

// RecordRejection bumps the rejection counter and invalidates the cached
// dataset.
func (s *Store) RecordRejection(ctx context.Context, datasetID uuid.UUID) error {
	if err := s.storer.RecordRejection(ctx, datasetID); err != nil {
		return err
	}

	s.cache.Delete(datasetID.String())

	return nil
}

// HasAccess reports whether the connection holds an unexpired grant.
// Grant checks always hit the database.
func (s *Store) HasAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID, now time.Time) (bool, error) {
	return s.storer.HasAccess(ctx, datasetID, connectionID, now)
}

// PruneExpiredAccess removes every grant whose expiry has passed.
func (s *Store) PruneExpiredAccess(ctx context.Context, now time.Time) (int, error) {
	return s.storer.PruneExpiredAccess(ctx, now)
}
