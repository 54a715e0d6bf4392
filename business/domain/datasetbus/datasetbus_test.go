package datasetbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/domain/licensebus"
	"github.com/dattastudio/studio-api/business/sdk/order"
	"github.com/dattastudio/studio-api/business/sdk/page"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/business/types/datasetstatus"
	"github.com/dattastudio/studio-api/business/types/license"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/sourcekind"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	datasets map[uuid.UUID]datasetbus.Dataset
}

func newStubStore() *stubStore {
	return &stubStore{datasets: make(map[uuid.UUID]datasetbus.Dataset)}
}

func (s *stubStore) NewWithTx(tx sqldb.CommitRollbacker) (datasetbus.Storer, error) {
	return s, nil
}

func (s *stubStore) Create(ctx context.Context, ds datasetbus.Dataset) error {
	s.datasets[ds.ID] = ds
	return nil
}

func (s *stubStore) Update(ctx context.Context, ds datasetbus.Dataset) error {
	s.datasets[ds.ID] = ds
	return nil
}

func (s *stubStore) Delete(ctx context.Context, ds datasetbus.Dataset) error {
	delete(s.datasets, ds.ID)
	return nil
}

func (s *stubStore) Query(ctx context.Context, filter datasetbus.QueryFilter, orderBy order.By, page page.Page) ([]datasetbus.Dataset, error) {
	return nil, nil
}

func (s *stubStore) Count(ctx context.Context, filter datasetbus.QueryFilter) (int, error) {
	return len(s.datasets), nil
}

func (s *stubStore) QueryByID(ctx context.Context, datasetID uuid.UUID) (datasetbus.Dataset, error) {
	ds, exists := s.datasets[datasetID]
	if !exists {
		return datasetbus.Dataset{}, datasetbus.ErrNotFound
	}
	return ds, nil
}

func (s *stubStore) GrantAccess(ctx context.Context, grant datasetbus.Grant) error {
	return nil
}

func (s *stubStore) RevokeAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID) error {
	return nil
}

func (s *stubStore) RecordRejection(ctx context.Context, datasetID uuid.UUID) error {
	return nil
}

func (s *stubStore) HasAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID, now time.Time) (bool, error) {
	return false, nil
}

func (s *stubStore) PruneExpiredAccess(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

// =============================================================================

func TestCreate(t *testing.T) {
	bus := datasetbus.NewCore(licensebus.NewCore(), newStubStore())

	nd := datasetbus.NewDataset{
		OwnerID:   uuid.New(),
		Name:      name.MustParse("Street Scenes"),
		Source:    sourcekind.GitHub,
		License:   license.Personal,
		FileSize:  1 << 30,
		FileCount: 10,
		Tags:      []string{"vision", "urban"},
	}

	ds, err := bus.Create(context.Background(), nd)
	require.NoError(t, err)

	assert.True(t, ds.Status.Equal(datasetstatus.Draft))
	assert.Equal(t, 0, ds.ApprovedAccess)
	assert.Equal(t, 0, ds.RejectedRequests)
}

func TestCreateOverTierQuota(t *testing.T) {
	bus := datasetbus.NewCore(licensebus.NewCore(), newStubStore())

	nd := datasetbus.NewDataset{
		OwnerID:   uuid.New(),
		Name:      name.MustParse("Street Scenes"),
		Source:    sourcekind.GitHub,
		License:   license.Personal,
		FileSize:  1<<30 + 1,
		FileCount: 10,
	}

	_, err := bus.Create(context.Background(), nd)
	assert.ErrorIs(t, err, licensebus.ErrQuotaExceeded)
}

func TestCreateTooManyFiles(t *testing.T) {
	bus := datasetbus.NewCore(licensebus.NewCore(), newStubStore())

	nd := datasetbus.NewDataset{
		OwnerID:   uuid.New(),
		Name:      name.MustParse("Street Scenes"),
		Source:    sourcekind.GitHub,
		License:   license.Personal,
		FileSize:  1 << 20,
		FileCount: 11,
	}

	_, err := bus.Create(context.Background(), nd)
	assert.ErrorIs(t, err, licensebus.ErrTooManyFiles)
}

func TestUpdateLicenseDowngrade(t *testing.T) {
	store := newStubStore()
	bus := datasetbus.NewCore(licensebus.NewCore(), store)

	nd := datasetbus.NewDataset{
		OwnerID:   uuid.New(),
		Name:      name.MustParse("Street Scenes"),
		Source:    sourcekind.GitHub,
		License:   license.Creative,
		FileSize:  5 << 30,
		FileCount: 40,
	}

	ds, err := bus.Create(context.Background(), nd)
	require.NoError(t, err)

	// Personal caps the total at 1GB, so the downgrade must not land.
	downgrade := license.Personal
	_, err = bus.Update(context.Background(), ds, datasetbus.UpdateDataset{License: &downgrade})
	assert.ErrorIs(t, err, licensebus.ErrQuotaExceeded)
}
