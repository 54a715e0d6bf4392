package accessbus_test

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/domain/licensebus"
	"github.com/dattastudio/studio-api/business/sdk/apikey"
	"github.com/dattastudio/studio-api/business/sdk/order"
	"github.com/dattastudio/studio-api/business/sdk/page"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/business/types/datasetstatus"
	"github.com/dattastudio/studio-api/business/types/license"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/purpose"
	"github.com/dattastudio/studio-api/business/types/requeststatus"
	"github.com/dattastudio/studio-api/business/types/sourcekind"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDatasetStore keeps datasets and grants in memory so the workflow can
// be exercised without a database.
type memDatasetStore struct {
	datasets map[uuid.UUID]datasetbus.Dataset
	grants   map[uuid.UUID]map[uuid.UUID]time.Time
}

func newMemDatasetStore() *memDatasetStore {
	return &memDatasetStore{
		datasets: make(map[uuid.UUID]datasetbus.Dataset),
		grants:   make(map[uuid.UUID]map[uuid.UUID]time.Time),
	}
}

func (s *memDatasetStore) NewWithTx(tx sqldb.CommitRollbacker) (datasetbus.Storer, error) {
	return s, nil
}

func (s *memDatasetStore) Create(ctx context.Context, ds datasetbus.Dataset) error {
	s.datasets[ds.ID] = ds
	return nil
}

func (s *memDatasetStore) Update(ctx context.Context, ds datasetbus.Dataset) error {
	s.datasets[ds.ID] = ds
	return nil
}

func (s *memDatasetStore) Delete(ctx context.Context, ds datasetbus.Dataset) error {
	delete(s.datasets, ds.ID)
	return nil
}

func (s *memDatasetStore) Query(ctx context.Context, filter datasetbus.QueryFilter, orderBy order.By, page page.Page) ([]datasetbus.Dataset, error) {
	var list []datasetbus.Dataset
	for _, ds := range s.datasets {
		list = append(list, ds)
	}
	return list, nil
}

func (s *memDatasetStore) Count(ctx context.Context, filter datasetbus.QueryFilter) (int, error) {
	return len(s.datasets), nil
}

func (s *memDatasetStore) QueryByID(ctx context.Context, datasetID uuid.UUID) (datasetbus.Dataset, error) {
	ds, exists := s.datasets[datasetID]
	if !exists {
		return datasetbus.Dataset{}, datasetbus.ErrNotFound
	}
	return ds, nil
}

func (s *memDatasetStore) GrantAccess(ctx context.Context, grant datasetbus.Grant) error {
	if s.grants[grant.DatasetID] == nil {
		s.grants[grant.DatasetID] = make(map[uuid.UUID]time.Time)
	}
	s.grants[grant.DatasetID][grant.ConnectionID] = grant.ExpiresAt

	ds := s.datasets[grant.DatasetID]
	ds.ApprovedAccess++
	s.datasets[grant.DatasetID] = ds

	return nil
}

func (s *memDatasetStore) RevokeAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID) error {
	delete(s.grants[datasetID], connectionID)
	return nil
}

func (s *memDatasetStore) RecordRejection(ctx context.Context, datasetID uuid.UUID) error {
	ds := s.datasets[datasetID]
	ds.RejectedRequests++
	s.datasets[datasetID] = ds
	return nil
}

func (s *memDatasetStore) HasAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID, now time.Time) (bool, error) {
	expiresAt, exists := s.grants[datasetID][connectionID]
	if !exists {
		return false, nil
	}
	return expiresAt.After(now), nil
}

func (s *memDatasetStore) PruneExpiredAccess(ctx context.Context, now time.Time) (int, error) {
	var n int
	for _, grants := range s.grants {
		for connectionID, expiresAt := range grants {
			if !expiresAt.After(now) {
				delete(grants, connectionID)
				n++
			}
		}
	}
	return n, nil
}

// memAccessStore mirrors the pending-only guard the real store enforces
// with its compare-and-swap update.
type memAccessStore struct {
	requests map[uuid.UUID]accessbus.AccessRequest
}

func newMemAccessStore() *memAccessStore {
	return &memAccessStore{
		requests: make(map[uuid.UUID]accessbus.AccessRequest),
	}
}

func (s *memAccessStore) NewWithTx(tx sqldb.CommitRollbacker) (accessbus.Storer, error) {
	return s, nil
}

func (s *memAccessStore) Create(ctx context.Context, req accessbus.AccessRequest) error {
	s.requests[req.ID] = req
	return nil
}

func (s *memAccessStore) Query(ctx context.Context, filter accessbus.QueryFilter, orderBy order.By, page page.Page) ([]accessbus.AccessRequest, error) {
	var list []accessbus.AccessRequest
	for _, req := range s.requests {
		list = append(list, req)
	}
	return list, nil
}

func (s *memAccessStore) Count(ctx context.Context, filter accessbus.QueryFilter) (int, error) {
	return len(s.requests), nil
}

func (s *memAccessStore) QueryByID(ctx context.Context, requestID uuid.UUID) (accessbus.AccessRequest, error) {
	req, exists := s.requests[requestID]
	if !exists {
		return accessbus.AccessRequest{}, accessbus.ErrNotFound
	}
	return req, nil
}

func (s *memAccessStore) Approve(ctx context.Context, req accessbus.AccessRequest) error {
	current, exists := s.requests[req.ID]
	if !exists || !current.Status.Equal(requeststatus.Pending) {
		return accessbus.ErrAlreadyProcessed
	}
	s.requests[req.ID] = req
	return nil
}

func (s *memAccessStore) Reject(ctx context.Context, req accessbus.AccessRequest) error {
	current, exists := s.requests[req.ID]
	if !exists || !current.Status.Equal(requeststatus.Pending) {
		return accessbus.ErrAlreadyProcessed
	}
	s.requests[req.ID] = req
	return nil
}

// =============================================================================

type workflow struct {
	signer       *apikey.Signer
	datasetStore *memDatasetStore
	accessStore  *memAccessStore
	datasetBus   *datasetbus.Core
	accessBus    *accessbus.Core
}

func newWorkflow(t *testing.T) *workflow {
	t.Helper()

	signer := apikey.NewSigner([]byte("test-secret-0123456789"), "https://studio.datta.dev/keys/")
	datasetStore := newMemDatasetStore()
	accessStore := newMemAccessStore()
	datasetBus := datasetbus.NewCore(licensebus.NewCore(), datasetStore)

	return &workflow{
		signer:       signer,
		datasetStore: datasetStore,
		accessStore:  accessStore,
		datasetBus:   datasetBus,
		accessBus:    accessbus.NewCore(signer, datasetBus, accessStore),
	}
}

func (w *workflow) seedDataset(t *testing.T, status datasetstatus.Status) datasetbus.Dataset {
	t.Helper()

	now := time.Now()

	ds := datasetbus.Dataset{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Name:      name.MustParse("Street Scenes"),
		Source:    sourcekind.GitHub,
		License:   license.Professional,
		Status:    status,
		FileSize:  512,
		FileCount: 4,
		CreatedAt: now,
		UpdatedAt: now,
	}
	w.datasetStore.datasets[ds.ID] = ds

	return ds
}

func (w *workflow) submit(t *testing.T, datasetID uuid.UUID) accessbus.AccessRequest {
	t.Helper()

	nr := accessbus.NewAccessRequest{
		DatasetID:      datasetID,
		RequesterName:  name.MustParse("Ada Lovelace"),
		RequesterEmail: mail.Address{Address: "ada@lab.example.com"},
		Purpose:        purpose.MustParse("Benchmarking perception models against urban street imagery."),
	}

	req, err := w.accessBus.Submit(context.Background(), nr)
	require.NoError(t, err)

	return req
}

func TestSubmit(t *testing.T) {
	w := newWorkflow(t)
	ds := w.seedDataset(t, datasetstatus.Published)

	req := w.submit(t, ds.ID)

	assert.True(t, req.Status.Equal(requeststatus.Pending))
	assert.NotEqual(t, uuid.Nil, req.ConnectionID)
	assert.Empty(t, req.APIKey)
	assert.True(t, req.ExpiresAt.IsZero())
}

func TestSubmitDatasetNotFound(t *testing.T) {
	w := newWorkflow(t)

	nr := accessbus.NewAccessRequest{
		DatasetID:      uuid.New(),
		RequesterName:  name.MustParse("Ada Lovelace"),
		RequesterEmail: mail.Address{Address: "ada@lab.example.com"},
		Purpose:        purpose.MustParse("Benchmarking perception models against urban street imagery."),
	}

	_, err := w.accessBus.Submit(context.Background(), nr)
	assert.ErrorIs(t, err, datasetbus.ErrNotFound)
	assert.Empty(t, w.accessStore.requests)
}

func TestSubmitUnpublishedDataset(t *testing.T) {
	w := newWorkflow(t)
	ds := w.seedDataset(t, datasetstatus.Draft)

	nr := accessbus.NewAccessRequest{
		DatasetID:      ds.ID,
		RequesterName:  name.MustParse("Ada Lovelace"),
		RequesterEmail: mail.Address{Address: "ada@lab.example.com"},
		Purpose:        purpose.MustParse("Benchmarking perception models against urban street imagery."),
	}

	_, err := w.accessBus.Submit(context.Background(), nr)
	assert.ErrorIs(t, err, datasetbus.ErrNotPublished)
	assert.Empty(t, w.accessStore.requests)
}

func TestApprove(t *testing.T) {
	w := newWorkflow(t)
	ds := w.seedDataset(t, datasetstatus.Published)
	req := w.submit(t, ds.ID)

	approved, err := w.accessBus.Approve(context.Background(), req, accessbus.ApproveAccess{Days: 7, Notes: "research only"})
	require.NoError(t, err)

	assert.True(t, approved.Status.Equal(requeststatus.Approved))
	assert.Equal(t, "research only", approved.Notes)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), approved.ExpiresAt, time.Minute)

	key, err := w.signer.Decode(approved.APIKey)
	require.NoError(t, err)
	assert.Equal(t, req.ConnectionID, key.ConnectionID)

	ok, err := w.datasetBus.HasAccess(context.Background(), ds.ID, req.ConnectionID)
	require.NoError(t, err)
	assert.True(t, ok)

	got := w.datasetStore.datasets[ds.ID]
	assert.Equal(t, 1, got.ApprovedAccess)
	assert.Equal(t, 0, got.RejectedRequests)
}

func TestApproveDefaultDuration(t *testing.T) {
	w := newWorkflow(t)
	ds := w.seedDataset(t, datasetstatus.Published)
	req := w.submit(t, ds.ID)

	approved, err := w.accessBus.Approve(context.Background(), req, accessbus.ApproveAccess{})
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), approved.ExpiresAt, time.Minute)
}

func TestApproveTwice(t *testing.T) {
	w := newWorkflow(t)
	ds := w.seedDataset(t, datasetstatus.Published)
	req := w.submit(t, ds.ID)

	_, err := w.accessBus.Approve(context.Background(), req, accessbus.ApproveAccess{})
	require.NoError(t, err)

	// The second caller still holds the pending snapshot, so the store's
	// compare-and-swap is the line of defense.
	_, err = w.accessBus.Approve(context.Background(), req, accessbus.ApproveAccess{})
	assert.ErrorIs(t, err, accessbus.ErrAlreadyProcessed)

	got := w.datasetStore.datasets[ds.ID]
	assert.Equal(t, 1, got.ApprovedAccess)
}

func TestReject(t *testing.T) {
	w := newWorkflow(t)
	ds := w.seedDataset(t, datasetstatus.Published)
	req := w.submit(t, ds.ID)

	rejected, err := w.accessBus.Reject(context.Background(), req, "incomplete purpose")
	require.NoError(t, err)

	assert.True(t, rejected.Status.Equal(requeststatus.Rejected))
	assert.Equal(t, "incomplete purpose", rejected.Reason)
	assert.Empty(t, rejected.APIKey)

	ok, err := w.datasetBus.HasAccess(context.Background(), ds.ID, req.ConnectionID)
	require.NoError(t, err)
	assert.False(t, ok)

	got := w.datasetStore.datasets[ds.ID]
	assert.Equal(t, 0, got.ApprovedAccess)
	assert.Equal(t, 1, got.RejectedRequests)
}

func TestRejectThenApprove(t *testing.T) {
	w := newWorkflow(t)
	ds := w.seedDataset(t, datasetstatus.Published)
	req := w.submit(t, ds.ID)

	_, err := w.accessBus.Reject(context.Background(), req, "incomplete purpose")
	require.NoError(t, err)

	_, err = w.accessBus.Approve(context.Background(), req, accessbus.ApproveAccess{})
	assert.ErrorIs(t, err, accessbus.ErrAlreadyProcessed)

	got := w.datasetStore.datasets[ds.ID]
	assert.Equal(t, 0, got.ApprovedAccess)
	assert.Equal(t, 1, got.RejectedRequests)
}

func TestAuthorize(t *testing.T) {
	w := newWorkflow(t)
	ds := w.seedDataset(t, datasetstatus.Published)
	req := w.submit(t, ds.ID)

	approved, err := w.accessBus.Approve(context.Background(), req, accessbus.ApproveAccess{})
	require.NoError(t, err)

	key, err := w.accessBus.Authorize(context.Background(), ds.ID, approved.APIKey)
	require.NoError(t, err)
	assert.Equal(t, req.ConnectionID, key.ConnectionID)

	// A valid key for another dataset does not open this one.
	other := w.seedDataset(t, datasetstatus.Published)
	_, err = w.accessBus.Authorize(context.Background(), other.ID, approved.APIKey)
	assert.ErrorIs(t, err, apikey.ErrInvalidKey)
}

func TestPruneExpiredAccess(t *testing.T) {
	w := newWorkflow(t)
	ds := w.seedDataset(t, datasetstatus.Published)
	req := w.submit(t, ds.ID)

	_, err := w.accessBus.Approve(context.Background(), req, accessbus.ApproveAccess{Days: 1})
	require.NoError(t, err)

	// Force the grant into the past, then prune.
	w.datasetStore.grants[ds.ID][req.ConnectionID] = time.Now().Add(-time.Hour)

	ok, err := w.datasetBus.HasAccess(context.Background(), ds.ID, req.ConnectionID)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := w.datasetBus.PruneExpiredAccess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, err = w.datasetBus.HasAccess(context.Background(), ds.ID, req.ConnectionID)
	require.NoError(t, err)
	assert.False(t, ok)
}
