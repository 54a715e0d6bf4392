// Package accessbus implements the access approval workflow: consumer labs
// submit requests against published datasets and studio owners approve or
// reject them, each request resolving exactly once.
package accessbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/sdk/apikey"
	"github.com/dattastudio/studio-api/business/sdk/order"
	"github.com/dattastudio/studio-api/business/sdk/page"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/business/types/datasetstatus"
	"github.com/dattastudio/studio-api/business/types/requeststatus"
	"github.com/dattastudio/studio-api/foundation/otel"
	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("access request not found")
	ErrAlreadyProcessed = errors.New("access request already processed")
)

// defaultAccessDays is how long a grant lives when the approver does not
// pick a duration.
const defaultAccessDays = 30

// Storer defines the behavior required to persist and retrieve access
// requests. Approve and Reject must update the row only while it is still
// pending and report ErrAlreadyProcessed otherwise.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, req AccessRequest) error
	Query(ctx context.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]AccessRequest, error)
	Count(ctx context.Context, filter QueryFilter) (int, error)
	QueryByID(ctx context.Context, requestID uuid.UUID) (AccessRequest, error)
	Approve(ctx context.Context, req AccessRequest) error
	Reject(ctx context.Context, req AccessRequest) error
}

// Core manages the set of APIs for access request workflow.
type Core struct {
	signer     *apikey.Signer
	datasetBus *datasetbus.Core
	storer     Storer
}

// NewCore constructs a core for access request api access.
func NewCore(signer *apikey.Signer, datasetBus *datasetbus.Core, storer Storer) *Core {
	return &Core{
		signer:     signer,
		datasetBus: datasetBus,
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

	datasetBus, err := c.datasetBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return NewCore(c.signer, datasetBus, storer), nil
}

// Submit creates a pending access request for a published dataset. A fresh
// connection ID is minted for the requester.
func (c *Core) Submit(ctx context.Context, nr NewAccessRequest) (AccessRequest, error) {
	ctx, span := otel.AddSpan(ctx, "business.accessbus.submit")
	defer span.End()

	ds, err := c.datasetBus.QueryByID(ctx, nr.DatasetID)
	if err != nil {
		return AccessRequest{}, fmt.Errorf("dataset: %w", err)
	}

	if !ds.Status.Equal(datasetstatus.Published) {
		return AccessRequest{}, fmt.Errorf("dataset: datasetID[%s]: %w", ds.ID, datasetbus.ErrNotPublished)
	}

	now := time.Now()

	req := AccessRequest{
		ID:             uuid.New(),
		DatasetID:      nr.DatasetID,
		ConnectionID:   uuid.New(),
		RequesterName:  nr.RequesterName,
		RequesterEmail: nr.RequesterEmail,
		Company:        nr.Company,
		Purpose:        nr.Purpose,
		Status:         requeststatus.Pending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := c.storer.Create(ctx, req); err != nil {
		return AccessRequest{}, fmt.Errorf("create: %w", err)
	}

	return req, nil
}

// Approve resolves a pending request: it signs an API key bound to the
// request's connection ID, stamps the request approved, and adds the
// connection to the dataset's allowed users. A request that has already
// been resolved returns ErrAlreadyProcessed no matter who got there first.
func (c *Core) Approve(ctx context.Context, req AccessRequest, aa ApproveAccess) (AccessRequest, error) {
	ctx, span := otel.AddSpan(ctx, "business.accessbus.approve")
	defer span.End()

	if req.Status.Terminal() {
		return AccessRequest{}, fmt.Errorf("approve: requestID[%s]: %w", req.ID, ErrAlreadyProcessed)
	}

	days := aa.Days
	if days <= 0 {
		days = defaultAccessDays
	}

	now := time.Now()
	expiresAt := now.AddDate(0, 0, days)

	key, err := c.signer.Issue(req.ConnectionID, expiresAt)
	if err != nil {
		return AccessRequest{}, fmt.Errorf("issue key: %w", err)
	}

	req.Status = requeststatus.Approved
	req.Notes = aa.Notes
	req.APIKey = key
	req.ExpiresAt = expiresAt
	req.ProcessedAt = now
	req.UpdatedAt = now

	if err := c.storer.Approve(ctx, req); err != nil {
		return AccessRequest{}, fmt.Errorf("approve: requestID[%s]: %w", req.ID, err)
	}

	grant := datasetbus.Grant{
		DatasetID:    req.DatasetID,
		ConnectionID: req.ConnectionID,
		RequestID:    req.ID,
		ExpiresAt:    expiresAt,
	}

	if err := c.datasetBus.GrantAccess(ctx, grant); err != nil {
		return AccessRequest{}, fmt.Errorf("grant access: %w", err)
	}

	return req, nil
}

// Reject resolves a pending request with a reason. No key is issued and
// the dataset's allowed users are left untouched; only the rejection
// counter moves.
func (c *Core) Reject(ctx context.Context, req AccessRequest, reason string) (AccessRequest, error) {
	ctx, span := otel.AddSpan(ctx, "business.accessbus.reject")
	defer span.End()

	if req.Status.Terminal() {
		return AccessRequest{}, fmt.Errorf("reject: requestID[%s]: %w", req.ID, ErrAlreadyProcessed)
	}

	now := time.Now()

	req.Status = requeststatus.Rejected
	req.Reason = reason
	req.ProcessedAt = now
	req.UpdatedAt = now

	if err := c.storer.Reject(ctx, req); err != nil {
		return AccessRequest{}, fmt.Errorf("reject: requestID[%s]: %w", req.ID, err)
	}

	if err := c.datasetBus.RecordRejection(ctx, req.DatasetID); err != nil {
		return AccessRequest{}, fmt.Errorf("record rejection: %w", err)
	}

	return req, nil
}

// Query retrieves a list of existing access requests.
func (c *Core) Query(ctx context.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]AccessRequest, error) {
	ctx, span := otel.AddSpan(ctx, "business.accessbus.query")
	defer span.End()

	reqs, err := c.storer.Query(ctx, filter, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return reqs, nil
}

// Count returns the total number of access requests.
func (c *Core) Count(ctx context.Context, filter QueryFilter) (int, error) {
	ctx, span := otel.AddSpan(ctx, "business.accessbus.count")
	defer span.End()

	return c.storer.Count(ctx, filter)
}

// QueryByID finds the access request by the specified ID.
func (c *Core) QueryByID(ctx context.Context, requestID uuid.UUID) (AccessRequest, error) {
	ctx, span := otel.AddSpan(ctx, "business.accessbus.queryByID")
	defer span.End()

	req, err := c.storer.QueryByID(ctx, requestID)
	if err != nil {
		return AccessRequest{}, fmt.Errorf("query: requestID[%s]: %w", requestID, err)
	}

	return req, nil
}

// Authorize checks a download attempt: the API key must decode and be
// unexpired, and the key's connection must still be in the dataset's
// allowed users.
func (c *Core) Authorize(ctx context.Context, datasetID uuid.UUID, key string) (apikey.Key, error) {
	ctx, span := otel.AddSpan(ctx, "business.accessbus.authorize")
	defer span.End()

	k, err := c.signer.Decode(key)
	if err != nil {
		return apikey.Key{}, fmt.Errorf("decode key: %w", err)
	}

	ok, err := c.datasetBus.HasAccess(ctx, datasetID, k.ConnectionID)
	if err != nil {
		return apikey.Key{}, fmt.Errorf("has access: %w", err)
	}

	if !ok {
		return apikey.Key{}, fmt.Errorf("connectionID[%s]: %w", k.ConnectionID, apikey.ErrInvalidKey)
	}

	return k, nil
}
