// Package accessdb contains access request related CRUD functionality. The
// terminal transitions are guarded by a compare-and-swap on the PENDING
// status so a request resolves exactly once even under concurrent callers.
package accessdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/sdk/order"
	"github.com/dattastudio/studio-api/business/sdk/page"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for access request database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (accessbus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// Create inserts a new access request into the database.
func (s *Store) Create(ctx context.Context, req accessbus.AccessRequest) error {
	const q = `
	INSERT INTO access_requests
		(request_id, dataset_id, connection_id, requester_name, requester_email, company, purpose, status, notes, reason, api_key, expires_at, processed_at, created_at, updated_at)
	VALUES
		(:request_id, :dataset_id, :connection_id, :requester_name, :requester_email, :company, :purpose, :status, :notes, :reason, :api_key, :expires_at, :processed_at, :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBAccessRequest(req)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Approve stamps the request approved, recording the key and expiry. The
// update only lands if the row is still pending.
func (s *Store) Approve(ctx context.Context, req accessbus.AccessRequest) error {
	const q = `
	UPDATE
		access_requests
	SET
		status = :status,
		notes = :notes,
		api_key = :api_key,
		expires_at = :expires_at,
		processed_at = :processed_at,
		updated_at = :updated_at
	WHERE
		request_id = :request_id AND status = 'PENDING'`

	n, err := sqldb.NamedExecContextCount(ctx, s.log, s.db, q, toDBAccessRequest(req))
	if err != nil {
		return fmt.Errorf("namedexeccontextcount: %w", err)
	}

	if n == 0 {
		return accessbus.ErrAlreadyProcessed
	}

	return nil
}

// Reject stamps the request rejected with the reason. The update only
// lands if the row is still pending.
func (s *Store) Reject(ctx context.Context, req accessbus.AccessRequest) error {
	const q = `
	UPDATE
		access_requests
	SET
		status = :status,
		reason = :reason,
		processed_at = :processed_at,
		updated_at = :updated_at
	WHERE
		request_id = :request_id AND status = 'PENDING'`

	n, err := sqldb.NamedExecContextCount(ctx, s.log, s.db, q, toDBAccessRequest(req))
	if err != nil {
		return fmt.Errorf("namedexeccontextcount: %w", err)
	}

	if n == 0 {
		return accessbus.ErrAlreadyProcessed
	}

	return nil
}

// Query retrieves a list of existing access requests from the database.
func (s *Store) Query(ctx context.Context, filter accessbus.QueryFilter, orderBy order.By, page page.Page) ([]accessbus.AccessRequest, error) {
	data := map[string]any{
		"offset":        (page.Number() - 1) * page.RowsPerPage(),
		"rows_per_page": page.RowsPerPage(),
	}

	const q = `
	SELECT
		ar.request_id, ar.dataset_id, ar.connection_id, ar.requester_name, ar.requester_email, ar.company, ar.purpose, ar.status, ar.notes, ar.reason, ar.api_key, ar.expires_at, ar.processed_at, ar.created_at, ar.updated_at
	FROM
		access_requests AS ar`

	buf := bytes.NewBufferString(q)
	applyFilter(filter, data, buf)

	orderByClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, err
	}

	buf.WriteString(orderByClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	var dbReqs []accessRequestDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, buf.String(), data, &dbReqs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusAccessRequests(dbReqs)
}

// Count returns the total number of access requests in the DB.
func (s *Store) Count(ctx context.Context, filter accessbus.QueryFilter) (int, error) {
	data := map[string]any{}

	const q = `
	SELECT
		count(1)
	FROM
		access_requests AS ar`

	buf := bytes.NewBufferString(q)
	applyFilter(filter, data, buf)

	var count struct {
		Count int `db:"count"`
	}
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, buf.String(), data, &count); err != nil {
		return 0, fmt.Errorf("db: %w", err)
	}

	return count.Count, nil
}

// QueryByID gets the specified access request from the database.
func (s *Store) QueryByID(ctx context.Context, requestID uuid.UUID) (accessbus.AccessRequest, error) {
	data := struct {
		ID string `db:"request_id"`
	}{
		ID: requestID.String(),
	}

	const q = `
	SELECT
		ar.request_id, ar.dataset_id, ar.connection_id, ar.requester_name, ar.requester_email, ar.company, ar.purpose, ar.status, ar.notes, ar.reason, ar.api_key, ar.expires_at, ar.processed_at, ar.created_at, ar.updated_at
	FROM
		access_requests AS ar
	WHERE
		ar.request_id = :request_id`

	var dbReq accessRequestDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbReq); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return accessbus.AccessRequest{}, fmt.Errorf("db: %w", accessbus.ErrNotFound)
		}
		return accessbus.AccessRequest{}, fmt.Errorf("db: %w", err)
	}

	return toBusAccessRequest(dbReq)
}
