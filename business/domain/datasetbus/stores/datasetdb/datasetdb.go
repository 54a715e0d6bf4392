// Package datasetdb contains dataset related CRUD functionality along with
// the dataset_access grant table that backs the allowed users set.
package datasetdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/sdk/order"
	"github.com/dattastudio/studio-api/business/sdk/page"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for dataset database access.
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
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (datasetbus.Storer, error) {
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

// Create inserts a new dataset into the database.
func (s *Store) Create(ctx context.Context, ds datasetbus.Dataset) error {
	const q = `
	INSERT INTO datasets
		(dataset_id, owner_id, name, description, source, license, status, file_size, file_count, tags, approved_access, rejected_requests, created_at, updated_at)
	VALUES
		(:dataset_id, :owner_id, :name, :description, :source, :license, :status, :file_size, :file_count, :tags, :approved_access, :rejected_requests, :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBDataset(ds)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces a dataset record in the database. The counters are owned
// by GrantAccess and RecordRejection and are not written here.
func (s *Store) Update(ctx context.Context, ds datasetbus.Dataset) error {
	const q = `
	UPDATE
		datasets
	SET
		name = :name,
		description = :description,
		license = :license,
		status = :status,
		file_size = :file_size,
		file_count = :file_count,
		tags = :tags,
		updated_at = :updated_at
	WHERE
		dataset_id = :dataset_id`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBDataset(ds)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Delete removes a dataset from the database. Grants go with it via the
// foreign key cascade.
func (s *Store) Delete(ctx context.Context, ds datasetbus.Dataset) error {
	const q = `
	DELETE FROM
		datasets
	WHERE
		dataset_id = :dataset_id`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBDataset(ds)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Query retrieves a list of existing datasets from the database.
func (s *Store) Query(ctx context.Context, filter datasetbus.QueryFilter, orderBy order.By, page page.Page) ([]datasetbus.Dataset, error) {
	data := map[string]any{
		"offset":        (page.Number() - 1) * page.RowsPerPage(),
		"rows_per_page": page.RowsPerPage(),
	}

	const q = `
	SELECT
		d.dataset_id, d.owner_id, d.name, d.description, d.source, d.license, d.status, d.file_size, d.file_count, d.tags, d.approved_access, d.rejected_requests, d.created_at, d.updated_at
	FROM
		datasets AS d`

	buf := bytes.NewBufferString(q)
	applyFilter(filter, data, buf)

	orderByClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, err
	}

	buf.WriteString(orderByClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	var dbDss []datasetDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, buf.String(), data, &dbDss); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusDatasets(dbDss)
}

// Count returns the total number of datasets in the DB.
func (s *Store) Count(ctx context.Context, filter datasetbus.QueryFilter) (int, error) {
	data := map[string]any{}

	const q = `
	SELECT
		count(1)
	FROM
		datasets AS d`

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

// QueryByID gets the specified dataset from the database.
func (s *Store) QueryByID(ctx context.Context, datasetID uuid.UUID) (datasetbus.Dataset, error) {
	data := struct {
		ID string `db:"dataset_id"`
	}{
		ID: datasetID.String(),
	}

	const q = `
	SELECT
		d.dataset_id, d.owner_id, d.name, d.description, d.source, d.license, d.status, d.file_size, d.file_count, d.tags, d.approved_access, d.rejected_requests, d.created_at, d.updated_at
	FROM
		datasets AS d
	WHERE
		d.dataset_id = :dataset_id`

	var dbDs datasetDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbDs); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return datasetbus.Dataset{}, fmt.Errorf("db: %w", datasetbus.ErrNotFound)
		}
		return datasetbus.Dataset{}, fmt.Errorf("db: %w", err)
	}

	return toBusDataset(dbDs)
}

// GrantAccess upserts the grant and increments the dataset's approved
// access counter. Re-approving an existing connection refreshes the
// expiry on the existing row.
func (s *Store) GrantAccess(ctx context.Context, grant datasetbus.Grant) error {
	const qGrant = `
	INSERT INTO dataset_access
		(dataset_id, connection_id, request_id, expires_at)
	VALUES
		(:dataset_id, :connection_id, :request_id, :expires_at)
	ON CONFLICT (dataset_id, connection_id) DO UPDATE SET
		request_id = EXCLUDED.request_id,
		expires_at = EXCLUDED.expires_at`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, qGrant, toDBGrant(grant)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	const qCount = `
	UPDATE
		datasets
	SET
		approved_access = approved_access + 1
	WHERE
		dataset_id = :dataset_id`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, qCount, toDBGrant(grant)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// RevokeAccess removes the grant for the specified connection.
func (s *Store) RevokeAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID) error {
	data := struct {
		DatasetID    string `db:"dataset_id"`
		ConnectionID string `db:"connection_id"`
	}{
		DatasetID:    datasetID.String(),
		ConnectionID: connectionID.String(),
	}

	const q = `
	DELETE FROM
		dataset_access
	WHERE
		dataset_id = :dataset_id AND connection_id = :connection_id`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, data); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// RecordRejection increments the dataset's rejected requests counter.
func (s *Store) RecordRejection(ctx context.Context, datasetID uuid.UUID) error {
	data := struct {
		ID string `db:"dataset_id"`
	}{
		ID: datasetID.String(),
	}

	const q = `
	UPDATE
		datasets
	SET
		rejected_requests = rejected_requests + 1
	WHERE
		dataset_id = :dataset_id`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, data); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// HasAccess reports whether an unexpired grant exists for the connection.
func (s *Store) HasAccess(ctx context.Context, datasetID uuid.UUID, connectionID uuid.UUID, now time.Time) (bool, error) {
	data := struct {
		DatasetID    string    `db:"dataset_id"`
		ConnectionID string    `db:"connection_id"`
		Now          time.Time `db:"now"`
	}{
		DatasetID:    datasetID.String(),
		ConnectionID: connectionID.String(),
		Now:          now.UTC(),
	}

	const q = `
	SELECT
		EXISTS (
			SELECT 1 FROM dataset_access
			WHERE dataset_id = :dataset_id AND connection_id = :connection_id AND expires_at > :now
		) AS has_access`

	var result struct {
		HasAccess bool `db:"has_access"`
	}
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &result); err != nil {
		return false, fmt.Errorf("db: %w", err)
	}

	return result.HasAccess, nil
}

// PruneExpiredAccess deletes every grant whose expiry has passed.
func (s *Store) PruneExpiredAccess(ctx context.Context, now time.Time) (int, error) {
	data := struct {
		Now time.Time `db:"now"`
	}{
		Now: now.UTC(),
	}

	const q = `
	DELETE FROM
		dataset_access
	WHERE
		expires_at <= :now`

	n, err := sqldb.NamedExecContextCount(ctx, s.log, s.db, q, data)
	if err != nil {
		return 0, fmt.Errorf("namedexeccontextcount: %w", err)
	}

	return int(n), nil
}
