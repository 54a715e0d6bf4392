package accessdb

import (
	"database/sql"
	"fmt"
	"net/mail"
	"time"

	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/purpose"
	"github.com/dattastudio/studio-api/business/types/requeststatus"
	"github.com/google/uuid"
)

type accessRequestDB struct {
	ID             uuid.UUID      `db:"request_id"`
	DatasetID      uuid.UUID      `db:"dataset_id"`
	ConnectionID   uuid.UUID      `db:"connection_id"`
	RequesterName  string         `db:"requester_name"`
	RequesterEmail string         `db:"requester_email"`
	Company        sql.NullString `db:"company"`
	Purpose        string         `db:"purpose"`
	Status         string         `db:"status"`
	Notes          sql.NullString `db:"notes"`
	Reason         sql.NullString `db:"reason"`
	APIKey         sql.NullString `db:"api_key"`
	ExpiresAt      sql.NullTime   `db:"expires_at"`
	ProcessedAt    sql.NullTime   `db:"processed_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func toDBAccessRequest(bus accessbus.AccessRequest) accessRequestDB {
	return accessRequestDB{
		ID:             bus.ID,
		DatasetID:      bus.DatasetID,
		ConnectionID:   bus.ConnectionID,
		RequesterName:  bus.RequesterName.String(),
		RequesterEmail: bus.RequesterEmail.Address,
		Company:        sql.NullString{String: bus.Company.String(), Valid: bus.Company.Valid()},
		Purpose:        bus.Purpose.String(),
		Status:         bus.Status.String(),
		Notes:          sql.NullString{String: bus.Notes, Valid: bus.Notes != ""},
		Reason:         sql.NullString{String: bus.Reason, Valid: bus.Reason != ""},
		APIKey:         sql.NullString{String: bus.APIKey, Valid: bus.APIKey != ""},
		ExpiresAt:      sql.NullTime{Time: bus.ExpiresAt.UTC(), Valid: !bus.ExpiresAt.IsZero()},
		ProcessedAt:    sql.NullTime{Time: bus.ProcessedAt.UTC(), Valid: !bus.ProcessedAt.IsZero()},
		CreatedAt:      bus.CreatedAt.UTC(),
		UpdatedAt:      bus.UpdatedAt.UTC(),
	}
}

func toBusAccessRequest(db accessRequestDB) (accessbus.AccessRequest, error) {
	reqName, err := name.Parse(db.RequesterName)
	if err != nil {
		return accessbus.AccessRequest{}, fmt.Errorf("parse requester name: %w", err)
	}

	company, err := name.ParseNull(db.Company.String)
	if err != nil {
		return accessbus.AccessRequest{}, fmt.Errorf("parse company: %w", err)
	}

	prps, err := purpose.Parse(db.Purpose)
	if err != nil {
		return accessbus.AccessRequest{}, fmt.Errorf("parse purpose: %w", err)
	}

	status, err := requeststatus.Parse(db.Status)
	if err != nil {
		return accessbus.AccessRequest{}, fmt.Errorf("parse status: %w", err)
	}

	bus := accessbus.AccessRequest{
		ID:             db.ID,
		DatasetID:      db.DatasetID,
		ConnectionID:   db.ConnectionID,
		RequesterName:  reqName,
		RequesterEmail: mail.Address{Address: db.RequesterEmail},
		Company:        company,
		Purpose:        prps,
		Status:         status,
		Notes:          db.Notes.String,
		Reason:         db.Reason.String,
		APIKey:         db.APIKey.String,
		CreatedAt:      db.CreatedAt.In(time.Local),
		UpdatedAt:      db.UpdatedAt.In(time.Local),
	}

	if db.ExpiresAt.Valid {
		bus.ExpiresAt = db.ExpiresAt.Time.In(time.Local)
	}

	if db.ProcessedAt.Valid {
		bus.ProcessedAt = db.ProcessedAt.Time.In(time.Local)
	}

	return bus, nil
}

func toBusAccessRequests(dbs []accessRequestDB) ([]accessbus.AccessRequest, error) {
	bus := make([]accessbus.AccessRequest, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusAccessRequest(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
