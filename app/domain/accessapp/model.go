package accessapp

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"time"

	"github.com/dattastudio/studio-api/app/sdk/errs"
	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/sdk/apikey"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/purpose"
	"github.com/google/uuid"
)

// AccessRequest represents information about an individual access request.
// The API key only shows up once the request has been approved.
type AccessRequest struct {
	ID             string `json:"id"`
	DatasetID      string `json:"datasetID"`
	ConnectionID   string `json:"connectionID"`
	RequesterName  string `json:"requesterName"`
	RequesterEmail string `json:"requesterEmail"`
	Company        string `json:"company,omitempty"`
	Purpose        string `json:"purpose"`
	Status         string `json:"status"`
	Notes          string `json:"notes,omitempty"`
	Reason         string `json:"reason,omitempty"`
	APIKey         string `json:"apiKey,omitempty"`
	ExpiresAt      string `json:"expiresAt,omitempty"`
	ProcessedAt    string `json:"processedAt,omitempty"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// Encode implements the encoder interface.
func (app AccessRequest) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppAccessRequest(bus accessbus.AccessRequest) AccessRequest {
	app := AccessRequest{
		ID:             bus.ID.String(),
		DatasetID:      bus.DatasetID.String(),
		ConnectionID:   bus.ConnectionID.String(),
		RequesterName:  bus.RequesterName.String(),
		RequesterEmail: bus.RequesterEmail.Address,
		Company:        bus.Company.String(),
		Purpose:        bus.Purpose.String(),
		Status:         bus.Status.String(),
		Notes:          bus.Notes,
		Reason:         bus.Reason,
		APIKey:         bus.APIKey,
		CreatedAt:      bus.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      bus.UpdatedAt.Format(time.RFC3339),
	}

	if !bus.ExpiresAt.IsZero() {
		app.ExpiresAt = bus.ExpiresAt.Format(time.RFC3339)
	}

	if !bus.ProcessedAt.IsZero() {
		app.ProcessedAt = bus.ProcessedAt.Format(time.RFC3339)
	}

	return app
}

func toAppAccessRequests(reqs []accessbus.AccessRequest) []AccessRequest {
	app := make([]AccessRequest, len(reqs))
	for i, req := range reqs {
		app[i] = toAppAccessRequest(req)
	}

	return app
}

// NewAccessRequest defines the data needed to submit an access request.
type NewAccessRequest struct {
	RequesterName  string `json:"requesterName" validate:"required,min=3,max=60"`
	RequesterEmail string `json:"requesterEmail" validate:"required,email"`
	Company        string `json:"company"`
	Purpose        string `json:"purpose" validate:"required,min=10,max=1000"`
}

// Decode implements the decoder interface.
func (app *NewAccessRequest) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewAccessRequest) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.Newf(errs.InvalidArgument, "validate: %s", err)
	}

	return nil
}

func toBusNewAccessRequest(datasetID uuid.UUID, app NewAccessRequest) (accessbus.NewAccessRequest, error) {
	nme, err := name.Parse(app.RequesterName)
	if err != nil {
		return accessbus.NewAccessRequest{}, fmt.Errorf("parse requester name: %w", err)
	}

	addr, err := mail.ParseAddress(app.RequesterEmail)
	if err != nil {
		return accessbus.NewAccessRequest{}, fmt.Errorf("parse requester email: %w", err)
	}

	company, err := name.ParseNull(app.Company)
	if err != nil {
		return accessbus.NewAccessRequest{}, fmt.Errorf("parse company: %w", err)
	}

	prps, err := purpose.Parse(app.Purpose)
	if err != nil {
		return accessbus.NewAccessRequest{}, fmt.Errorf("parse purpose: %w", err)
	}

	bus := accessbus.NewAccessRequest{
		DatasetID:      datasetID,
		RequesterName:  nme,
		RequesterEmail: *addr,
		Company:        company,
		Purpose:        prps,
	}

	return bus, nil
}

// ApproveAccess defines the data needed to approve an access request.
type ApproveAccess struct {
	Days  int    `json:"days" validate:"gte=0,lte=365"`
	Notes string `json:"notes" validate:"max=1000"`
}

// Decode implements the decoder interface.
func (app *ApproveAccess) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app ApproveAccess) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.Newf(errs.InvalidArgument, "validate: %s", err)
	}

	return nil
}

func toBusApproveAccess(app ApproveAccess) accessbus.ApproveAccess {
	return accessbus.ApproveAccess{
		Days:  app.Days,
		Notes: app.Notes,
	}
}

// RejectAccess defines the data needed to reject an access request.
type RejectAccess struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// Decode implements the decoder interface.
func (app *RejectAccess) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app RejectAccess) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.Newf(errs.InvalidArgument, "validate: %s", err)
	}

	return nil
}

// DownloadGrant is returned when a consumer lab's API key clears the
// download check.
type DownloadGrant struct {
	DatasetID    string `json:"datasetID"`
	ConnectionID string `json:"connectionID"`
	ExpiresAt    string `json:"expiresAt"`
}

// Encode implements the encoder interface.
func (app DownloadGrant) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppDownloadGrant(datasetID uuid.UUID, key apikey.Key) DownloadGrant {
	return DownloadGrant{
		DatasetID:    datasetID.String(),
		ConnectionID: key.ConnectionID.String(),
		ExpiresAt:    key.ExpiresAt.Format(time.RFC3339),
	}
}
