// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/dattastudio/studio-api/app/sdk/auth"
	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/domain/userbus"
	"github.com/dattastudio/studio-api/business/sdk/sqldb"
	"github.com/dattastudio/studio-api/business/sdk/web"
	"github.com/google/uuid"
)

type ctxKey int

const (
	claimsKey ctxKey = iota + 1
	userIDKey
	userKey
	datasetKey
	accessRequestKey
	trKey
)

func setClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims returns the claims from the context.
func GetClaims(ctx context.Context) auth.Claims {
	v, ok := ctx.Value(claimsKey).(auth.Claims)
	if !ok {
		return auth.Claims{}
	}
	return v
}

func setUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the user id from the context.
func GetUserID(ctx context.Context) (uuid.UUID, error) {
	v, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.UUID{}, errors.New("user id not found in context")
	}

	return v, nil
}

func setUser(ctx context.Context, usr userbus.User) context.Context {
	return context.WithValue(ctx, userKey, usr)
}

// GetUser returns the user from the context.
func GetUser(ctx context.Context) (userbus.User, error) {
	v, ok := ctx.Value(userKey).(userbus.User)
	if !ok {
		return userbus.User{}, errors.New("user not found in context")
	}

	return v, nil
}

func setDataset(ctx context.Context, ds datasetbus.Dataset) context.Context {
	return context.WithValue(ctx, datasetKey, ds)
}

// GetDataset returns the dataset from the context.
func GetDataset(ctx context.Context) (datasetbus.Dataset, error) {
	v, ok := ctx.Value(datasetKey).(datasetbus.Dataset)
	if !ok {
		return datasetbus.Dataset{}, errors.New("dataset not found in context")
	}

	return v, nil
}

func setAccessRequest(ctx context.Context, req accessbus.AccessRequest) context.Context {
	return context.WithValue(ctx, accessRequestKey, req)
}

// GetAccessRequest returns the access request from the context.
func GetAccessRequest(ctx context.Context) (accessbus.AccessRequest, error) {
	v, ok := ctx.Value(accessRequestKey).(accessbus.AccessRequest)
	if !ok {
		return accessbus.AccessRequest{}, errors.New("access request not found in context")
	}

	return v, nil
}

func setTran(ctx context.Context, tx sqldb.CommitRollbacker) context.Context {
	return context.WithValue(ctx, trKey, tx)
}

// GetTran retrieves the value that can manage a transaction.
func GetTran(ctx context.Context) (sqldb.CommitRollbacker, error) {
	v, ok := ctx.Value(trKey).(sqldb.CommitRollbacker)
	if !ok {
		return nil, errors.New("transaction not found in context")
	}

	return v, nil
}

// isError checks if the Encoder has an error inside of it.
func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}
	return nil
}
