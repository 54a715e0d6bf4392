package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/dattastudio/studio-api/app/sdk/auth"
	"github.com/dattastudio/studio-api/app/sdk/errs"
	"github.com/dattastudio/studio-api/business/domain/accessbus"
	"github.com/dattastudio/studio-api/business/domain/datasetbus"
	"github.com/dattastudio/studio-api/business/domain/userbus"
	"github.com/dattastudio/studio-api/business/sdk/web"
	"github.com/dattastudio/studio-api/business/types/role"
	"github.com/google/uuid"
)

// Authorize validates the user has at least one of the specified roles.
func Authorize(ath *auth.Auth, roles ...role.Role) web.MidFunc {
	m := func(handler web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			if err := ath.Authorize(ctx, GetClaims(ctx), roles...); err != nil {
				return errs.New(errs.PermissionDenied, err)
			}

			return handler(ctx, r)
		}

		return h
	}

	return m
}

// AuthorizeUser loads the user referenced by the user_id path param into
// the context. Admins can act on any user, everyone else only on
// themselves.
func AuthorizeUser(ath *auth.Auth, userBus *userbus.Core) web.MidFunc {
	m := func(handler web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			id := web.Param(r, "user_id")

			userID, err := uuid.Parse(id)
			if err != nil {
				return errs.New(errs.Unauthenticated, ErrInvalidID)
			}

			usr, err := userBus.QueryByID(ctx, userID)
			if err != nil {
				switch {
				case errors.Is(err, userbus.ErrNotFound):
					return errs.New(errs.Unauthenticated, err)
				default:
					return errs.Newf(errs.Unauthenticated, "querybyid: userID[%s]: %s", userID, err)
				}
			}

			claims := GetClaims(ctx)
			if !claims.HasRole(role.Admin) && claims.Subject != userID.String() {
				return errs.New(errs.PermissionDenied, auth.ErrForbidden)
			}

			ctx = setUser(ctx, usr)

			return handler(ctx, r)
		}

		return h
	}

	return m
}

// AuthorizeDataset loads the dataset referenced by the dataset_id path
// param into the context and checks the caller owns it or is an admin.
func AuthorizeDataset(ath *auth.Auth, datasetBus *datasetbus.Core) web.MidFunc {
	m := func(handler web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			id := web.Param(r, "dataset_id")

			datasetID, err := uuid.Parse(id)
			if err != nil {
				return errs.New(errs.Unauthenticated, ErrInvalidID)
			}

			ds, err := datasetBus.QueryByID(ctx, datasetID)
			if err != nil {
				switch {
				case errors.Is(err, datasetbus.ErrNotFound):
					return errs.New(errs.NotFound, err)
				default:
					return errs.Newf(errs.Internal, "querybyid: datasetID[%s]: %s", datasetID, err)
				}
			}

			claims := GetClaims(ctx)
			if !claims.HasRole(role.Admin) && claims.Subject != ds.OwnerID.String() {
				return errs.New(errs.PermissionDenied, auth.ErrForbidden)
			}

			ctx = setDataset(ctx, ds)

			return handler(ctx, r)
		}

		return h
	}

	return m
}

// AuthorizeAccessRequest loads the access request referenced by the
// request_id path param into the context. The caller must own the dataset
// the request targets or be an admin.
func AuthorizeAccessRequest(ath *auth.Auth, accessBus *accessbus.Core, datasetBus *datasetbus.Core) web.MidFunc {
	m := func(handler web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			id := web.Param(r, "request_id")

			requestID, err := uuid.Parse(id)
			if err != nil {
				return errs.New(errs.Unauthenticated, ErrInvalidID)
			}

			req, err := accessBus.QueryByID(ctx, requestID)
			if err != nil {
				switch {
				case errors.Is(err, accessbus.ErrNotFound):
					return errs.New(errs.NotFound, err)
				default:
					return errs.Newf(errs.Internal, "querybyid: requestID[%s]: %s", requestID, err)
				}
			}

			ds, err := datasetBus.QueryByID(ctx, req.DatasetID)
			if err != nil {
				return errs.Newf(errs.Internal, "querybyid: datasetID[%s]: %s", req.DatasetID, err)
			}

			claims := GetClaims(ctx)
			if !claims.HasRole(role.Admin) && claims.Subject != ds.OwnerID.String() {
				return errs.New(errs.PermissionDenied, auth.ErrForbidden)
			}

			ctx = setDataset(ctx, ds)
			ctx = setAccessRequest(ctx, req)

			return handler(ctx, r)
		}

		return h
	}

	return m
}

// ErrInvalidID represents a condition where the id is not a uuid.
var ErrInvalidID = errors.New("ID is not in its proper form")
