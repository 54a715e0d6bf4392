// Package licensebus provides the static license catalog and the upload
// limit validation attached to each tier.
package licensebus

import (
	"errors"
	"fmt"

	"github.com/dattastudio/studio-api/business/types/license"
)

// Set of error variables for license operations. The limit sentinels are
// wrapped by a LimitViolation carrying the violated limit.
var (
	ErrUnknownKind   = errors.New("unknown license tier")
	ErrFileTooLarge  = errors.New("file exceeds the tier file size limit")
	ErrTooManyFiles  = errors.New("upload exceeds the tier file count limit")
	ErrQuotaExceeded = errors.New("dataset exceeds the tier total size limit")
)

// LimitViolation reports a failed limit validation together with the limit
// that was violated and the offending value. Use errors.Is against the
// sentinel errors to identify which limit failed.
type LimitViolation struct {
	Limit  int64
	Actual int64
	reason error
}

// Error implements the error interface.
func (v *LimitViolation) Error() string {
	return fmt.Sprintf("%s: limit[%d] actual[%d]", v.reason, v.Limit, v.Actual)
}

// Unwrap supports errors.Is against the limit sentinels.
func (v *LimitViolation) Unwrap() error {
	return v.reason
}

// Core manages the license catalog. The catalog is immutable and defined
// once at construction.
type Core struct {
	catalog map[license.Kind]License
	order   []license.Kind
}

// NewCore constructs the catalog with the marketplace tiers.
func NewCore() *Core {
	tiers := []License{
		{
			Kind:              license.Personal,
			MaxFileSize:       100 * megabyte,
			MaxFilesPerUpload: 10,
			MaxTotalSize:      1 * gigabyte,
			RoyaltyPercentage: 0,
		},
		{
			Kind:              license.Creative,
			MaxFileSize:       500 * megabyte,
			MaxFilesPerUpload: 50,
			MaxTotalSize:      10 * gigabyte,
			RoyaltyPercentage: 0.05,
			AllowDerivatives:  true,
		},
		{
			Kind:               license.Professional,
			MaxFileSize:        2 * gigabyte,
			MaxFilesPerUpload:  200,
			MaxTotalSize:       100 * gigabyte,
			RoyaltyPercentage:  0.10,
			AllowCommercialUse: true,
			AllowDerivatives:   true,
		},
		{
			Kind:                license.Enterprise,
			MaxFileSize:         10 * gigabyte,
			MaxFilesPerUpload:   1000,
			MaxTotalSize:        1024 * gigabyte,
			RoyaltyPercentage:   0.15,
			AllowCommercialUse:  true,
			AllowDerivatives:    true,
			AllowRedistribution: true,
		},
	}

	catalog := make(map[license.Kind]License, len(tiers))
	order := make([]license.Kind, len(tiers))
	for i, tier := range tiers {
		catalog[tier.Kind] = tier
		order[i] = tier.Kind
	}

	return &Core{
		catalog: catalog,
		order:   order,
	}
}

// Lookup returns the license for the specified tier. An unknown tier is a
// hard error, never a fallback to another tier.
func (c *Core) Lookup(kind license.Kind) (License, error) {
	lic, exists := c.catalog[kind]
	if !exists {
		return License{}, fmt.Errorf("lookup: tier[%s]: %w", kind, ErrUnknownKind)
	}

	return lic, nil
}

// Catalog returns all tiers in ascending order of capability.
func (c *Core) Catalog() []License {
	list := make([]License, len(c.order))
	for i, kind := range c.order {
		list[i] = c.catalog[kind]
	}

	return list
}

// ValidateFileSize checks a single file size against the tier limit. A size
// equal to the limit is valid.
func (c *Core) ValidateFileSize(size int64, lic License) error {
	if size > lic.MaxFileSize {
		return &LimitViolation{Limit: lic.MaxFileSize, Actual: size, reason: ErrFileTooLarge}
	}

	return nil
}

// ValidateFileCount checks an upload's file count against the tier limit.
func (c *Core) ValidateFileCount(count int, lic License) error {
	if count > lic.MaxFilesPerUpload {
		return &LimitViolation{Limit: int64(lic.MaxFilesPerUpload), Actual: int64(count), reason: ErrTooManyFiles}
	}

	return nil
}

// ValidateTotalSize checks a dataset's total size against the tier limit.
func (c *Core) ValidateTotalSize(total int64, lic License) error {
	if total > lic.MaxTotalSize {
		return &LimitViolation{Limit: lic.MaxTotalSize, Actual: total, reason: ErrQuotaExceeded}
	}

	return nil
}
