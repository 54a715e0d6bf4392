package licensebus_test

import (
	"errors"
	"testing"

	"github.com/dattastudio/studio-api/business/domain/licensebus"
	"github.com/dattastudio/studio-api/business/types/license"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	core := licensebus.NewCore()

	for _, kind := range []license.Kind{license.Personal, license.Creative, license.Professional, license.Enterprise} {
		lic, err := core.Lookup(kind)
		require.NoError(t, err)
		assert.True(t, lic.Kind.Equal(kind))
		assert.Greater(t, lic.MaxFileSize, int64(0))
	}
}

func TestLookupUnknown(t *testing.T) {
	core := licensebus.NewCore()

	_, err := core.Lookup(license.Kind{})
	assert.ErrorIs(t, err, licensebus.ErrUnknownKind)
}

func TestValidateFileSizeBoundary(t *testing.T) {
	core := licensebus.NewCore()

	// The limit itself is valid, limit+1 is not, for every tier.
	for _, lic := range core.Catalog() {
		assert.NoError(t, core.ValidateFileSize(lic.MaxFileSize, lic), lic.Kind.String())
		assert.NoError(t, core.ValidateFileSize(0, lic), lic.Kind.String())

		err := core.ValidateFileSize(lic.MaxFileSize+1, lic)
		require.Error(t, err, lic.Kind.String())
		assert.ErrorIs(t, err, licensebus.ErrFileTooLarge)

		var violation *licensebus.LimitViolation
		require.True(t, errors.As(err, &violation))
		assert.Equal(t, lic.MaxFileSize, violation.Limit)
		assert.Equal(t, lic.MaxFileSize+1, violation.Actual)
	}
}

func TestValidateFileCountBoundary(t *testing.T) {
	core := licensebus.NewCore()

	for _, lic := range core.Catalog() {
		assert.NoError(t, core.ValidateFileCount(lic.MaxFilesPerUpload, lic), lic.Kind.String())

		err := core.ValidateFileCount(lic.MaxFilesPerUpload+1, lic)
		require.Error(t, err, lic.Kind.String())
		assert.ErrorIs(t, err, licensebus.ErrTooManyFiles)
	}
}

func TestValidateTotalSizeBoundary(t *testing.T) {
	core := licensebus.NewCore()

	for _, lic := range core.Catalog() {
		assert.NoError(t, core.ValidateTotalSize(lic.MaxTotalSize, lic), lic.Kind.String())

		err := core.ValidateTotalSize(lic.MaxTotalSize+1, lic)
		require.Error(t, err, lic.Kind.String())
		assert.ErrorIs(t, err, licensebus.ErrQuotaExceeded)

		var violation *licensebus.LimitViolation
		require.True(t, errors.As(err, &violation))
		assert.Equal(t, lic.MaxTotalSize, violation.Limit)
	}
}

func TestCatalogOrder(t *testing.T) {
	core := licensebus.NewCore()

	catalog := core.Catalog()
	require.Len(t, catalog, 4)

	// Tiers are listed in ascending order of capability.
	for i := 1; i < len(catalog); i++ {
		assert.Greater(t, catalog[i].MaxTotalSize, catalog[i-1].MaxTotalSize)
	}
}
