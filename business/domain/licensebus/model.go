package licensebus

import "github.com/dattastudio/studio-api/business/types/license"

const (
	megabyte = int64(1) << 20
	gigabyte = int64(1) << 30
)

// License represents a license tier: a named bundle of usage rights and
// upload limits attached to a dataset.
type License struct {
	Kind                license.Kind
	MaxFileSize         int64 // bytes, per file
	MaxFilesPerUpload   int
	MaxTotalSize        int64 // bytes, per dataset
	RoyaltyPercentage   float64
	AllowCommercialUse  bool
	AllowDerivatives    bool
	AllowRedistribution bool
}
