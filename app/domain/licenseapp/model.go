package licenseapp

import (
	"encoding/json"

	"github.com/dattastudio/studio-api/business/domain/licensebus"
)

// License represents a license tier for the marketplace.
type License struct {
	Kind                string  `json:"kind"`
	MaxFileSize         int64   `json:"maxFileSize"`
	MaxFilesPerUpload   int     `json:"maxFilesPerUpload"`
	MaxTotalSize        int64   `json:"maxTotalSize"`
	RoyaltyPercentage   float64 `json:"royaltyPercentage"`
	AllowCommercialUse  bool    `json:"allowCommercialUse"`
	AllowDerivatives    bool    `json:"allowDerivatives"`
	AllowRedistribution bool    `json:"allowRedistribution"`
}

// Licenses represents the full catalog of tiers.
type Licenses []License

// Encode implements the encoder interface.
func (app Licenses) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppLicenses(bus []licensebus.License) Licenses {
	app := make(Licenses, len(bus))
	for i, lic := range bus {
		app[i] = License{
			Kind:                lic.Kind.String(),
			MaxFileSize:         lic.MaxFileSize,
			MaxFilesPerUpload:   lic.MaxFilesPerUpload,
			MaxTotalSize:        lic.MaxTotalSize,
			RoyaltyPercentage:   lic.RoyaltyPercentage,
			AllowCommercialUse:  lic.AllowCommercialUse,
			AllowDerivatives:    lic.AllowDerivatives,
			AllowRedistribution: lic.AllowRedistribution,
		}
	}

	return app
}
