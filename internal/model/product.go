package model

import "time"

// Product type internal names with special form requirements
const (
	TypeSpeczCatalog      = "specz_catalog"
	TypeTrainingSet       = "training_set"
	TypeTrainingResults   = "training_results"
	TypeValidationResults = "validation_results"
	TypePhotozTable       = "photoz_table"
	TypeOther             = "other"
)

// Product represents a data product, draft or published.
// The id and internal_name are assigned by the backend; internal_name only
// exists after the product has been registered.
type Product struct {
	ID                      int           `json:"id"`
	InternalName            string        `json:"internal_name"`
	DisplayName             string        `json:"display_name"`
	ProductType             int           `json:"product_type"`
	ProductTypeName         string        `json:"product_type_name"`
	ProductTypeInternalName string        `json:"product_type_internal_name"`
	Release                 *int          `json:"release"`
	ReleaseName             string        `json:"release_name"`
	ReleaseYear             string        `json:"release_year"`
	Survey                  string        `json:"survey"`
	PzCode                  string        `json:"pz_code"`
	Description             string        `json:"description"`
	OfficialProduct         bool          `json:"official_product"`
	Status                  ProductStatus `json:"status"`
	UploadedBy              string        `json:"uploaded_by"`
	IsOwner                 bool          `json:"is_owner"`
	CanDelete               bool          `json:"can_delete"`
	CanUpdate               bool          `json:"can_update"`
	CreatedAt               time.Time     `json:"created_at"`
}

// Product types that do not take a release (data not tied to an LSST release)
var releaseExemptTypes = map[string]bool{
	TypeSpeczCatalog: true,
	TypeOther:        true,
}

// Product types that take a pz_code identifying the photo-z algorithm run
var pzCodeTypes = map[string]bool{
	TypePhotozTable:       true,
	TypeTrainingResults:   true,
	TypeValidationResults: true,
}

// ReleaseRequired reports whether a product of the given type must reference
// a release
func ReleaseRequired(typeInternalName string) bool {
	return !releaseExemptTypes[typeInternalName]
}

// ReleaseYearRequired reports whether the release_year field is mandatory for
// the given product type
func ReleaseYearRequired(typeInternalName string) bool {
	return typeInternalName == TypeSpeczCatalog
}

// PzCodeAccepted reports whether the pz_code field applies to the given
// product type
func PzCodeAccepted(typeInternalName string) bool {
	return pzCodeTypes[typeInternalName]
}

// ProductFile represents a file attached to a product
type ProductFile struct {
	ID      int      `json:"id"`
	Product int      `json:"product"`
	Name    string   `json:"name"`
	Size    int64    `json:"size"`
	Role    FileRole `json:"role"`
	File    string   `json:"file"`
	Type    string   `json:"type"`
}

// HasMainFile reports whether the set contains at least one main-role file
func HasMainFile(files []ProductFile) bool {
	for _, f := range files {
		if f.Role == RoleMain {
			return true
		}
	}
	return false
}
