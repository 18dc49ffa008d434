package model

// ProductStatus represents the lifecycle status of a product.
// Values match the backend database representation.
type ProductStatus int

const (
	// StatusRegistering means the product is a draft going through the
	// upload wizard and is not yet visible to other users
	StatusRegistering ProductStatus = 0

	// StatusPublished means the product finished registration and is public
	StatusPublished ProductStatus = 1

	// StatusFailed means the backend registration step failed
	StatusFailed ProductStatus = 9
)

// String returns the display label of the status
func (ps ProductStatus) String() string {
	switch ps {
	case StatusRegistering:
		return "Registering"
	case StatusPublished:
		return "Published"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsPending returns true while the product is awaiting publication
func (ps ProductStatus) IsPending() bool {
	return ps == StatusRegistering
}

// IsPublished returns true once the product went through the final
// publication action
func (ps ProductStatus) IsPublished() bool {
	return ps == StatusPublished
}

// FileRole represents the role of a file attached to a product.
// Values match the backend database representation.
type FileRole int

const (
	// RoleMain is the single file containing the product data
	RoleMain FileRole = 0

	// RoleDescription is an optional document describing the product
	RoleDescription FileRole = 1

	// RoleAuxiliary is any extra file; a product may have several
	RoleAuxiliary FileRole = 2
)

// String returns the display label of the role
func (fr FileRole) String() string {
	switch fr {
	case RoleMain:
		return "Main File"
	case RoleDescription:
		return "Description File"
	case RoleAuxiliary:
		return "Auxiliary File"
	default:
		return "Unknown"
	}
}
