package model

// Release represents an LSST data release products can be associated with
type Release struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// ProductType represents one of the fixed product categories
type ProductType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// User is the identity of the authenticated user for the session
type User struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}
