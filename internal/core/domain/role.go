package domain

// Roles carried in the "role" claim of an access token.
const (
	RoleDriver  = "driver"
	RoleShipper = "shipper"
	RoleAdmin   = "admin"
)
