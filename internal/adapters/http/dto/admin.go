package dto

// MaintenanceRequest switches maintenance mode at runtime.
type MaintenanceRequest struct {
	// Enabled is a pointer so an omitted field fails "required" instead of reading as false.
	Enabled *bool `json:"enabled" validate:"required"`
}

// MaintenanceResponse reports the maintenance state after a change.
type MaintenanceResponse struct {
	Enabled bool `json:"enabled"`
}

// CachePurgeResponse confirms a purge of the character list cache.
type CachePurgeResponse struct {
	Group  string `json:"group"`
	Purged bool   `json:"purged"`
}
