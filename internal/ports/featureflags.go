package ports

import (
	"context"
)

// FlagMaintenanceMode disables every command and answers with a maintenance notice.
const FlagMaintenanceMode = "maintenance-mode"

// FeatureFlags defines the contract for feature flag evaluation.
// Flags are evaluated synchronously; providers refresh values on their own.
//
// Example usage:
//
//	if flags.IsEnabled(ctx, ports.FlagMaintenanceMode, false) {
//	    return respondMaintenance(ctx)
//	}
type FeatureFlags interface {
	// IsEnabled checks if a boolean feature flag is enabled.
	// Returns defaultValue if the flag doesn't exist.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}
