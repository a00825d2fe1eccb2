package domain

// maintenanceOffValues are the raw MAINTENANCE_MODE values that leave the bot serving.
var maintenanceOffValues = map[string]struct{}{
	"":      {},
	"False": {},
	"0":     {},
	"false": {},
	"no":    {},
}

// IsMaintenanceActive reports whether a raw maintenance setting turns the bot off.
// An unset variable is passed as "" and is never active; any value other than
// the known false tokens is.
func IsMaintenanceActive(value string) bool {
	_, off := maintenanceOffValues[value]

	return !off
}
