package osutil

import (
	"os"
	"strings"
)

// Returns true if the environment variable "switch" is enabled.
// The environment variable is considered enabled if it is set to one of the "truthy" values:
// "1", "true", "on", or "yes".
func EnvVarSwitchEnabled(varName string) bool {
	value, found := os.LookupEnv(varName)
	if !found || strings.TrimSpace(value) == "" {
		return false
	}

	value = strings.TrimSpace(value)
	enabled := strings.EqualFold(value, "1") ||
		strings.EqualFold(value, "true") ||
		strings.EqualFold(value, "on") ||
		strings.EqualFold(value, "yes")
	return enabled
}
