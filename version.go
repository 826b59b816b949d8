package hfrtos

import (
	"fmt"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/fleet"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/guard"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/mailbox"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal/goos"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/status"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/worker"
)

// Version information for the hfrtos module.
const (
	// Version is the current version of the hfrtos module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)

// ModuleVersions returns the current version of every sub-module.
func ModuleVersions() map[string]string {
	return map[string]string{
		"osal":    osal.Version,
		"goos":    goos.Version,
		"guard":   guard.Version,
		"mailbox": mailbox.Version,
		"status":  status.Version,
		"worker":  worker.Version,
		"fleet":   fleet.Version,
		"log":     log.Version,
	}
}

// CompatibilityMatrix returns the minimum compatible version of every
// sub-module.
func CompatibilityMatrix() map[string]string {
	return map[string]string{
		"osal":    osal.MinCompatibleVersion,
		"goos":    goos.MinCompatibleVersion,
		"guard":   guard.MinCompatibleVersion,
		"mailbox": mailbox.MinCompatibleVersion,
		"status":  status.MinCompatibleVersion,
		"worker":  worker.MinCompatibleVersion,
		"fleet":   fleet.MinCompatibleVersion,
		"log":     log.MinCompatibleVersion,
	}
}

// ValidateModuleVersions checks that all sub-module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func ValidateModuleVersions() error {
	versions := ModuleVersions()
	for name, min := range CompatibilityMatrix() {
		if !isVersionCompatible(versions[name], min) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, versions[name], min)
		}
	}
	return nil
}

// isVersionCompatible checks if version >= minVersion using semantic versioning.
// Assumes versions are in format "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
