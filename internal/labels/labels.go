package labels

import (
	"github.com/ansarhun/restic-volume-populator/internal/constants"
)

const (
	LabelAppName      = "app.kubernetes.io/name"
	LabelAppComponent = "app.kubernetes.io/component"
	LabelAppPartOf    = "app.kubernetes.io/part-of"
	LabelAppManagedBy = "app.kubernetes.io/managed-by"
)

// ForPrime labels a prime object. The labels only scope informer caches; ownership is carried by
// the owner annotation.
func ForPrime(component string) map[string]string {
	return map[string]string{
		LabelAppName:      constants.AppName,
		LabelAppComponent: component,
		LabelAppPartOf:    constants.AppName,
		LabelAppManagedBy: constants.AppName,
	}
}

// ManagedSelector matches every object created by the controller.
func ManagedSelector() map[string]string {
	return map[string]string{
		LabelAppManagedBy: constants.AppName,
	}
}
