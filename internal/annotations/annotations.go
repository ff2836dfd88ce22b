// Package annotations provides keys for Kubernetes annotations used by the controller.
//
// # Annotation: resticvolumepopulator.ansarhun.github.com/owner
//
// [Owner] links a prime Pod or prime PersistentVolumeClaim to the claim it populates.
// The value is the namespace/name reference of the target claim. It is the only linkage
// between the temporary objects and their owner; no owner references are set.
//
// Example:
//
//	apiVersion: v1
//	kind: Pod
//	metadata:
//	  name: prime-data
//	  namespace: apps
//	  annotations:
//	    resticvolumepopulator.ansarhun.github.com/owner: "apps/data"
//
// # Annotation: ansarhun.github.com/pause-reconciliation
//
// [PausedReconciliation] stops the controller from advancing a ResticVolumePopulator.
//
// Options:
//   - "true": the populator is skipped by the state machine.
//   - "false": normal reconciliation.
package annotations

import (
	"strings"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
)

const (
	// PausedReconciliation defines the annotation key used to pause reconciliation for a populator.
	PausedReconciliation = "ansarhun.github.com/pause-reconciliation"
)

// Owner is "<lowercased kind>.<group>/owner".
var Owner = strings.ToLower(v1alpha1.Kind) + "." + v1alpha1.GroupVersion.Group + "/owner"
