// Package events translates informer notifications into a closed set of typed events and fans
// them out to subscribers.
package events

import (
	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	corev1 "k8s.io/api/core/v1"
)

// Event is implemented only by the types in this package.
type Event interface {
	event()
}

type PvcAdded struct {
	PVC *corev1.PersistentVolumeClaim
}

type PvcUpdated struct {
	Old *corev1.PersistentVolumeClaim
	New *corev1.PersistentVolumeClaim
}

type PvcRemoved struct {
	PVC *corev1.PersistentVolumeClaim
}

type PodAdded struct {
	Pod *corev1.Pod
}

type PodUpdated struct {
	Old *corev1.Pod
	New *corev1.Pod
}

type PopulatorAdded struct {
	Populator *v1alpha1.ResticVolumePopulator
}

func (PvcAdded) event()       {}
func (PvcUpdated) event()     {}
func (PvcRemoved) event()     {}
func (PodAdded) event()       {}
func (PodUpdated) event()     {}
func (PopulatorAdded) event() {}
