package events

import (
	"context"
	"fmt"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	toolscache "k8s.io/client-go/tools/cache"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Publisher is the write side of the Bus.
type Publisher interface {
	Publish(Event)
}

// PvcHandler publishes PvcAdded, PvcUpdated and PvcRemoved.
type PvcHandler struct {
	Publisher Publisher
	Logger    logr.Logger
}

func (h *PvcHandler) OnAdd(obj interface{}, _ bool) {
	if pvc, ok := obj.(*corev1.PersistentVolumeClaim); ok {
		h.Publisher.Publish(PvcAdded{PVC: pvc})
	}
}

func (h *PvcHandler) OnUpdate(oldObj, newObj interface{}) {
	oldPvc, okOld := oldObj.(*corev1.PersistentVolumeClaim)
	newPvc, okNew := newObj.(*corev1.PersistentVolumeClaim)
	if !okOld || !okNew {
		h.Logger.V(1).Info("ignoring update of unexpected type", "type", fmt.Sprintf("%T", newObj))
		return
	}
	h.Publisher.Publish(PvcUpdated{Old: oldPvc, New: newPvc})
}

func (h *PvcHandler) OnDelete(obj interface{}) {
	if pvc, ok := unwrap(obj).(*corev1.PersistentVolumeClaim); ok {
		h.Publisher.Publish(PvcRemoved{PVC: pvc})
	}
}

// PodHandler publishes PodAdded and PodUpdated. Pod deletions carry no work.
type PodHandler struct {
	Publisher Publisher
	Logger    logr.Logger
}

func (h *PodHandler) OnAdd(obj interface{}, _ bool) {
	if pod, ok := obj.(*corev1.Pod); ok {
		h.Publisher.Publish(PodAdded{Pod: pod})
	}
}

func (h *PodHandler) OnUpdate(oldObj, newObj interface{}) {
	oldPod, okOld := oldObj.(*corev1.Pod)
	newPod, okNew := newObj.(*corev1.Pod)
	if !okOld || !okNew {
		h.Logger.V(1).Info("ignoring update of unexpected type", "type", fmt.Sprintf("%T", newObj))
		return
	}
	h.Publisher.Publish(PodUpdated{Old: oldPod, New: newPod})
}

func (h *PodHandler) OnDelete(interface{}) {}

// PopulatorHandler publishes PopulatorAdded.
type PopulatorHandler struct {
	Publisher Publisher
	Logger    logr.Logger
}

func (h *PopulatorHandler) OnAdd(obj interface{}, _ bool) {
	if populator, ok := obj.(*v1alpha1.ResticVolumePopulator); ok {
		h.Publisher.Publish(PopulatorAdded{Populator: populator})
	}
}

func (h *PopulatorHandler) OnUpdate(_, _ interface{}) {}

func (h *PopulatorHandler) OnDelete(interface{}) {}

func unwrap(obj interface{}) interface{} {
	if tombstone, ok := obj.(toolscache.DeletedFinalStateUnknown); ok {
		return tombstone.Obj
	}
	return obj
}

// Register attaches the handlers to the shared informers of the cache. It must be called before
// the cache is started so the initial list is delivered as add notifications.
func Register(ctx context.Context, informers cache.Informers, publisher Publisher, logger logr.Logger) error {
	handlers := []struct {
		obj     client.Object
		handler toolscache.ResourceEventHandler
	}{
		{&corev1.PersistentVolumeClaim{}, &PvcHandler{Publisher: publisher, Logger: logger.WithName("pvc")}},
		{&corev1.Pod{}, &PodHandler{Publisher: publisher, Logger: logger.WithName("pod")}},
		{&v1alpha1.ResticVolumePopulator{}, &PopulatorHandler{Publisher: publisher, Logger: logger.WithName("populator")}},
	}

	for _, h := range handlers {
		informer, err := informers.GetInformer(ctx, h.obj)
		if err != nil {
			return fmt.Errorf("could not get informer for %T: %w", h.obj, err)
		}
		if _, err := informer.AddEventHandler(h.handler); err != nil {
			return fmt.Errorf("could not register handler for %T: %w", h.obj, err)
		}
	}
	return nil
}
