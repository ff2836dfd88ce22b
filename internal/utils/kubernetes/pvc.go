package kubernetes

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

func GetPVC(ctx context.Context, c client.Reader, namespace, pvcName string) (*corev1.PersistentVolumeClaim, error) {
	pvc := &corev1.PersistentVolumeClaim{}
	err := c.Get(ctx, client.ObjectKey{Namespace: namespace, Name: pvcName}, pvc)
	return pvc, err
}

// EnsurePVCSpecFrom copies the storage shape of the source claim: access modes, resources,
// storage class and volume mode.
func EnsurePVCSpecFrom(source *corev1.PersistentVolumeClaim) func(pvc *corev1.PersistentVolumeClaim) error {
	return func(pvc *corev1.PersistentVolumeClaim) error {
		spec := &pvc.Spec

		spec.AccessModes = append([]corev1.PersistentVolumeAccessMode(nil), source.Spec.AccessModes...)
		spec.Resources = *source.Spec.Resources.DeepCopy()
		if source.Spec.StorageClassName != nil {
			spec.StorageClassName = source.Spec.StorageClassName
		}
		if source.Spec.VolumeMode != nil {
			spec.VolumeMode = source.Spec.VolumeMode
		}
		return nil
	}
}
