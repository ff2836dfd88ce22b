package utils

import (
	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/constants"
	"github.com/ansarhun/restic-volume-populator/internal/labels"
	"github.com/ansarhun/restic-volume-populator/internal/reference"
	"github.com/ansarhun/restic-volume-populator/internal/utils/kubernetes"
	"github.com/ansarhun/restic-volume-populator/internal/utils/kubernetes/ensure"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	ContainerName = "restic"
	VolumeName    = "source"
	MountPath     = "/mnt"

	ComponentPrimePVC = "prime-pvc"
	ComponentPrimePod = "prime-pod"
)

// PrimeName is the name shared by the prime claim and the prime pod of a target claim.
func PrimeName(target *corev1.PersistentVolumeClaim) string {
	return constants.PrimePrefix + target.Name
}

// PrimeKey locates the prime objects of a target claim.
func PrimeKey(target *corev1.PersistentVolumeClaim) reference.Key {
	return reference.New(target.Namespace, PrimeName(target))
}

func NewPrimePVC(target *corev1.PersistentVolumeClaim) *corev1.PersistentVolumeClaim {
	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PrimeName(target),
			Namespace: target.Namespace,
		},
	}
}

func NewPrimePod(target *corev1.PersistentVolumeClaim) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PrimeName(target),
			Namespace: target.Namespace,
		},
	}
}

// EnsurePrimePVC shapes the prime claim after the target claim.
func EnsurePrimePVC(target *corev1.PersistentVolumeClaim) []func(*corev1.PersistentVolumeClaim) error {
	return []func(*corev1.PersistentVolumeClaim) error{
		kubernetes.EnsureAnnotations[*corev1.PersistentVolumeClaim](reference.OwnerAnnotations(reference.FromObject(target))),
		kubernetes.EnsureLabels[*corev1.PersistentVolumeClaim](labels.ForPrime(ComponentPrimePVC)),
		kubernetes.EnsurePVCSpecFrom(target),
	}
}

// EnsurePrimePod describes the restore pod writing the snapshot into the prime claim.
func EnsurePrimePod(target *corev1.PersistentVolumeClaim, populator *v1alpha1.ResticVolumePopulator, image string) []func(*corev1.Pod) error {
	return []func(*corev1.Pod) error{
		kubernetes.EnsureAnnotations[*corev1.Pod](reference.OwnerAnnotations(reference.FromObject(target))),
		kubernetes.EnsureLabels[*corev1.Pod](labels.ForPrime(ComponentPrimePod)),
		func(pod *corev1.Pod) error {
			spec := &pod.Spec
			spec.RestartPolicy = corev1.RestartPolicyNever
			spec.Hostname = populator.Spec.Hostname

			volume := kubernetes.FindVolumeByNameOrCreate(spec, VolumeName)
			if volume.PersistentVolumeClaim == nil {
				volume.VolumeSource = corev1.VolumeSource{
					PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{},
				}
			}
			volume.PersistentVolumeClaim.ClaimName = PrimeName(target)

			container := kubernetes.FindContainerByNameOrCreate(spec, ContainerName)
			container.Image = image
			container.Args = []string{"restore", populator.Spec.GetSnapshot(), "--target", "."}
			container.WorkingDir = MountPath
			container.EnvFrom = []corev1.EnvFromSource{{
				SecretRef: &corev1.SecretEnvSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: populator.Spec.SecretName},
				},
			}}

			mount := kubernetes.FindVolumeMountByNameOrCreate(container, VolumeName)
			mount.MountPath = MountPath

			ensure.SetProxyEnvs(spec.Containers)
			return nil
		},
	}
}
