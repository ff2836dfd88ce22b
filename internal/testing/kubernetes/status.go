package kubernetes

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// SetPodTerminated marks the first container of the pod as terminated.
func SetPodTerminated(ctx context.Context, cli client.Client, pod *corev1.Pod, reason string, exitCode int32) error {
	name := "restic"
	if len(pod.Spec.Containers) > 0 {
		name = pod.Spec.Containers[0].Name
	}
	pod.Status.Phase = corev1.PodSucceeded
	if exitCode != 0 {
		pod.Status.Phase = corev1.PodFailed
	}
	pod.Status.ContainerStatuses = []corev1.ContainerStatus{{
		Name: name,
		State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{
			Reason:   reason,
			ExitCode: exitCode,
		}},
	}}
	return cli.Status().Update(ctx, pod)
}

func SetPodRunning(ctx context.Context, cli client.Client, pod *corev1.Pod) error {
	pod.Status.Phase = corev1.PodRunning
	pod.Status.ContainerStatuses = []corev1.ContainerStatus{{
		Name:  "restic",
		State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}},
	}}
	return cli.Status().Update(ctx, pod)
}

func SetPVCPhase(ctx context.Context, cli client.Client, pvc *corev1.PersistentVolumeClaim, phase corev1.PersistentVolumeClaimPhase) error {
	pvc.Status.Phase = phase
	return cli.Status().Update(ctx, pvc)
}
