package kubernetes

import (
	corev1 "k8s.io/api/core/v1"
)

// findOrAppend returns the named element of the slice, appending a new one when it is missing.
// The pointer is valid until the slice grows again.
func findOrAppend[T any](items *[]T, name string, nameOf func(*T) *string) *T {
	for i := range *items {
		if *nameOf(&(*items)[i]) == name {
			return &(*items)[i]
		}
	}
	var item T
	*nameOf(&item) = name
	*items = append(*items, item)
	return &(*items)[len(*items)-1]
}

func FindContainerByNameOrCreate(podSpec *corev1.PodSpec, name string) *corev1.Container {
	return findOrAppend(&podSpec.Containers, name, func(c *corev1.Container) *string { return &c.Name })
}

func FindVolumeByNameOrCreate(podSpec *corev1.PodSpec, name string) *corev1.Volume {
	return findOrAppend(&podSpec.Volumes, name, func(v *corev1.Volume) *string { return &v.Name })
}

func FindVolumeMountByNameOrCreate(container *corev1.Container, name string) *corev1.VolumeMount {
	return findOrAppend(&container.VolumeMounts, name, func(m *corev1.VolumeMount) *string { return &m.Name })
}

func FindEnvByNameOrCreate(container *corev1.Container, name string) *corev1.EnvVar {
	return findOrAppend(&container.Env, name, func(e *corev1.EnvVar) *string { return &e.Name })
}

// FirstContainerTerminated returns the termination state of the pod's first container, or nil
// while it has not terminated.
func FirstContainerTerminated(pod *corev1.Pod) *corev1.ContainerStateTerminated {
	if len(pod.Status.ContainerStatuses) == 0 {
		return nil
	}
	return pod.Status.ContainerStatuses[0].State.Terminated
}
