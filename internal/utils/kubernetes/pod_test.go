package kubernetes

import (
	"testing"

	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
)

func TestFindOrCreate(t *testing.T) {
	g := NewWithT(t)
	spec := &corev1.PodSpec{}

	container := FindContainerByNameOrCreate(spec, "restic")
	container.Image = "restic/restic:latest"
	g.Expect(FindContainerByNameOrCreate(spec, "restic").Image).To(Equal("restic/restic:latest"))
	g.Expect(spec.Containers).To(HaveLen(1))

	FindVolumeByNameOrCreate(spec, "source")
	FindVolumeByNameOrCreate(spec, "source")
	g.Expect(spec.Volumes).To(HaveLen(1))

	container = &spec.Containers[0]
	FindVolumeMountByNameOrCreate(container, "source").MountPath = "/mnt"
	g.Expect(FindVolumeMountByNameOrCreate(container, "source").MountPath).To(Equal("/mnt"))
	g.Expect(container.VolumeMounts).To(HaveLen(1))

	FindEnvByNameOrCreate(container, "A").Value = "1"
	FindEnvByNameOrCreate(container, "A").Value = "2"
	g.Expect(container.Env).To(Equal([]corev1.EnvVar{{Name: "A", Value: "2"}}))
}

func TestFirstContainerTerminated(t *testing.T) {
	g := NewWithT(t)

	pod := &corev1.Pod{}
	g.Expect(FirstContainerTerminated(pod)).To(BeNil())

	pod.Status.ContainerStatuses = []corev1.ContainerStatus{{
		Name:  "restic",
		State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}},
	}}
	g.Expect(FirstContainerTerminated(pod)).To(BeNil())

	pod.Status.ContainerStatuses[0].State = corev1.ContainerState{
		Terminated: &corev1.ContainerStateTerminated{Reason: "Completed"},
	}
	g.Expect(FirstContainerTerminated(pod)).ToNot(BeNil())
	g.Expect(FirstContainerTerminated(pod).Reason).To(Equal("Completed"))
}
