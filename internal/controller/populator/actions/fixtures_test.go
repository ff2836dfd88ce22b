package actions

import (
	"context"
	"errors"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/annotations"
	"github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	namespace  = "default"
	targetName = "data"
	primeName  = "prime-data"
	volumeName = "pvc-1234"
)

func targetPVC(phase corev1.PersistentVolumeClaimPhase) *corev1.PersistentVolumeClaim {
	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: targetName, Namespace: namespace, UID: "target-uid"},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{Requests: corev1.ResourceList{
				corev1.ResourceStorage: resource.MustParse("1Gi"),
			}},
			StorageClassName: ptr.To("standard"),
			DataSourceRef: &corev1.TypedObjectReference{
				APIGroup: ptr.To(v1alpha1.GroupVersion.Group),
				Kind:     v1alpha1.Kind,
				Name:     "test-populator",
			},
		},
		Status: corev1.PersistentVolumeClaimStatus{Phase: phase},
	}
}

func populator(state v1alpha1.PopulatorState) *v1alpha1.ResticVolumePopulator {
	p := &v1alpha1.ResticVolumePopulator{
		ObjectMeta: metav1.ObjectMeta{Name: "test-populator", Namespace: namespace},
		Spec: v1alpha1.ResticVolumePopulatorSpec{
			SecretName: "restic-secret",
			Hostname:   "backup",
		},
		Status: v1alpha1.ResticVolumePopulatorStatus{Status: state},
	}
	if state != v1alpha1.StateNone && state != v1alpha1.StateUninitialized {
		p.Status.BoundPVC = namespace + "/" + targetName
	}
	if state == v1alpha1.StateProvisioning || state == v1alpha1.StateCleanup {
		p.Status.PrimePod = namespace + "/" + primeName
		p.Status.PrimePvc = namespace + "/" + primeName
	}
	return p
}

func ownerAnnotations() map[string]string {
	return map[string]string{annotations.Owner: namespace + "/" + targetName}
}

func primePVC(phase corev1.PersistentVolumeClaimPhase) *corev1.PersistentVolumeClaim {
	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: primeName, Namespace: namespace, Annotations: ownerAnnotations(), UID: "prime-uid"},
		Spec:       corev1.PersistentVolumeClaimSpec{VolumeName: volumeName},
		Status:     corev1.PersistentVolumeClaimStatus{Phase: phase},
	}
}

func primePod(state *corev1.ContainerStateTerminated) *corev1.Pod {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: primeName, Namespace: namespace, Annotations: ownerAnnotations()},
		Spec: corev1.PodSpec{
			RestartPolicy: corev1.RestartPolicyNever,
			Containers:    []corev1.Container{{Name: "restic", Image: "restic/restic:latest"}},
		},
	}
	if state != nil {
		pod.Status.ContainerStatuses = []corev1.ContainerStatus{{
			Name:  "restic",
			State: corev1.ContainerState{Terminated: state},
		}}
	} else {
		pod.Status.ContainerStatuses = []corev1.ContainerStatus{{
			Name:  "restic",
			State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}},
		}}
	}
	return pod
}

func terminated(reason string, exitCode int32) *corev1.ContainerStateTerminated {
	return &corev1.ContainerStateTerminated{Reason: reason, ExitCode: exitCode}
}

func persistentVolume(claimRef *corev1.ObjectReference) *corev1.PersistentVolume {
	return &corev1.PersistentVolume{
		ObjectMeta: metav1.ObjectMeta{
			Name:        volumeName,
			Annotations: map[string]string{"pv.kubernetes.io/provisioned-by": "rancher.io/local-path"},
		},
		Spec: corev1.PersistentVolumeSpec{
			Capacity:                      corev1.ResourceList{corev1.ResourceStorage: resource.MustParse("1Gi")},
			AccessModes:                   []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			PersistentVolumeReclaimPolicy: corev1.PersistentVolumeReclaimDelete,
			StorageClassName:              "standard",
			ClaimRef:                      claimRef,
			PersistentVolumeSource: corev1.PersistentVolumeSource{
				HostPath: &corev1.HostPathVolumeSource{Path: "/var/lib/volumes/pvc-1234"},
			},
		},
	}
}

func primeClaimRef() *corev1.ObjectReference {
	return &corev1.ObjectReference{
		Kind:            "PersistentVolumeClaim",
		APIVersion:      "v1",
		Name:            primeName,
		Namespace:       namespace,
		UID:             "prime-uid",
		ResourceVersion: "100",
	}
}

// fakeLogs serves pod logs keyed by pod name.
type fakeLogs map[string]string

func (f fakeLogs) PodLogs(_ context.Context, _, name, _ string) (string, error) {
	if l, ok := f[name]; ok {
		return l, nil
	}
	return "", errors.New("logs not available")
}

// request builds a request from freshly fetched copies, as the engine does.
func request(ctx context.Context, g gomega.Gomega, c client.Client) *Request {
	req := &Request{
		Target:    &corev1.PersistentVolumeClaim{},
		Populator: &v1alpha1.ResticVolumePopulator{},
	}
	g.Expect(c.Get(ctx, client.ObjectKey{Namespace: namespace, Name: targetName}, req.Target)).To(gomega.Succeed())
	g.Expect(c.Get(ctx, client.ObjectKey{Namespace: namespace, Name: "test-populator"}, req.Populator)).To(gomega.Succeed())
	req.Populator.Status.Status = req.Populator.Status.Status.OrUninitialized()
	return req
}

func storedPopulator(ctx context.Context, g gomega.Gomega, c client.Client) *v1alpha1.ResticVolumePopulator {
	p := &v1alpha1.ResticVolumePopulator{}
	g.Expect(c.Get(ctx, client.ObjectKey{Namespace: namespace, Name: "test-populator"}, p)).To(gomega.Succeed())
	return p
}
