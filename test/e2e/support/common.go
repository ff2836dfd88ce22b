//go:build integration

package support

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	rvpclient "github.com/ansarhun/restic-volume-populator/client"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	ResticImage = "restic/restic:0.17.3"
	Hostname    = "e2e-test"
	SampleData  = "restic volume populator e2e sample"
)

// ResticEnv returns the repository credentials of the test environment. The suite is skipped
// when no repository is configured.
func ResticEnv() map[string]string {
	env := map[string]string{}
	for _, key := range []string{"RESTIC_REPOSITORY", "RESTIC_PASSWORD", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"} {
		if v, ok := os.LookupEnv("E2E_" + key); ok {
			env[key] = v
		}
	}
	if env["RESTIC_REPOSITORY"] == "" || env["RESTIC_PASSWORD"] == "" {
		ginkgo.Skip("E2E_RESTIC_REPOSITORY and E2E_RESTIC_PASSWORD must be set")
	}
	return env
}

func CreateTestNamespace(ctx context.Context, cli client.Client) *corev1.Namespace {
	sp := ginkgo.CurrentSpecReport()
	fn := filepath.Base(sp.LeafNodeLocation.FileName)
	// Replace invalid characters with '-'
	re := regexp.MustCompile("[^a-z0-9-]")
	name := re.ReplaceAllString(strings.TrimSuffix(fn, filepath.Ext(fn)), "-")

	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: name + "-",
		},
	}
	Expect(cli.Create(ctx, ns)).To(Succeed())
	core.GinkgoWriter.Println("Created test namespace: " + ns.Name)
	return ns
}

func Secret(namespace string, env map[string]string) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "restic-secret", Namespace: namespace},
		StringData: env,
	}
}

func PVC(namespace, name, populator string) *corev1.PersistentVolumeClaim {
	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{Requests: corev1.ResourceList{
				corev1.ResourceStorage: resource.MustParse("100Mi"),
			}},
			DataSourceRef: &corev1.TypedObjectReference{
				APIGroup: ptr.To(v1alpha1.GroupVersion.Group),
				Kind:     v1alpha1.Kind,
				Name:     populator,
			},
		},
	}
}

func Populator(namespace, name string) *v1alpha1.ResticVolumePopulator {
	return &v1alpha1.ResticVolumePopulator{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: v1alpha1.ResticVolumePopulatorSpec{
			SecretName: "restic-secret",
			Hostname:   Hostname,
		},
	}
}

// BackupPod seeds the repository with a snapshot holding SampleData.
func BackupPod(namespace string) *corev1.Pod {
	script := fmt.Sprintf("echo %q > /mnt/sample.txt && (restic cat config || restic init) && restic backup .", SampleData)
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "restic-backup", Namespace: namespace},
		Spec: corev1.PodSpec{
			Hostname:      Hostname,
			RestartPolicy: corev1.RestartPolicyNever,
			Containers: []corev1.Container{{
				Name:       "restic",
				Image:      ResticImage,
				Command:    []string{"/bin/sh", "-c", script},
				WorkingDir: "/mnt",
				EnvFrom: []corev1.EnvFromSource{{
					SecretRef: &corev1.SecretEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: "restic-secret"}},
				}},
				VolumeMounts: []corev1.VolumeMount{{Name: "data", MountPath: "/mnt"}},
			}},
			Volumes: []corev1.Volume{{
				Name:         "data",
				VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
			}},
		},
	}
}

// ReaderPod prints the restored sample file from the claim.
func ReaderPod(namespace, claim string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: claim + "-reader", Namespace: namespace},
		Spec: corev1.PodSpec{
			RestartPolicy: corev1.RestartPolicyNever,
			Containers: []corev1.Container{{
				Name:         "reader",
				Image:        "busybox:1.36",
				Command:      []string{"cat", "/mnt/sample.txt"},
				VolumeMounts: []corev1.VolumeMount{{Name: "data", MountPath: "/mnt"}},
			}},
			Volumes: []corev1.Volume{{
				Name: "data",
				VolumeSource: corev1.VolumeSource{PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
					ClaimName: claim,
				}},
			}},
		},
	}
}

func PodPhase(ctx context.Context, cli client.Client, namespace, name string) func() corev1.PodPhase {
	return func() corev1.PodPhase {
		pod := &corev1.Pod{}
		if err := cli.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, pod); err != nil {
			return ""
		}
		return pod.Status.Phase
	}
}

func PodLog(ctx context.Context, clientset kubernetes.Interface, namespace, name string) string {
	out, err := rvpclient.PodLogs(ctx, clientset, namespace, name, "")
	Expect(err).ToNot(HaveOccurred())
	return out
}

// DumpEvents prints the cluster events regarding an object.
func DumpEvents(ctx context.Context, clientset kubernetes.Interface, namespace, name string) {
	list, err := clientset.EventsV1().Events(namespace).List(ctx, metav1.ListOptions{
		FieldSelector: "regarding.name=" + name,
	})
	if err != nil {
		core.GinkgoWriter.Println("could not list events: " + err.Error())
		return
	}
	for _, e := range list.Items {
		core.GinkgoWriter.Printf("%s %s %s\n", e.Type, e.Reason, e.Note)
	}
}
