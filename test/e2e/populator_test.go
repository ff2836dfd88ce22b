//go:build integration

package e2e

import (
	"context"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/test/e2e/support"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	populatorName = "test-populator"
	claimName     = "test-pvc"
)

var _ = Describe("Restic volume populator", Ordered, func() {
	var (
		cli       client.Client
		clientset kubernetes.Interface
		namespace *corev1.Namespace
		env       map[string]string
		ctx       = context.TODO()
	)

	BeforeAll(func() {
		env = support.ResticEnv()

		var err error
		cli, clientset, err = CreateClient()
		Expect(err).ToNot(HaveOccurred())

		namespace = support.CreateTestNamespace(ctx, cli)
		DeferCleanup(func() {
			_ = cli.Delete(ctx, namespace)
		})
		Expect(cli.Create(ctx, support.Secret(namespace.Name, env))).To(Succeed())
	})

	AfterAll(func() {
		if namespace != nil {
			support.DumpEvents(ctx, clientset, namespace.Name, populatorName)
		}
	})

	It("seeds the repository", func() {
		backup := support.BackupPod(namespace.Name)
		Expect(cli.Create(ctx, backup)).To(Succeed())
		Eventually(support.PodPhase(ctx, cli, namespace.Name, backup.Name)).Should(Equal(corev1.PodSucceeded))
	})

	It("populates the claim", func() {
		Expect(cli.Create(ctx, support.PVC(namespace.Name, claimName, populatorName))).To(Succeed())
		Expect(cli.Create(ctx, support.Populator(namespace.Name, populatorName))).To(Succeed())

		Eventually(func(g Gomega) v1alpha1.PopulatorState {
			populator := &v1alpha1.ResticVolumePopulator{}
			g.Expect(cli.Get(ctx, client.ObjectKey{Namespace: namespace.Name, Name: populatorName}, populator)).To(Succeed())
			return populator.Status.Status
		}).Should(Equal(v1alpha1.StateFinished))

		Eventually(func(g Gomega) corev1.PersistentVolumeClaimPhase {
			pvc := &corev1.PersistentVolumeClaim{}
			g.Expect(cli.Get(ctx, client.ObjectKey{Namespace: namespace.Name, Name: claimName}, pvc)).To(Succeed())
			return pvc.Status.Phase
		}).Should(Equal(corev1.ClaimBound))
	})

	It("removes the prime objects", func() {
		key := client.ObjectKey{Namespace: namespace.Name, Name: "prime-" + claimName}
		Eventually(func() error {
			return cli.Get(ctx, key, &corev1.Pod{})
		}).ShouldNot(Succeed())
		Eventually(func() error {
			return cli.Get(ctx, key, &corev1.PersistentVolumeClaim{})
		}).ShouldNot(Succeed())
	})

	It("restores the data", func() {
		reader := support.ReaderPod(namespace.Name, claimName)
		Expect(cli.Create(ctx, reader)).To(Succeed())
		Eventually(support.PodPhase(ctx, cli, namespace.Name, reader.Name)).Should(Equal(corev1.PodSucceeded))
		Expect(support.PodLog(ctx, clientset, namespace.Name, reader.Name)).To(Equal(support.SampleData + "\n"))
	})
})
