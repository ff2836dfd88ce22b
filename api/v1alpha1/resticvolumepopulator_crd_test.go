//go:build integration

package v1alpha1

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var _ = Describe("ResticVolumePopulator", func() {

	Context("ResticVolumePopulatorSpec", func() {
		It("can be created with defaults", func() {
			created := generatePopulatorObject("populator-create")
			Expect(k8sClient.Create(context.Background(), created)).To(Succeed())

			fetched := &ResticVolumePopulator{}
			Expect(k8sClient.Get(context.Background(), getKey(created), fetched)).To(Succeed())
			Expect(fetched.Spec.Snapshot).To(Equal(DefaultSnapshot))
			Expect(fetched.Spec.AllowUninitializedRepository).To(BeFalse())
			Expect(fetched.Spec.Image).To(Equal(Image{}))
		})

		It("requires a secret name", func() {
			invalid := generatePopulatorObject("populator-no-secret")
			invalid.Spec.SecretName = ""
			Expect(k8sClient.Create(context.Background(), invalid)).ToNot(Succeed())
		})

		It("requires a hostname", func() {
			invalid := generatePopulatorObject("populator-no-hostname")
			invalid.Spec.Hostname = ""
			Expect(k8sClient.Create(context.Background(), invalid)).ToNot(Succeed())
		})

		It("can be deleted", func() {
			created := generatePopulatorObject("populator-delete")
			Expect(k8sClient.Create(context.Background(), created)).To(Succeed())

			Expect(k8sClient.Delete(context.Background(), created)).To(Succeed())
			Expect(k8sClient.Get(context.Background(), getKey(created), created)).ToNot(Succeed())
		})
	})

	Context("ResticVolumePopulatorStatus", func() {
		It("accepts every state", func() {
			created := generatePopulatorObject("populator-status")
			Expect(k8sClient.Create(context.Background(), created)).To(Succeed())

			for _, state := range []PopulatorState{StateUninitialized, StateBound, StateProvisioning, StateCleanup, StateFinished} {
				created.Status = ResticVolumePopulatorStatus{Status: state, BoundPVC: "default/data"}
				Expect(k8sClient.Status().Update(context.Background(), created)).To(Succeed())
			}
		})

		It("rejects unknown states", func() {
			created := generatePopulatorObject("populator-bad-status")
			Expect(k8sClient.Create(context.Background(), created)).To(Succeed())

			created.Status.Status = "RUNNING"
			Expect(k8sClient.Status().Update(context.Background(), created)).ToNot(Succeed())
		})
	})
})

func generatePopulatorObject(name string) *ResticVolumePopulator {
	return &ResticVolumePopulator{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
		},
		Spec: ResticVolumePopulatorSpec{
			SecretName: "restic-secret",
			Hostname:   "backup",
		},
	}
}
