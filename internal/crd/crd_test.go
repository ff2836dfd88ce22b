package crd

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/gomega"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

const name = "resticvolumepopulators.ansarhun.github.com"

func newClient(objects ...client.Object) client.Client {
	scheme := runtime.NewScheme()
	utilruntime.Must(apiextensionsv1.AddToScheme(scheme))
	return fake.NewClientBuilder().WithScheme(scheme).WithObjects(objects...).Build()
}

func TestLoad(t *testing.T) {
	g := NewWithT(t)

	crds, err := Load()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(crds).To(HaveLen(1))

	crd := crds[0]
	g.Expect(crd.Name).To(Equal(name))
	g.Expect(crd.Spec.Group).To(Equal("ansarhun.github.com"))
	g.Expect(crd.Spec.Scope).To(Equal(apiextensionsv1.NamespaceScoped))
	g.Expect(crd.Spec.Names.Kind).To(Equal("ResticVolumePopulator"))
	g.Expect(crd.Spec.Versions).To(HaveLen(1))

	version := crd.Spec.Versions[0]
	g.Expect(version.Name).To(Equal("v1alpha1"))
	g.Expect(version.Subresources.Status).ToNot(BeNil())
	status := version.Schema.OpenAPIV3Schema.Properties["status"].Properties["status"]
	g.Expect(status.Enum).To(HaveLen(5))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "minimal",
			data: "---\napiVersion: apiextensions.k8s.io/v1\nkind: CustomResourceDefinition\nmetadata:\n  name: foos.example.com\n",
		},
		{
			name:    "other kind",
			data:    "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: foo\n",
			wantErr: true,
		},
		{
			name:    "empty",
			data:    "---\n",
			wantErr: true,
		},
		{
			name:    "unknown field",
			data:    "apiVersion: apiextensions.k8s.io/v1\nkind: CustomResourceDefinition\nmetadata:\n  name: foos.example.com\nbogus: true\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			crd, err := Decode([]byte(tt.data))
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
				return
			}
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(crd.Name).To(Equal("foos.example.com"))
		})
	}
}

func TestBootstrap(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		g := NewWithT(t)
		c := newClient()

		g.Expect(Bootstrap(context.TODO(), c, logr.Discard())).To(Succeed())

		crd := &apiextensionsv1.CustomResourceDefinition{}
		g.Expect(c.Get(context.TODO(), client.ObjectKey{Name: name}, crd)).To(Succeed())
		g.Expect(crd.Spec.Names.Plural).To(Equal("resticvolumepopulators"))
		g.Expect(crd.Annotations).To(HaveKey("controller-gen.kubebuilder.io/version"))

		g.Expect(Bootstrap(context.TODO(), c, logr.Discard())).To(Succeed())
	})

	t.Run("update outdated", func(t *testing.T) {
		g := NewWithT(t)
		c := newClient(&apiextensionsv1.CustomResourceDefinition{
			ObjectMeta: metav1.ObjectMeta{Name: name, Labels: map[string]string{"keep": "me"}},
			Spec: apiextensionsv1.CustomResourceDefinitionSpec{
				Group: "ansarhun.github.com",
				Scope: apiextensionsv1.NamespaceScoped,
				Names: apiextensionsv1.CustomResourceDefinitionNames{
					Kind:   "ResticVolumePopulator",
					Plural: "resticvolumepopulators",
				},
			},
		})

		g.Expect(Bootstrap(context.TODO(), c, logr.Discard())).To(Succeed())

		crd := &apiextensionsv1.CustomResourceDefinition{}
		g.Expect(c.Get(context.TODO(), client.ObjectKey{Name: name}, crd)).To(Succeed())
		g.Expect(crd.Spec.Versions).To(HaveLen(1))
		g.Expect(crd.Spec.Names.ShortNames).To(ConsistOf("rvp"))
		g.Expect(crd.Labels).To(HaveKeyWithValue("keep", "me"))
	})
}
