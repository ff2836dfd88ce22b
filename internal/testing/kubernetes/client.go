package kubernetes

import (
	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func Scheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(v1alpha1.AddToScheme(scheme))
	return scheme
}

// FakeClientBuilder returns a fake client builder with the status subresource enabled for every
// kind the controller writes status to.
func FakeClientBuilder() *fake.ClientBuilder {
	return fake.NewClientBuilder().
		WithScheme(Scheme()).
		WithStatusSubresource(
			&v1alpha1.ResticVolumePopulator{},
			&corev1.PersistentVolumeClaim{},
			&corev1.Pod{},
		)
}
