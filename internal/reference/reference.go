// Package reference computes stable identities for cluster objects and encodes them as
// "namespace/name" references, the form stored in populator status fields and in the owner
// annotation of prime objects.
package reference

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/annotations"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

const separator = "/"

var ErrInvalidReference = errors.New("invalid reference")

// Key identifies a namespaced object.
type Key struct {
	Namespace string
	Name      string
}

func New(namespace, name string) Key {
	return Key{Namespace: namespace, Name: name}
}

func FromObject(obj metav1.Object) Key {
	return Key{Namespace: obj.GetNamespace(), Name: obj.GetName()}
}

// Reference encodes the key as "namespace/name".
func (k Key) Reference() string {
	return k.Namespace + separator + k.Name
}

func (k Key) String() string {
	return k.Reference()
}

func (k Key) NamespacedName() types.NamespacedName {
	return types.NamespacedName{Namespace: k.Namespace, Name: k.Name}
}

// Parse decodes a "namespace/name" reference.
func Parse(ref string) (Key, error) {
	namespace, name, ok := strings.Cut(ref, separator)
	if !ok || namespace == "" || name == "" || strings.Contains(name, separator) {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	return Key{Namespace: namespace, Name: name}, nil
}

// OwnerOf returns the target claim a prime object was created for. Objects without the owner
// annotation, or with an unreadable one, have no owner.
func OwnerOf(obj metav1.Object) (Key, bool) {
	value := strings.TrimSpace(obj.GetAnnotations()[annotations.Owner])
	if value == "" {
		return Key{}, false
	}
	key, err := Parse(value)
	if err != nil {
		return Key{}, false
	}
	return key, true
}

// OwnerAnnotations returns the annotation set marking an object as serving the given claim.
func OwnerAnnotations(target Key) map[string]string {
	return map[string]string{
		annotations.Owner: target.Reference(),
	}
}

// IsPopulatorClaim reports whether the claim asks to be populated by a ResticVolumePopulator.
func IsPopulatorClaim(pvc *corev1.PersistentVolumeClaim) bool {
	ref := pvc.Spec.DataSourceRef
	return ref != nil &&
		ref.APIGroup != nil &&
		*ref.APIGroup == v1alpha1.GroupVersion.Group &&
		ref.Kind == v1alpha1.Kind
}

// PopulatorKey returns the populator referenced by a claim. The reference namespace defaults to
// the claim's namespace. Callers must check IsPopulatorClaim first.
func PopulatorKey(pvc *corev1.PersistentVolumeClaim) Key {
	namespace := pvc.Namespace
	if ns := pvc.Spec.DataSourceRef.Namespace; ns != nil && *ns != "" {
		namespace = *ns
	}
	return Key{Namespace: namespace, Name: pvc.Spec.DataSourceRef.Name}
}
