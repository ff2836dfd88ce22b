package actions

import (
	"context"
	"fmt"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/reference"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Request is the unit the actions work on: a target claim and the populator it references.
// Both are fresh copies read at the start of the reconcile.
type Request struct {
	Target    *corev1.PersistentVolumeClaim
	Populator *v1alpha1.ResticVolumePopulator
}

// LogReader returns the log of a pod container.
type LogReader interface {
	PodLogs(ctx context.Context, namespace, name, container string) (string, error)
}

func inState(req *Request, state v1alpha1.PopulatorState) bool {
	return req.Populator.Status.Status.OrUninitialized() == state
}

// getReferenced fetches the object behind a status reference. Unset, malformed and missing
// references all report found == false.
func getReferenced(ctx context.Context, c client.Reader, ref string, obj client.Object) (bool, error) {
	if ref == "" {
		return false, nil
	}
	key, err := reference.Parse(ref)
	if err != nil {
		return false, nil
	}
	if err := c.Get(ctx, key.NamespacedName(), obj); err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("could not get %s: %w", ref, err)
	}
	return true, nil
}
