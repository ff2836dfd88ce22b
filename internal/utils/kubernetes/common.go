package kubernetes

import (
	"context"
	"errors"

	apiErrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// CreateOrUpdate creates the object or brings the existing one in line with the mutate functions.
// Conflicts and create races are retried with the default backoff.
func CreateOrUpdate[T client.Object](ctx context.Context, cli client.Client, obj T, fn ...func(object T) error) (result controllerutil.OperationResult, err error) {
	err = retry.OnError(retry.DefaultRetry, func(err error) bool {
		return apiErrors.IsConflict(err) || apiErrors.IsAlreadyExists(err)
	}, func() error {
		var createUpdateError error
		result, createUpdateError = controllerutil.CreateOrUpdate(ctx, cli, obj, func() (fnError error) {
			for _, f := range fn {
				fnError = errors.Join(fnError, f(obj))
			}
			return
		})
		return createUpdateError
	})
	return
}

// EnsureAnnotations merges the given annotations into the object.
func EnsureAnnotations[T client.Object](annotations map[string]string) func(T) error {
	return func(obj T) error {
		current := obj.GetAnnotations()
		if current == nil {
			current = make(map[string]string, len(annotations))
		}
		for k, v := range annotations {
			current[k] = v
		}
		obj.SetAnnotations(current)
		return nil
	}
}

// EnsureLabels merges the given labels into the object.
func EnsureLabels[T client.Object](labels map[string]string) func(T) error {
	return func(obj T) error {
		current := obj.GetLabels()
		if current == nil {
			current = make(map[string]string, len(labels))
		}
		for k, v := range labels {
			current[k] = v
		}
		obj.SetLabels(current)
		return nil
	}
}
