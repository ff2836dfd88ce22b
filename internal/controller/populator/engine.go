// Package populator maps cluster notifications onto the per-populator state machine and runs
// it on the serialized worker.
package populator

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/action"
	"github.com/ansarhun/restic-volume-populator/internal/annotations"
	"github.com/ansarhun/restic-volume-populator/internal/constants"
	"github.com/ansarhun/restic-volume-populator/internal/controller/populator/actions"
	"github.com/ansarhun/restic-volume-populator/internal/metrics"
	"github.com/ansarhun/restic-volume-populator/internal/reference"
	"github.com/ansarhun/restic-volume-populator/internal/utils/kubernetes"
	"github.com/ansarhun/restic-volume-populator/internal/worker"
	"github.com/go-logr/logr"
	olpredicate "github.com/operator-framework/operator-lib/predicate"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/tools/events"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
)

const (
	TaskReconcilePVC       = "pvc"
	TaskReconcilePopulator = "populator"
)

// Submitter queues work for the serialized worker.
type Submitter interface {
	Submit(kind, key string, fn worker.Func)
}

type Options struct {
	// Client reads and writes against the API server.
	Client client.Client
	// Cache lists claims from the informer cache.
	Cache    client.Reader
	Recorder events.EventRecorder
	Logs     actions.LogReader
	Executor Submitter
	Logger   logr.Logger
}

type Engine struct {
	client   client.Client
	cache    client.Reader
	recorder events.EventRecorder
	executor Submitter
	logger   logr.Logger
	pause    predicate.TypedPredicate[client.Object]
	actions  []action.Action[*actions.Request]
}

func New(opts Options) (*Engine, error) {
	pause, err := olpredicate.NewPause[client.Object](annotations.PausedReconciliation)
	if err != nil {
		return nil, fmt.Errorf("could not create pause predicate: %w", err)
	}

	return &Engine{
		client:   opts.Client,
		cache:    opts.Cache,
		recorder: opts.Recorder,
		executor: opts.Executor,
		logger:   opts.Logger,
		pause:    pause,
		actions: []action.Action[*actions.Request]{
			actions.NewInitializeAction(),
			actions.NewProvisionAction(),
			actions.NewRebindAction(opts.Logs),
			actions.NewCleanupAction(opts.Logs),
		},
	}, nil
}

func (e *Engine) SubmitPVC(key reference.Key) {
	e.executor.Submit(TaskReconcilePVC, key.String(), func(ctx context.Context) error {
		return e.ReconcilePVC(ctx, key)
	})
}

func (e *Engine) SubmitPopulator(key reference.Key) {
	e.executor.Submit(TaskReconcilePopulator, key.String(), func(ctx context.Context) error {
		return e.ReconcilePopulator(ctx, key)
	})
}

// ReconcilePVC advances the populator referenced by the target claim by one step.
func (e *Engine) ReconcilePVC(ctx context.Context, key reference.Key) error {
	logger := log.FromContext(ctx).WithValues("pvc", key.String())

	target, err := kubernetes.GetPVC(ctx, e.client, key.Namespace, key.Name)
	if err != nil {
		if apierrors.IsNotFound(err) {
			logger.V(1).Info("PVC not found")
			return nil
		}
		return fmt.Errorf("could not get pvc %s: %w", key, err)
	}
	if !reference.IsPopulatorClaim(target) {
		return nil
	}

	populator := &v1alpha1.ResticVolumePopulator{}
	populatorKey := reference.New(target.Namespace, target.Spec.DataSourceRef.Name)
	if err := e.client.Get(ctx, populatorKey.NamespacedName(), populator); err != nil {
		if apierrors.IsNotFound(err) {
			logger.V(1).Info("Volume populator not found", "populator", populatorKey.String())
			return nil
		}
		return fmt.Errorf("could not get volume populator %s: %w", populatorKey, err)
	}
	if e.paused(populator) {
		logger.V(1).Info("Reconciliation paused", "populator", populatorKey.String())
		return nil
	}

	initial := populator.Status.Status.OrUninitialized()
	populator.Status.Status = initial

	if initial != v1alpha1.StateUninitialized && populator.Status.BoundPVC != key.Reference() {
		logger.V(1).Info("Volume populator is bound to another PVC", "boundPVC", populator.Status.BoundPVC)
		return nil
	}

	if initial == v1alpha1.StateFinished {
		logger.V(1).Info("Reconciling finished pvc")
	} else {
		logger.Info("Reconciling pvc", "status", initial)
	}

	req := &actions.Request{Target: target, Populator: populator}
	var result *action.Result
	for _, a := range e.actions {
		a.InjectClient(e.client)
		a.InjectRecorder(e.recorder)
		a.InjectLogger(logger.WithName(a.Name()))

		if !a.CanHandle(ctx, req) {
			continue
		}
		result = a.Handle(ctx, req)
		if !action.IsContinue(result) {
			break
		}
	}

	if action.IsError(result) {
		return result.Err
	}

	if current := populator.Status.Status; current != initial {
		metrics.StatusTransitions.WithLabelValues(string(initial), string(current)).Inc()
		e.event(populator, constants.ReasonStateChange, fmt.Sprintf("Reconcile status changed %s->%s", initial, current))
		logger.Info("Reconcile status changed", "from", initial, "to", current)
	}

	if action.IsRequeue(result) {
		e.SubmitPVC(key)
	}
	return nil
}

// ReconcilePopulator resets a populator whose target claim disappeared, or looks up a claim
// waiting for an uninitialized populator.
func (e *Engine) ReconcilePopulator(ctx context.Context, key reference.Key) error {
	logger := log.FromContext(ctx).WithValues("populator", key.String())

	populator := &v1alpha1.ResticVolumePopulator{}
	if err := e.client.Get(ctx, key.NamespacedName(), populator); err != nil {
		if apierrors.IsNotFound(err) {
			logger.Info("Volume populator not found")
			return nil
		}
		return fmt.Errorf("could not get volume populator %s: %w", key, err)
	}
	if e.paused(populator) {
		logger.V(1).Info("Reconciliation paused")
		return nil
	}

	if status := populator.Status.Status.OrUninitialized(); status != v1alpha1.StateUninitialized {
		found, err := e.boundPVCExists(ctx, populator.Status.BoundPVC)
		if err != nil || found {
			return err
		}

		logger.Info("PVC was removed for volume populator", "boundPVC", populator.Status.BoundPVC, "status", status)
		logger.V(1).Info("Previous status for volume populator", "previous", populator.Status)

		lost := populator.Status.BoundPVC
		populator.Status = v1alpha1.ResticVolumePopulatorStatus{Status: v1alpha1.StateUninitialized}
		if err := e.client.Status().Update(ctx, populator); err != nil {
			return fmt.Errorf("could not reset volume populator %s: %w", key, err)
		}
		metrics.StatusTransitions.WithLabelValues(string(status), string(v1alpha1.StateUninitialized)).Inc()
		e.event(populator, constants.ReasonProvision, fmt.Sprintf("Target PVC %s lost in status %s", lost, status))
		return nil
	}

	claims := &corev1.PersistentVolumeClaimList{}
	if err := e.cache.List(ctx, claims); err != nil {
		return fmt.Errorf("could not list pvcs: %w", err)
	}
	var matches []reference.Key
	for i := range claims.Items {
		pvc := &claims.Items[i]
		if reference.IsPopulatorClaim(pvc) && reference.PopulatorKey(pvc) == key {
			matches = append(matches, reference.FromObject(pvc))
		}
	}
	if len(matches) == 0 {
		return nil
	}
	slices.SortFunc(matches, func(a, b reference.Key) int {
		return cmp.Compare(a.Reference(), b.Reference())
	})
	e.SubmitPVC(matches[0])
	return nil
}

func (e *Engine) boundPVCExists(ctx context.Context, ref string) (bool, error) {
	key, err := reference.Parse(ref)
	if err != nil {
		return false, nil
	}
	if _, err := kubernetes.GetPVC(ctx, e.client, key.Namespace, key.Name); err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("could not get pvc %s: %w", key, err)
	}
	return true, nil
}

func (e *Engine) paused(populator *v1alpha1.ResticVolumePopulator) bool {
	return !e.pause.Generic(event.GenericEvent{Object: populator})
}

func (e *Engine) event(populator *v1alpha1.ResticVolumePopulator, reason, note string) {
	if e.recorder == nil {
		return
	}
	e.recorder.Eventf(populator, nil, corev1.EventTypeNormal, reason, constants.ActionProvision, "%s", note)
}
