package actions

import (
	"context"
	"fmt"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/action"
	"github.com/ansarhun/restic-volume-populator/internal/constants"
	"github.com/ansarhun/restic-volume-populator/internal/controller/populator/utils"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

func NewCleanupAction(logs LogReader) action.Action[*Request] {
	return &cleanupAction{logs: logs}
}

type cleanupAction struct {
	action.BaseAction
	logs LogReader
}

func (i cleanupAction) Name() string {
	return "cleanup"
}

func (i cleanupAction) CanHandle(_ context.Context, req *Request) bool {
	return inState(req, v1alpha1.StateCleanup)
}

func (i cleanupAction) Handle(ctx context.Context, req *Request) *action.Result {
	pod := &corev1.Pod{}
	podFound, err := getReferenced(ctx, i.Client, req.Populator.Status.PrimePod, pod)
	if err != nil {
		return i.Error(ctx, err)
	}
	pvc := &corev1.PersistentVolumeClaim{}
	pvcFound, err := getReferenced(ctx, i.Client, req.Populator.Status.PrimePvc, pvc)
	if err != nil {
		return i.Error(ctx, err)
	}

	// the prime claim turns Lost once its volume is bound to the target
	if pvcFound && pvc.Status.Phase != corev1.ClaimLost {
		return i.Return()
	}

	if podFound {
		if i.logs != nil {
			if podLog, err := i.logs.PodLogs(ctx, pod.Namespace, pod.Name, utils.ContainerName); err != nil {
				i.Logger.V(1).Info("could not read prime pod log", "pod", pod.Name, "error", err.Error())
			} else {
				i.Logger.V(1).Info("Removing prime pod", "pod", pod.Name, "log", podLog)
			}
		}
		if err := i.Client.Delete(ctx, pod); client.IgnoreNotFound(err) != nil {
			return i.Error(ctx, fmt.Errorf("could not delete prime pod: %w", err))
		}
		i.Event(req.Populator, constants.ReasonProvision, "Prime Pod removed")
	}

	if pvcFound {
		if err := i.Client.Delete(ctx, pvc); client.IgnoreNotFound(err) != nil {
			return i.Error(ctx, fmt.Errorf("could not delete prime PVC: %w", err))
		}
		i.Event(req.Populator, constants.ReasonProvision, "Prime PVC removed")
	}

	status := &req.Populator.Status
	status.Status = v1alpha1.StateFinished
	status.PrimePod = ""
	status.PrimePvc = ""
	return i.StatusUpdate(ctx, req.Populator)
}
