package actions

import (
	"context"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/action"
	"github.com/ansarhun/restic-volume-populator/internal/constants"
	"github.com/ansarhun/restic-volume-populator/internal/reference"
	corev1 "k8s.io/api/core/v1"
)

func NewInitializeAction() action.Action[*Request] {
	return &initializeAction{}
}

type initializeAction struct {
	action.BaseAction
}

func (i initializeAction) Name() string {
	return "initialize"
}

func (i initializeAction) CanHandle(_ context.Context, req *Request) bool {
	return inState(req, v1alpha1.StateUninitialized)
}

func (i initializeAction) Handle(ctx context.Context, req *Request) *action.Result {
	status := &req.Populator.Status
	status.BoundPVC = reference.FromObject(req.Target).Reference()

	if req.Target.Status.Phase == corev1.ClaimBound {
		status.Status = v1alpha1.StateFinished
		i.Event(req.Populator, constants.ReasonProvision, "PVC already provisioned "+req.Target.Name)
	} else {
		status.Status = v1alpha1.StateBound
	}

	if result := i.StatusUpdate(ctx, req.Populator); action.IsError(result) {
		return result
	}
	return i.Requeue()
}
