package actions

import (
	"context"
	"fmt"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/action"
	"github.com/ansarhun/restic-volume-populator/internal/constants"
	"github.com/ansarhun/restic-volume-populator/internal/controller/populator/utils"
	"github.com/ansarhun/restic-volume-populator/internal/images"
	"github.com/ansarhun/restic-volume-populator/internal/reference"
	"github.com/ansarhun/restic-volume-populator/internal/utils/kubernetes"
)

func NewProvisionAction() action.Action[*Request] {
	return &provisionAction{}
}

type provisionAction struct {
	action.BaseAction
}

func (i provisionAction) Name() string {
	return "provision"
}

func (i provisionAction) CanHandle(_ context.Context, req *Request) bool {
	return inState(req, v1alpha1.StateBound)
}

func (i provisionAction) Handle(ctx context.Context, req *Request) *action.Result {
	defaultRepository, defaultTag, err := images.Split(images.Registry.Get(images.Restic))
	if err != nil {
		return i.Error(ctx, err)
	}
	repository, tag := req.Populator.Spec.GetImage(defaultRepository, defaultTag)
	image := repository + ":" + tag

	pvc := utils.NewPrimePVC(req.Target)
	result, err := kubernetes.CreateOrUpdate(ctx, i.Client, pvc, utils.EnsurePrimePVC(req.Target)...)
	if err != nil {
		return i.Error(ctx, fmt.Errorf("could not create prime PVC: %w", err))
	}
	i.Logger.V(1).Info("Prime PVC applied", "name", pvc.Name, "result", result)
	i.Event(req.Populator, constants.ReasonProvision, "Prime PVC created "+pvc.Name)

	pod := utils.NewPrimePod(req.Target)
	result, err = kubernetes.CreateOrUpdate(ctx, i.Client, pod, utils.EnsurePrimePod(req.Target, req.Populator, image)...)
	if err != nil {
		return i.Error(ctx, fmt.Errorf("could not create prime pod: %w", err))
	}
	i.Logger.V(1).Info("Prime pod applied", "name", pod.Name, "image", image, "result", result)
	i.Event(req.Populator, constants.ReasonProvision, "Prime Pod created "+pod.Name)

	status := &req.Populator.Status
	status.Status = v1alpha1.StateProvisioning
	status.PrimePod = reference.FromObject(pod).Reference()
	status.PrimePvc = reference.FromObject(pvc).Reference()
	return i.StatusUpdate(ctx, req.Populator)
}
