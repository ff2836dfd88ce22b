package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/action"
	"github.com/ansarhun/restic-volume-populator/internal/constants"
	"github.com/ansarhun/restic-volume-populator/internal/controller/populator/utils"
	"github.com/ansarhun/restic-volume-populator/internal/metrics"
	"github.com/ansarhun/restic-volume-populator/internal/utils/kubernetes"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	ReasonCompleted = "Completed"
	ReasonError     = "Error"

	// UninitializedRepositoryMessage is printed by restic when the repository does not exist yet.
	UninitializedRepositoryMessage = "Is there a repository at the following location?"
)

func NewRebindAction(logs LogReader) action.Action[*Request] {
	return &rebindAction{logs: logs}
}

type rebindAction struct {
	action.BaseAction
	logs LogReader
}

func (i rebindAction) Name() string {
	return "rebind"
}

func (i rebindAction) CanHandle(_ context.Context, req *Request) bool {
	return inState(req, v1alpha1.StateProvisioning)
}

func (i rebindAction) Handle(ctx context.Context, req *Request) *action.Result {
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
	if !podFound || !pvcFound {
		return i.Return()
	}

	terminated := kubernetes.FirstContainerTerminated(pod)
	if terminated == nil {
		return i.Return()
	}

	podLog := i.readLog(ctx, pod)
	i.Event(req.Populator, constants.ReasonProvision, fmt.Sprintf("Prime Pod finished (%d)\n%s", terminated.ExitCode, podLog))
	i.Logger.V(1).Info("Prime pod finished", "reason", terminated.Reason, "exitCode", terminated.ExitCode, "log", podLog)

	if !accepted(terminated, podLog, req.Populator.Spec.AllowUninitializedRepository) {
		i.Logger.Info("Prime pod did not succeed, waiting for manual intervention", "reason", terminated.Reason, "exitCode", terminated.ExitCode)
		return i.Return()
	}

	if pvc.Spec.VolumeName == "" {
		return i.Return()
	}
	pv := &corev1.PersistentVolume{}
	if err := i.Client.Get(ctx, client.ObjectKey{Name: pvc.Spec.VolumeName}, pv); err != nil {
		if apierrors.IsNotFound(err) {
			return i.Return()
		}
		return i.Error(ctx, fmt.Errorf("could not get persistent volume %s: %w", pvc.Spec.VolumeName, err))
	}

	if !claimRefMatches(pv.Spec.ClaimRef, req.Target) {
		patch, err := ClaimRefPatch(req.Target)
		if err != nil {
			return i.Error(ctx, err)
		}
		if err := i.Client.Patch(ctx, pv, client.RawPatch(types.StrategicMergePatchType, patch)); err != nil {
			return i.Error(ctx, fmt.Errorf("could not rebind persistent volume %s: %w", pv.Name, err))
		}
		metrics.PersistentVolumeRebinds.Inc()
		i.Logger.Info("Persistent volume rebound", "volume", pv.Name, "claim", req.Target.Name)
		i.Event(req.Populator, constants.ReasonProvision, "PV rebind complete")
	}

	req.Populator.Status.Status = v1alpha1.StateCleanup
	return i.StatusUpdate(ctx, req.Populator)
}

func (i rebindAction) readLog(ctx context.Context, pod *corev1.Pod) string {
	if i.logs == nil {
		return ""
	}
	podLog, err := i.logs.PodLogs(ctx, pod.Namespace, pod.Name, utils.ContainerName)
	if err != nil {
		i.Logger.Error(err, "could not read prime pod log", "pod", pod.Name)
		return ""
	}
	return podLog
}

// accepted decides whether a terminated restore may be spliced into the target claim. Reasons
// other than Completed and Error leave the populator pending.
func accepted(terminated *corev1.ContainerStateTerminated, podLog string, allowUninitialized bool) bool {
	switch terminated.Reason {
	case ReasonCompleted:
		return true
	case ReasonError:
		return allowUninitialized && strings.Contains(podLog, UninitializedRepositoryMessage)
	default:
		return false
	}
}

func claimRefMatches(ref *corev1.ObjectReference, target *corev1.PersistentVolumeClaim) bool {
	return ref != nil &&
		ref.Name == target.Name &&
		ref.Namespace == target.Namespace &&
		ref.UID == target.UID
}

// ClaimRefPatch is a strategic merge patch pointing a volume at the target claim. It touches
// nothing but spec.claimRef.
func ClaimRefPatch(target *corev1.PersistentVolumeClaim) ([]byte, error) {
	patch := map[string]any{
		"spec": map[string]any{
			"claimRef": map[string]any{
				"name":            target.Name,
				"namespace":       target.Namespace,
				"uid":             target.UID,
				"resourceVersion": target.ResourceVersion,
			},
		},
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("could not encode claimRef patch: %w", err)
	}
	return data, nil
}
