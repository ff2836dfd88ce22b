package action

import (
	"context"
	"fmt"

	"github.com/ansarhun/restic-volume-populator/internal/constants"
	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/events"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
)

// maxNoteLength is the events.k8s.io/v1 limit for Event.note.
const maxNoteLength = 1024

type BaseAction struct {
	Client   client.Client
	Recorder events.EventRecorder
	Logger   logr.Logger
}

func (action *BaseAction) InjectClient(client client.Client) {
	action.Client = client
}

func (action *BaseAction) InjectRecorder(recorder events.EventRecorder) {
	action.Recorder = recorder
}

func (action *BaseAction) InjectLogger(logger logr.Logger) {
	action.Logger = logger
}

func (action *BaseAction) Continue() *Result {
	return nil
}

// StatusUpdate writes the status of obj as it is. A conflicting write fails; the next
// notification re-derives the state.
func (action *BaseAction) StatusUpdate(ctx context.Context, obj client.Object) *Result {
	if err := action.Client.Status().Update(ctx, obj); err != nil {
		return action.Error(ctx, fmt.Errorf("could not update status of %s: %w", client.ObjectKeyFromObject(obj), err))
	}
	return &Result{Result: reconcile.Result{Requeue: false}}
}

func (action *BaseAction) Error(_ context.Context, err error) *Result {
	action.Logger.Error(err, "error during action execution")
	return &Result{
		Err: err,
	}
}

func (action *BaseAction) Return() *Result {
	return &Result{
		Result: reconcile.Result{Requeue: false},
		Err:    nil,
	}
}

// Requeue asks the caller to submit the same reconcile again.
func (action *BaseAction) Requeue() *Result {
	return &Result{
		Result: reconcile.Result{Requeue: true},
		Err:    nil,
	}
}

// Event records a Normal "provision" event regarding obj. Recording is asynchronous and never
// fails the action.
func (action *BaseAction) Event(regarding runtime.Object, reason, note string) {
	if action.Recorder == nil {
		return
	}
	action.Recorder.Eventf(regarding, nil, corev1.EventTypeNormal, reason, constants.ActionProvision, "%s", truncate(note))
}

func truncate(note string) string {
	if len(note) <= maxNoteLength {
		return note
	}
	const marker = "\n..."
	return note[:maxNoteLength-len(marker)] + marker
}
