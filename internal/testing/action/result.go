package action

import (
	"github.com/ansarhun/restic-volume-populator/internal/action"
	"github.com/go-logr/logr"
	"k8s.io/client-go/tools/events"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
)

func Continue() *action.Result {
	return nil
}

func StatusUpdate() *action.Result {
	return &action.Result{Result: reconcile.Result{Requeue: false}}
}

func Error(err error) *action.Result {
	return &action.Result{
		Result: reconcile.Result{},
		Err:    err,
	}
}

func Return() *action.Result {
	return &action.Result{
		Result: reconcile.Result{Requeue: false},
		Err:    nil,
	}
}

func Requeue() *action.Result {
	return &action.Result{
		Result: reconcile.Result{Requeue: true},
		Err:    nil,
	}
}

// PrepareAction injects a client, a discarding logger and the recorder into the action. A nil
// recorder is replaced by a buffered fake one.
func PrepareAction[T any](c client.Client, recorder events.EventRecorder, a action.Action[T]) action.Action[T] {
	if recorder == nil {
		recorder = events.NewFakeRecorder(100)
	}
	a.InjectClient(c)
	a.InjectLogger(logr.Discard())
	a.InjectRecorder(recorder)
	return a
}

// Events drains the events recorded so far.
func Events(recorder *events.FakeRecorder) []string {
	var out []string
	for {
		select {
		case e := <-recorder.Events:
			out = append(out, e)
		default:
			return out
		}
	}
}
