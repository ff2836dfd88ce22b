package action

import (
	"context"

	"github.com/go-logr/logr"
	"k8s.io/client-go/tools/events"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
)

type Result struct {
	Result reconcile.Result
	Err    error
}

type Action[T any] interface {
	InjectClient(client client.Client)
	InjectRecorder(recorder events.EventRecorder)
	InjectLogger(logger logr.Logger)

	// Name a user friendly name for the action
	Name() string

	// CanHandle returns true if the action can handle
	CanHandle(context.Context, T) bool

	// Handle executes the handling function
	Handle(context.Context, T) *Result
}
