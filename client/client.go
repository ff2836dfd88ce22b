package client

import (
	"context"
	"io"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	controller "sigs.k8s.io/controller-runtime/pkg/client"
)

// Client is an abstraction for a k8s client.
type Client interface {
	controller.Client
	kubernetes.Interface
	GetConfig() *rest.Config

	// PodLogs returns the full log of a container. An empty container name selects the only container.
	PodLogs(ctx context.Context, namespace, name, container string) (string, error)
}

type defaultClient struct {
	controller.Client
	kubernetes.Interface
	config *rest.Config
}

func (c *defaultClient) GetConfig() *rest.Config {
	return c.config
}

func (c *defaultClient) PodLogs(ctx context.Context, namespace, name, container string) (string, error) {
	return PodLogs(ctx, c.Interface, namespace, name, container)
}

// NewClientWithScheme creates a k8s client that talks to the API server directly.
// Reads through it never hit the informer cache, so every action observes the latest state.
func NewClientWithScheme(cfg *rest.Config, scheme *runtime.Scheme) (Client, error) {
	var (
		clientset kubernetes.Interface
		err       error
	)
	if clientset, err = kubernetes.NewForConfig(cfg); err != nil {
		return nil, err
	}

	dynClient, err := controller.New(cfg, controller.Options{
		Scheme: scheme,
	})
	if err != nil {
		return nil, err
	}

	return &defaultClient{
		Client:    dynClient,
		Interface: clientset,
		config:    cfg,
	}, nil
}

// Wrap combines an existing controller-runtime client and clientset, mainly for tests.
func Wrap(c controller.Client, clientset kubernetes.Interface) Client {
	return &defaultClient{
		Client:    c,
		Interface: clientset,
	}
}

func PodLogs(ctx context.Context, clientset kubernetes.Interface, namespace, name, container string) (string, error) {
	req := clientset.CoreV1().Pods(namespace).GetLogs(name, &corev1.PodLogOptions{
		Container: container,
		Follow:    false,
	})
	podLogs, err := req.Stream(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = podLogs.Close()
	}()
	bodyBytes, err := io.ReadAll(podLogs)
	if err != nil {
		return "", err
	}

	return string(bodyBytes), nil
}
