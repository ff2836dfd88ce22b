/*
Copyright 2023.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"crypto/tls"
	"errors"
	"flag"
	"os"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	rvpclient "github.com/ansarhun/restic-volume-populator/client"
	"github.com/ansarhun/restic-volume-populator/internal/constants"
	"github.com/ansarhun/restic-volume-populator/internal/controller/populator"
	"github.com/ansarhun/restic-volume-populator/internal/crd"
	"github.com/ansarhun/restic-volume-populator/internal/events"
	"github.com/ansarhun/restic-volume-populator/internal/images"
	"github.com/ansarhun/restic-volume-populator/internal/labels"
	"github.com/ansarhun/restic-volume-populator/internal/resync"
	"github.com/ansarhun/restic-volume-populator/internal/utils"
	"github.com/ansarhun/restic-volume-populator/internal/version"
	"github.com/ansarhun/restic-volume-populator/internal/worker"
	"go.uber.org/zap/zapcore"
	corev1 "k8s.io/api/core/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	k8slabels "k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	clientevents "k8s.io/client-go/tools/events"
	"k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	// to ensure that exec-entrypoint and run can make use of them.
	_ "k8s.io/client-go/plugin/pkg/client/auth"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(apiextensionsv1.AddToScheme(scheme))
	utilruntime.Must(v1alpha1.AddToScheme(scheme))
}

func main() {
	var (
		metricsAddr    string
		probeAddr      string
		secureMetrics  bool
		enableHTTP2    bool
		controllerName string
		bootstrapCRDs  bool
		resyncSchedule string
	)

	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metric endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&secureMetrics, "metrics-secure", false,
		"If set the metrics endpoint is served securely")
	flag.BoolVar(&enableHTTP2, "enable-http2", false,
		"If set, HTTP/2 will be enabled for the metrics server")
	utils.StringFlagOrEnv(&controllerName, "controller-name", "CONTROLLER_NAME", constants.AppName, "The name reported as the source of cluster events.")
	utils.BoolFlagOrEnv(&bootstrapCRDs, "bootstrap-crds", "BOOTSTRAP_CRDS", false, "Create or update the ResticVolumePopulator CRD on startup.")
	utils.StringFlagOrEnv(&resyncSchedule, "resync-schedule", "RESYNC_SCHEDULE", resync.DefaultSchedule, "Cron schedule re-delivering populator claims.")
	utils.RelatedImageFlag("restic-image", images.Restic, "The image used by the restore pod when the populator does not set one.")

	opts := zap.Options{
		TimeEncoder: zapcore.RFC3339TimeEncoder,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	logger := zap.New(zap.UseFlagOptions(&opts))
	ctrl.SetLogger(logger)
	klog.SetLogger(logger.WithName("client-go"))

	ctx := ctrl.SetupSignalHandler()

	// if the enable-http2 flag is false (the default), http/2 should be disabled
	// due to its vulnerabilities.
	disableHTTP2 := func(c *tls.Config) {
		setupLog.Info("disabling http/2")
		c.NextProtos = []string{"http/1.1"}
	}
	tlsOpts := []func(*tls.Config){}
	if !enableHTTP2 {
		tlsOpts = append(tlsOpts, disableHTTP2)
	}

	cfg := ctrl.GetConfigOrDie()
	mgr, err := ctrl.NewManager(cfg, ctrl.Options{
		Scheme: scheme,
		Metrics: metricsserver.Options{
			BindAddress:   metricsAddr,
			SecureServing: secureMetrics,
			TLSOpts:       tlsOpts,
		},
		HealthProbeBindAddress: probeAddr,
		Cache: cache.Options{
			ByObject: map[client.Object]cache.ByObject{
				// only prime pods are of interest
				&corev1.Pod{}: {Label: k8slabels.SelectorFromSet(labels.ManagedSelector())},
			},
		},
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	cli, err := rvpclient.NewClientWithScheme(cfg, scheme)
	if err != nil {
		setupLog.Error(err, "unable to create client")
		os.Exit(1)
	}

	if v, err := version.Check(cli.Discovery()); err != nil {
		if !errors.Is(err, version.ErrUnsupported) {
			setupLog.Error(err, "unable to check kubernetes version")
		} else {
			setupLog.Info("WARNING: volume populators are not supported by this cluster", "version", v.String(), "minimum", version.Minimum.String())
		}
	} else {
		setupLog.Info("kubernetes version", "version", v.String())
	}

	if bootstrapCRDs {
		if err := crd.Bootstrap(ctx, cli, setupLog.WithName("crd")); err != nil {
			setupLog.Error(err, "unable to bootstrap CRDs")
			os.Exit(1)
		}
	}

	broadcaster := clientevents.NewBroadcaster(&clientevents.EventSinkImpl{Interface: cli.EventsV1()})
	if err := broadcaster.StartRecordingToSinkWithContext(ctx); err != nil {
		setupLog.Error(err, "unable to start event broadcaster")
		os.Exit(1)
	}
	recorder := broadcaster.NewRecorder(scheme, controllerName)

	gate := worker.NewGate()
	executor := worker.NewExecutor(gate, ctrl.Log.WithName("worker"))

	engine, err := populator.New(populator.Options{
		Client:   cli,
		Cache:    mgr.GetCache(),
		Recorder: recorder,
		Logs:     cli,
		Executor: executor,
		Logger:   ctrl.Log.WithName("populator"),
	})
	if err != nil {
		setupLog.Error(err, "unable to create populator engine")
		os.Exit(1)
	}

	bus := events.NewBus()
	bus.Subscribe(engine.Route)
	if err := events.Register(ctx, mgr.GetCache(), bus, ctrl.Log.WithName("events")); err != nil {
		setupLog.Error(err, "unable to register informer handlers")
		os.Exit(1)
	}

	job, err := resync.New(resyncSchedule, mgr.GetCache(), bus, ctrl.Log.WithName("resync"))
	if err != nil {
		setupLog.Error(err, "invalid resync schedule")
		os.Exit(1)
	}

	for name, runnable := range map[string]manager.Runnable{
		"worker": executor,
		"gate":   manager.RunnableFunc(gate.OpenAfterSync(mgr.GetCache())),
		"resync": job,
	} {
		if err := mgr.Add(runnable); err != nil {
			setupLog.Error(err, "unable to add runnable", "runnable", name)
			os.Exit(1)
		}
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", gate.Checker); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager", "controller", controllerName)
	err = mgr.Start(ctx)
	broadcaster.Shutdown()
	if err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
