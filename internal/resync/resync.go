// Package resync periodically re-delivers claims the controller cares about, so that a missed
// notification never leaves a populator stuck.
package resync

import (
	"context"
	"fmt"

	"github.com/ansarhun/restic-volume-populator/internal/events"
	"github.com/ansarhun/restic-volume-populator/internal/reference"
	"github.com/go-logr/logr"
	"github.com/robfig/cron/v3"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const DefaultSchedule = "@every 1m"

type Job struct {
	schedule  cron.Schedule
	cache     client.Reader
	publisher events.Publisher
	logger    logr.Logger
}

// New validates the cron schedule. PVCs are listed from the given reader, usually the manager
// cache.
func New(schedule string, cache client.Reader, publisher events.Publisher, logger logr.Logger) (*Job, error) {
	parsed, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("could not parse resync schedule %q: %w", schedule, err)
	}
	return &Job{
		schedule:  parsed,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}, nil
}

// Start runs the job until the context is cancelled.
func (j *Job) Start(ctx context.Context) error {
	c := cron.New(
		cron.WithLogger(j.logger),
		cron.WithChain(cron.Recover(j.logger), cron.SkipIfStillRunning(j.logger)),
	)
	c.Schedule(j.schedule, cron.FuncJob(func() {
		if _, err := j.Run(ctx); err != nil {
			j.logger.Error(err, "resync failed")
		}
	}))

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (j *Job) NeedLeaderElection() bool {
	return false
}

// Run publishes an update for every populator claim and every prime claim. It returns the
// number of published events.
func (j *Job) Run(ctx context.Context) (int, error) {
	claims := &corev1.PersistentVolumeClaimList{}
	if err := j.cache.List(ctx, claims); err != nil {
		return 0, fmt.Errorf("could not list pvcs: %w", err)
	}

	published := 0
	for i := range claims.Items {
		pvc := &claims.Items[i]
		if _, owned := reference.OwnerOf(pvc); !owned && !reference.IsPopulatorClaim(pvc) {
			continue
		}
		j.publisher.Publish(events.PvcUpdated{Old: pvc, New: pvc})
		published++
	}
	j.logger.V(1).Info("Resynced pvcs", "count", published)
	return published, nil
}
