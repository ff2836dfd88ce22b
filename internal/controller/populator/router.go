package populator

import (
	"fmt"

	"github.com/ansarhun/restic-volume-populator/internal/events"
	"github.com/ansarhun/restic-volume-populator/internal/reference"
)

// Route turns a notification into reconcile work. It never touches the cluster and is safe to
// call from informer goroutines.
func (e *Engine) Route(ev events.Event) {
	switch ev := ev.(type) {
	case events.PopulatorAdded:
		e.SubmitPopulator(reference.FromObject(ev.Populator))

	case events.PvcAdded:
		if reference.IsPopulatorClaim(ev.PVC) {
			e.SubmitPVC(reference.FromObject(ev.PVC))
		}

	case events.PvcUpdated:
		if owner, ok := reference.OwnerOf(ev.New); ok {
			e.SubmitPVC(owner)
		} else if reference.IsPopulatorClaim(ev.New) {
			e.SubmitPVC(reference.FromObject(ev.New))
		}

	case events.PvcRemoved:
		if reference.IsPopulatorClaim(ev.PVC) {
			e.SubmitPopulator(reference.PopulatorKey(ev.PVC))
		}

	case events.PodAdded:
		if owner, ok := reference.OwnerOf(ev.Pod); ok {
			e.SubmitPVC(owner)
		}

	case events.PodUpdated:
		if owner, ok := reference.OwnerOf(ev.New); ok {
			e.SubmitPVC(owner)
		}

	default:
		e.logger.Error(fmt.Errorf("unexpected event %T", ev), "dropping event")
	}
}
