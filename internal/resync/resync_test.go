package resync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ansarhun/restic-volume-populator/api/v1alpha1"
	"github.com/ansarhun/restic-volume-populator/internal/annotations"
	"github.com/ansarhun/restic-volume-populator/internal/events"
	testkube "github.com/ansarhun/restic-volume-populator/internal/testing/kubernetes"
	"github.com/go-logr/logr"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.(events.PvcUpdated).New.Name)
	}
	return out
}

func claims() []*corev1.PersistentVolumeClaim {
	return []*corev1.PersistentVolumeClaim{
		{
			ObjectMeta: metav1.ObjectMeta{Name: "data", Namespace: "default"},
			Spec: corev1.PersistentVolumeClaimSpec{DataSourceRef: &corev1.TypedObjectReference{
				APIGroup: ptr.To(v1alpha1.GroupVersion.Group),
				Kind:     v1alpha1.Kind,
				Name:     "test-populator",
			}},
		},
		{
			ObjectMeta: metav1.ObjectMeta{Name: "prime-data", Namespace: "default", Annotations: map[string]string{
				annotations.Owner: "default/data",
			}},
		},
		{
			ObjectMeta: metav1.ObjectMeta{Name: "snapshot", Namespace: "default"},
			Spec: corev1.PersistentVolumeClaimSpec{DataSourceRef: &corev1.TypedObjectReference{
				APIGroup: ptr.To("snapshot.storage.k8s.io"),
				Kind:     "VolumeSnapshot",
				Name:     "snap",
			}},
		},
		{
			ObjectMeta: metav1.ObjectMeta{Name: "plain", Namespace: "other"},
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{schedule: DefaultSchedule},
		{schedule: "*/5 * * * *"},
		{schedule: "@hourly"},
		{schedule: "every minute", wantErr: true},
		{schedule: "* * *", wantErr: true},
		{schedule: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			g := NewWithT(t)
			_, err := New(tt.schedule, nil, nil, logr.Discard())
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
			} else {
				g.Expect(err).ToNot(HaveOccurred())
			}
		})
	}
}

func TestRun(t *testing.T) {
	g := NewWithT(t)
	builder := testkube.FakeClientBuilder()
	for _, pvc := range claims() {
		builder = builder.WithObjects(pvc)
	}
	publisher := &recorder{}

	job, err := New(DefaultSchedule, builder.Build(), publisher, logr.Discard())
	g.Expect(err).ToNot(HaveOccurred())

	count, err := job.Run(context.TODO())
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(count).To(Equal(2))
	g.Expect(publisher.names()).To(ConsistOf("data", "prime-data"))
}

func TestStart(t *testing.T) {
	g := NewWithT(t)
	publisher := &recorder{}
	c := testkube.FakeClientBuilder().WithObjects(claims()[0]).Build()

	job, err := New("@every 1s", c, publisher, logr.Discard())
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(job.NeedLeaderElection()).To(BeFalse())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- job.Start(ctx) }()

	g.Eventually(publisher.names, 3*time.Second).ShouldNot(BeEmpty())
	cancel()
	g.Eventually(done).Should(Receive(BeNil()))
}
