package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const DefaultSnapshot = "latest"

// ResticVolumePopulatorSpec defines the restic repository and snapshot a claim is populated from.
type ResticVolumePopulatorSpec struct {
	// Name of the secret in the populator's namespace. Every key is exposed to restic as an
	// environment variable (RESTIC_REPOSITORY, RESTIC_PASSWORD, AWS_ACCESS_KEY_ID, ...).
	//+required
	//+kubebuilder:validation:MinLength=1
	SecretName string `json:"secretName"`

	// Hostname of the restore pod. restic selects snapshots by the host that produced them.
	//+required
	//+kubebuilder:validation:MinLength=1
	Hostname string `json:"hostname"`

	// Snapshot ID to restore.
	//+kubebuilder:default:="latest"
	//+optional
	Snapshot string `json:"snapshot,omitempty"`

	// Treat an empty or missing repository as an empty volume instead of a failure.
	//+kubebuilder:default:=false
	//+optional
	AllowUninitializedRepository bool `json:"allowUninitializedRepository,omitempty"`

	// Image used by the restore pod. Unset fields fall back to the controller's restic image.
	//+optional
	Image Image `json:"image,omitempty"`
}

// Image of the restic container.
type Image struct {
	//+optional
	Repository string `json:"repository,omitempty"`
	//+optional
	Tag string `json:"tag,omitempty"`
}

// ResticVolumePopulatorStatus is owned by the controller. It is the only state the controller
// relies on across restarts.
type ResticVolumePopulatorStatus struct {
	//+kubebuilder:default:="UNINITIALIZED"
	//+optional
	Status PopulatorState `json:"status,omitempty"`

	// Reference (namespace/name) of the claim being populated.
	//+optional
	BoundPVC string `json:"boundPVC,omitempty"`

	// Reference (namespace/name) of the restore pod.
	//+optional
	PrimePod string `json:"primePod,omitempty"`

	// Reference (namespace/name) of the temporary claim the restore pod writes into.
	//+optional
	PrimePvc string `json:"primePvc,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:printcolumn:name="Status",type=string,JSONPath=`.status.status`
//+kubebuilder:printcolumn:name="Bound PVC",type=string,JSONPath=`.status.boundPVC`
//+kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// ResticVolumePopulator is the Schema for the resticvolumepopulators API
type ResticVolumePopulator struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ResticVolumePopulatorSpec   `json:"spec,omitempty"`
	Status ResticVolumePopulatorStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// ResticVolumePopulatorList contains a list of ResticVolumePopulator
type ResticVolumePopulatorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ResticVolumePopulator `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ResticVolumePopulator{}, &ResticVolumePopulatorList{})
}

// GetSnapshot returns the snapshot to restore, falling back to DefaultSnapshot.
func (in *ResticVolumePopulatorSpec) GetSnapshot() string {
	if in.Snapshot == "" {
		return DefaultSnapshot
	}
	return in.Snapshot
}

// GetImage returns the image repository and tag with defaults applied.
func (in *ResticVolumePopulatorSpec) GetImage(defaultRepository, defaultTag string) (string, string) {
	repository, tag := in.Image.Repository, in.Image.Tag
	if repository == "" {
		repository = defaultRepository
	}
	if tag == "" {
		tag = defaultTag
	}
	return repository, tag
}
