package v1alpha1

// PopulatorState is the progress of a ResticVolumePopulator through the provisioning workflow.
// +kubebuilder:validation:Enum=UNINITIALIZED;BOUND;PROVISIONING;CLEANUP;FINISHED
type PopulatorState string

const (
	StateNone          PopulatorState = ""
	StateUninitialized PopulatorState = "UNINITIALIZED"
	StateBound         PopulatorState = "BOUND"
	StateProvisioning  PopulatorState = "PROVISIONING"
	StateCleanup       PopulatorState = "CLEANUP"
	StateFinished      PopulatorState = "FINISHED"
)

// OrUninitialized maps an unset state to StateUninitialized.
func (s PopulatorState) OrUninitialized() PopulatorState {
	if s == StateNone {
		return StateUninitialized
	}
	return s
}
