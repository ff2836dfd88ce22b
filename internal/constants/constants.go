package constants

const (
	AppName = "restic-volume-populator"

	// Event reasons.
	ReasonStateChange = "StateChange"
	ReasonProvision   = "Provision"

	// Event action.
	ActionProvision = "provision"

	PrimePrefix = "prime-"
)
