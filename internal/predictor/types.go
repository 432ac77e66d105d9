package predictor

// State represents the lifecycle state of the predictor.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)
