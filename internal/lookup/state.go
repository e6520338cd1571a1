package lookup

// Phase is the lifecycle position of a view
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// State is the request state of one view instance. Records is set only when
// Phase is PhaseSucceeded, Err only when Phase is PhaseFailed.
type State struct {
	Phase      Phase    `json:"phase"`
	Generation uint64   `json:"generation"`
	Query      Query    `json:"query"`
	Records    []Record `json:"records,omitempty"`
	Err        *Error   `json:"error,omitempty"`
}

// IsEmpty reports whether the submission finished without records
func (s State) IsEmpty() bool {
	return s.Phase == PhaseFailed && s.Err != nil && s.Err.Kind == KindEmptyResult
}
