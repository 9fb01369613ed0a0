package frame

// Phase is a category of externally driven per-frame callback. Each phase
// has its own try-lock guard in the Driver.
type Phase uint8

const (
	PhasePreUpdate Phase = iota
	PhaseUpdate
	PhaseFixedUpdate
	PhaseContactBegin
	PhaseContactEnd

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhaseFixedUpdate:
		return "fixed-update"
	case PhaseContactBegin:
		return "contact-begin"
	case PhaseContactEnd:
		return "contact-end"
	default:
		return "unknown"
	}
}
