package process

import "fmt"

// PriorityLevel is the platform-neutral scheduling priority of a process.
// It maps to a priority class on Windows and to a nice value on POSIX
// systems (see NativePriority / PriorityFromNative).
type PriorityLevel int

const (
	PriorityIdle PriorityLevel = iota
	PriorityBelowNormal
	PriorityNormal
	PriorityAboveNormal
	PriorityHigh
	PriorityRealTime
)

func (l PriorityLevel) String() string {
	switch l {
	case PriorityIdle:
		return "idle"
	case PriorityBelowNormal:
		return "below-normal"
	case PriorityNormal:
		return "normal"
	case PriorityAboveNormal:
		return "above-normal"
	case PriorityHigh:
		return "high"
	case PriorityRealTime:
		return "real-time"
	default:
		return fmt.Sprintf("priority(%d)", int(l))
	}
}

// Levels returns all recognized priority levels, lowest first.
func Levels() []PriorityLevel {
	return []PriorityLevel{
		PriorityIdle,
		PriorityBelowNormal,
		PriorityNormal,
		PriorityAboveNormal,
		PriorityHigh,
		PriorityRealTime,
	}
}

func (l PriorityLevel) valid() bool {
	return l >= PriorityIdle && l <= PriorityRealTime
}

func checkPriorityLevel(level PriorityLevel) error {
	if !level.valid() {
		return fmt.Errorf("%d is not a recognized priority level: %w", int(level), ErrInvalidArgument)
	}
	return nil
}
