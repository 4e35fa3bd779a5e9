package rhi

import "fmt"

// SampleCount is the number of samples per pixel of a multisampled target.
type SampleCount uint8

// Sample counts.
const (
	SampleCount1 SampleCount = iota
	SampleCount2
	SampleCount4
	SampleCount8
)

// Count returns the numeric sample count, or ErrUnknownSampleCount.
func (s SampleCount) Count() (uint32, error) {
	switch s {
	case SampleCount1:
		return 1, nil
	case SampleCount2:
		return 2, nil
	case SampleCount4:
		return 4, nil
	case SampleCount8:
		return 8, nil
	default:
		return 0, ErrUnknownSampleCount
	}
}

func (s SampleCount) String() string {
	n, err := s.Count()
	if err != nil {
		return fmt.Sprintf("SampleCount(%d)", uint8(s))
	}
	return fmt.Sprintf("SampleCount%d", n)
}

// GetSampleCount returns the numeric sample count. It panics on a value
// outside the enum; use SampleCount.Count to get an error instead.
func GetSampleCount(s SampleCount) uint32 {
	n, err := s.Count()
	if err != nil {
		panic(fmt.Sprintf("%v: %d", err, uint8(s)))
	}
	return n
}

// SampleCountFromInt converts a numeric sample count back to the enum.
func SampleCountFromInt(n uint32) (SampleCount, error) {
	switch n {
	case 1:
		return SampleCount1, nil
	case 2:
		return SampleCount2, nil
	case 4:
		return SampleCount4, nil
	case 8:
		return SampleCount8, nil
	default:
		return 0, ErrUnknownSampleCount
	}
}
