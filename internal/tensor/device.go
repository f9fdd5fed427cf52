package tensor

import "fmt"

// Device identifies the compute device a tensor lives on.
type Device int

// Known compute devices. Only CPU has an implementation in this release;
// requesting any other device fails the conversion up front.
const (
	CPU Device = iota
	CUDA
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case CUDA:
		return "cuda"
	default:
		return "unknown"
	}
}

// ParseDevice maps a device name ("cpu", "cuda") to its Device value.
func ParseDevice(name string) (Device, error) {
	switch name {
	case "cpu", "CPU":
		return CPU, nil
	case "cuda", "CUDA":
		return CUDA, nil
	default:
		return CPU, fmt.Errorf("unknown device %q", name)
	}
}
