package rcc

import "clockcode-go/errcode"

// Poller waits for a hardware acknowledgement. what names the bit for
// errors and logs.
type Poller interface {
	Until(what string, ready func() bool) error
}

// SpinPoller busy-polls with no bound. A clock that never becomes ready is
// a fatal fault, so hanging is the intended outcome.
type SpinPoller struct{}

func (SpinPoller) Until(_ string, ready func() bool) error {
	for !ready() {
	}
	return nil
}

// BoundedPoller gives up after Limit reads with errcode.HardwareTimeout.
type BoundedPoller struct {
	Limit int
}

func (b BoundedPoller) Until(what string, ready func() bool) error {
	for i := 0; i < b.Limit; i++ {
		if ready() {
			return nil
		}
	}
	return errcode.New(errcode.HardwareTimeout, "rcc", what)
}
