package errcode

// Code is a stable, report-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"

	// Clock tree configuration.
	InvalidSource        Code = "invalid_source"
	SourceDisabled       Code = "source_disabled"
	RefOutOfRange        Code = "ref_out_of_range"
	VCOOutOfRange        Code = "vco_out_of_range"
	PLLDivInvalid        Code = "pll_div_invalid"
	PLLSourceMismatch    Code = "pll_source_mismatch"
	CeilingExceeded      Code = "ceiling_exceeded"
	FlashTierExceeded    Code = "flash_tier_exceeded"
	UnsupportedScale     Code = "unsupported_scale"
	MuxSourceUnavailable Code = "mux_source_unavailable"
	UnknownMux           Code = "unknown_mux"
	EmptyCandidates      Code = "empty_candidates"

	// Board/config loading.
	UnknownBoard  Code = "unknown_board"
	UnknownFamily Code = "unknown_family"
	InvalidConfig Code = "invalid_config"

	// Hardware.
	HardwareTimeout Code = "hardware_timeout"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, SomeCode) match a wrapped *E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// New builds an *E.
func New(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

// Wrap builds an *E around a cause. A nil cause yields nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Msg: err.Error(), Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// IsHardware reports whether err is a hardware fault (a ready bit that never
// asserted). Everything else returned by the clock core is a fatal
// configuration error.
func IsHardware(err error) bool {
	return Of(err) == HardwareTimeout
}

// IsFatalConfig reports whether err is a configuration error. Bring-up must
// not continue past one of these.
func IsFatalConfig(err error) bool {
	switch Of(err) {
	case OK, HardwareTimeout, Error:
		return false
	}
	return true
}
