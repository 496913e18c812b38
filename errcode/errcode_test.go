package errcode

import (
	"errors"
	"testing"
)

func TestOfAndCategories(t *testing.T) {
	cases := map[string]struct {
		err      error
		code     Code
		config   bool
		hardware bool
	}{
		"nil":      {nil, OK, false, false},
		"bare":     {VCOOutOfRange, VCOOutOfRange, true, false},
		"wrapped":  {New(CeilingExceeded, "validate", "hclk 300MHz > 240MHz"), CeilingExceeded, true, false},
		"timeout":  {New(HardwareTimeout, "bringup", "PLL1RDY"), HardwareTimeout, false, true},
		"foreign":  {errors.New("boom"), Error, false, false},
		"flashtop": {FlashTierExceeded, FlashTierExceeded, true, false},
	}
	for name, c := range cases {
		if got := Of(c.err); got != c.code {
			t.Fatalf("%s: Of = %q, want %q", name, got, c.code)
		}
		if got := IsFatalConfig(c.err); got != c.config {
			t.Fatalf("%s: IsFatalConfig = %v, want %v", name, got, c.config)
		}
		if got := IsHardware(c.err); got != c.hardware {
			t.Fatalf("%s: IsHardware = %v, want %v", name, got, c.hardware)
		}
	}
}

func TestErrorStringAndIs(t *testing.T) {
	e := New(RefOutOfRange, "pll1", "ref 20MHz")
	if got, want := e.Error(), "pll1: ref_out_of_range: ref 20MHz"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(e, RefOutOfRange) {
		t.Fatal("errors.Is should match the code")
	}
	if errors.Is(e, VCOOutOfRange) {
		t.Fatal("errors.Is matched the wrong code")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(InvalidConfig, "load", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
	cause := errors.New("yaml: line 3")
	err := Wrap(InvalidConfig, "load", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if Of(err) != InvalidConfig {
		t.Fatalf("Of = %q", Of(err))
	}
}
