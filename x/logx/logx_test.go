//go:build !tinygo

package logx

import (
	"bytes"
	"errors"
	"testing"
)

type hz uint64

func (h hz) String() string { return "64MHz" }

func TestLevelsAndFormatting(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelInfo)
	t.Cleanup(func() { SetLevel(LevelInfo) })

	Debug("hidden")
	Info("flash", "latency", uint8(2), "wrhighfreq", uint8(1), "hclk", hz(0), "err", errors.New("x"), "ok", true)
	want := "INFO flash latency=2 wrhighfreq=1 hclk=64MHz err=x ok=true\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	buf.Reset()
	SetLevel(LevelOff)
	Error("muted")
	if buf.Len() != 0 {
		t.Fatalf("LevelOff still logged %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]Level{"debug": LevelDebug, "warn": LevelWarn, "off": LevelOff} {
		if got, ok := ParseLevel(s); !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v,%v", s, got, ok)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatal("unknown level accepted")
	}
}
