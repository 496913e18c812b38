package main

import (
	"testing"

	"clockcode-go/rcc"
)

func TestBoardTopologiesBringUp(t *testing.T) {
	for _, fam := range rcc.Families() {
		topo := boardTopology(fam)
		want, err := rcc.Validate(fam, topo)
		if err != nil {
			t.Fatalf("%s: %v", fam.Traits().Name, err)
		}
		got, err := rcc.Bringup(fam, topo, newBus(fam, topo), rcc.Options{Poller: rcc.BoundedPoller{Limit: 16}})
		if err != nil {
			t.Fatalf("%s: bring-up: %v", fam.Traits().Name, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s: bring-up tree differs from validation", fam.Traits().Name)
		}
	}
}
