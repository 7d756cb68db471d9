package main

import (
	"strings"
	"testing"

	"github.com/joshp123/gohome-daichi/plugins/daichi"
)

func TestResolveNamedID(t *testing.T) {
	options := map[string]string{"Living Room": "101", "Bed-room": "102"}

	id, err := resolveNamedID("device", "living room", options)
	if err != nil || id != "101" {
		t.Fatalf("unexpected resolve: %q %v", id, err)
	}
	id, err = resolveNamedID("device", "BED ROOM", options)
	if err != nil || id != "102" {
		t.Fatalf("unexpected resolve: %q %v", id, err)
	}

	_, err = resolveNamedID("device", "kitchen", options)
	if err == nil || !strings.Contains(err.Error(), "Available: Bed-room, Living Room") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveNamedIDPrefix(t *testing.T) {
	options := map[string]string{"Living Room": "101", "Living Kitchen": "103", "Bedroom": "102"}

	id, err := resolveNamedID("device", "bed", options)
	if err != nil || id != "102" {
		t.Fatalf("unexpected resolve: %q %v", id, err)
	}
	_, err = resolveNamedID("device", "living", options)
	if err == nil || !strings.Contains(err.Error(), "ambiguous: Living Kitchen, Living Room") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOutputTable(t *testing.T) {
	var buf strings.Builder
	out := outputMode{w: &buf}
	out.table([][]string{{"ID", "NAME"}, {"1"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "ID  NAME") || strings.TrimSpace(lines[1]) != "1" {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}

func TestResolveFunctionByName(t *testing.T) {
	title := "Target temperature"
	device := daichi.Device{}
	device.Pult = []daichi.PultGroup{{
		ID: 1,
		Functions: []daichi.Function{
			{ID: 350},
			{ID: 351, Title: &title},
		},
	}}

	if got := resolveFunction(device, "target_temperature"); got != 351 {
		t.Fatalf("expected 351, got %d", got)
	}
	if got := resolveFunction(device, "350"); got != 350 {
		t.Fatalf("expected 350, got %d", got)
	}
}
