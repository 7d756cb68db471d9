package daichi

import (
	"errors"
	"testing"
)

func TestDecodeNotificationVariants(t *testing.T) {
	bare := updateFlags(map[string]any{
		"id":            20,
		"serial":        "SN-20",
		"status":        "disconnected",
		"lastOnline":    "2026-10-18T22:00:00Z",
		"curTemp":       19.5,
		"progress":      nil,
		"currentPreset": nil,
	})
	bare["isTimerUpdated"] = true
	full := updateFlags(withControls(10, true))

	payload := mustJSON(t, snapshotFixture(full, bare))
	note, err := DecodeNotification(payload)
	if err != nil {
		t.Fatalf("DecodeNotification error: %v", err)
	}
	if len(note.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(note.Devices))
	}

	withPult := note.Devices[0]
	if !withPult.HasControls() || withPult.ID != 10 || len(withPult.Pult) != 1 {
		t.Fatalf("unexpected controls entry: %+v", withPult)
	}
	if !withPult.State.IsOn {
		t.Fatalf("expected device on")
	}

	base := note.Devices[1]
	if base.HasControls() || base.ID != 20 || base.CurTemp != 19.5 {
		t.Fatalf("unexpected base entry: %+v", base)
	}
	if !base.IsTimerUpdated || base.IsProgressUpdated {
		t.Fatalf("unexpected flags: %+v", base.UpdateFlags)
	}
}

func TestDecodeNotificationRejectsMissingFlags(t *testing.T) {
	device := withControls(10, true)
	payload := mustJSON(t, snapshotFixture(device))

	_, err := DecodeNotification(payload)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T %v", err, err)
	}
}

func TestDecodeNotificationRejectsMissingCollections(t *testing.T) {
	snapshot := snapshotFixture()
	delete(snapshot, "placeSchedules")

	_, err := DecodeNotification(mustJSON(t, snapshot))
	if err == nil {
		t.Fatalf("expected error for missing placeSchedules")
	}
}
