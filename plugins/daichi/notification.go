package daichi

import (
	"encoding/json"
	"fmt"
)

const notificationEndpoint = "notification"

// DecodeNotification validates and decodes a pushed device update. Each
// device entry is either a bare device or one carrying its control panel.
func DecodeNotification(data []byte) (Notification, error) {
	if err := notificationSchema.Validate(data); err != nil {
		envelopeFailures.WithLabelValues(notificationEndpoint, "validation").Inc()
		return Notification{}, &ValidationError{Endpoint: notificationEndpoint, Err: err}
	}

	var wire struct {
		Devices        []json.RawMessage `json:"devices"`
		Presets        []json.RawMessage `json:"presets"`
		GroupPresets   []json.RawMessage `json:"groupPresets"`
		Schedules      []json.RawMessage `json:"schedules"`
		PlaceSchedules []json.RawMessage `json:"placeSchedules"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Notification{}, &ValidationError{Endpoint: notificationEndpoint, Err: err}
	}

	out := Notification{
		Devices:        make([]NotificationDevice, 0, len(wire.Devices)),
		Presets:        wire.Presets,
		GroupPresets:   wire.GroupPresets,
		Schedules:      wire.Schedules,
		PlaceSchedules: wire.PlaceSchedules,
	}
	for i, raw := range wire.Devices {
		device, err := decodeNotificationDevice(raw)
		if err != nil {
			return Notification{}, &ValidationError{
				Endpoint: notificationEndpoint,
				Err:      fmt.Errorf("devices[%d]: %w", i, err),
			}
		}
		out.Devices = append(out.Devices, device)
	}
	return out, nil
}

func decodeNotificationDevice(raw json.RawMessage) (NotificationDevice, error) {
	var device NotificationDevice
	if err := updatedDeviceSchema.Validate(raw); err == nil {
		if err := json.Unmarshal(raw, &device); err != nil {
			return NotificationDevice{}, err
		}
		return device, nil
	}

	// Bare variant: any state or pult keys are not part of the contract.
	var base struct {
		DeviceBase
		UpdateFlags
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return NotificationDevice{}, err
	}
	device.DeviceBase = base.DeviceBase
	device.UpdateFlags = base.UpdateFlags
	return device, nil
}
