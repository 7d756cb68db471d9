package daichi

import (
	"encoding/json"
	"strconv"
	"testing"
)

func okEnvelope(data any) map[string]any {
	return map[string]any{
		"done":           true,
		"errors":         nil,
		"updateRequired": false,
		"data":           data,
	}
}

func failedEnvelope(message string) map[string]any {
	return map[string]any{
		"done":           false,
		"updateRequired": false,
		"errors":         map[string]any{"id": "ERR_ACCESS"},
		"message":        message,
		"data":           nil,
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func stateFixture(on bool) map[string]any {
	text := "Off"
	if on {
		text = "Cooling 21°"
	}
	return map[string]any{
		"isOn": on,
		"info": map[string]any{
			"text":      text,
			"icons":     []any{},
			"iconsSvg":  []any{},
			"iconNames": []any{"snowflake"},
		},
	}
}

func userFixture() map[string]any {
	return map[string]any{
		"id":                       501,
		"token":                    "user-token",
		"email":                    "user@example.com",
		"mqttUser":                 map[string]any{"username": "mqtt-501", "password": "mqtt-secret"},
		"isEmailConfirmed":         true,
		"phone":                    nil,
		"isPhoneConfirmed":         false,
		"fio":                      "Test User",
		"company":                  "",
		"userType":                 "client",
		"expiredIn":                nil,
		"deleteAccountRequestedAt": nil,
		"image":                    nil,
		"accessRequests":           []any{},
	}
}

func placeFixture(id, buildingID int) map[string]any {
	return map[string]any{
		"id":                id,
		"serial":            "SN-" + strconv.Itoa(id),
		"status":            "connected",
		"title":             "Unit " + strconv.Itoa(id),
		"curTemp":           23.5,
		"state":             stateFixture(true),
		"features":          map[string]any{"ble": false, "schedules": true},
		"groupId":           nil,
		"buildingId":        buildingID,
		"lastOnline":        "2026-10-19T08:00:00Z",
		"createdAt":         "2025-01-01T00:00:00Z",
		"pinned":            false,
		"access":            "owner",
		"progress":          nil,
		"currentPreset":     nil,
		"timer":             nil,
		"cloudType":         "daichi",
		"distributionType":  "retail",
		"company":           "Daichi",
		"isBle":             false,
		"deviceControlType": "wifi",
		"firmwareType":      "esp",
		"vrfTitle":          nil,
		"deviceType":        "conditioner",
		"subscription":      nil,
	}
}

func buildingFixture(id int, places ...map[string]any) map[string]any {
	list := make([]any, 0, len(places))
	for _, p := range places {
		list = append(list, p)
	}
	return map[string]any{
		"id":          id,
		"title":       "Home " + strconv.Itoa(id),
		"places":      list,
		"access":      "owner",
		"placesCount": len(places),
		"shareCount":  0,
		"utc":         3,
		"coordinates": map[string]any{"lat": 55.75, "lng": 37.62},
		"geoMode":     false,
		"geoState":    "none",
		"geoZone":     200,
		"address":     "Tverskaya 1",
		"triggeredBy": nil,
		"hasSettings": true,
		"ownTrigger":  nil,
		"cloudType":   "daichi",
		"timeZone":    "Europe/Moscow",
		"image":       "",
		"slogan":      "",
	}
}

func functionFixture(id int, title string, power bool, value any) map[string]any {
	return map[string]any{
		"id":    id,
		"title": title,
		"uiInfo": map[string]any{
			"controlType":              "range",
			"units":                    nil,
			"displayInStateAsText":     false,
			"displaySpecialBackground": false,
		},
		"state": map[string]any{
			"value":        value,
			"isOn":         power,
			"blocked":      false,
			"controllable": true,
		},
		"metaData": map[string]any{
			"applyable":         true,
			"hasDescription":    false,
			"tag":               nil,
			"isPowerOnFunction": power,
			"ignorePowerOff":    false,
			"bleTagInfo": map[string]any{
				"bleTag":        "t",
				"bleOnCommand":  nil,
				"bleOffCommand": nil,
			},
		},
		"progress":       nil,
		"linkedFunction": nil,
	}
}

func pultFixture() []any {
	return []any{
		map[string]any{
			"id":    1,
			"title": nil,
			"functions": []any{
				functionFixture(350, "Power", true, nil),
				functionFixture(351, "Temperature", false, 21),
			},
		},
	}
}

func withControls(id int, on bool) map[string]any {
	return map[string]any{
		"id":            id,
		"serial":        "SN-" + strconv.Itoa(id),
		"status":        "connected",
		"lastOnline":    "2026-10-19T08:00:00Z",
		"curTemp":       22.0,
		"progress":      nil,
		"currentPreset": nil,
		"state":         stateFixture(on),
		"pult":          pultFixture(),
	}
}

func deviceFixture(id, buildingID int) map[string]any {
	d := withControls(id, true)
	extra := map[string]any{
		"buildingId":                buildingID,
		"title":                     "Unit " + strconv.Itoa(id),
		"access":                    "owner",
		"pinned":                    false,
		"deviceInfo":                map[string]any{"brand": "Daichi", "seria": "Alpha", "model": "A20"},
		"presets":                   []any{},
		"groupPresets":              []any{},
		"timer":                     nil,
		"createdAt":                 "2025-01-01T00:00:00Z",
		"cloudType":                 "daichi",
		"firmwareVersion":           "1.2.3",
		"distributionType":          "retail",
		"company":                   "Daichi",
		"isBle":                     false,
		"deviceControlType":         "wifi",
		"bleAuthToken":              nil,
		"latestFirmwareVersion":     "1.2.3",
		"firmwareType":              "esp",
		"vrfTitle":                  nil,
		"deviceType":                "conditioner",
		"features":                  map[string]any{"ble": false},
		"climateOnline":             map[string]any{"isEnabled": false, "openErrors": 0, "isActive": false},
		"indicators":                nil,
		"subscription":              nil,
		"tarificationConflictPopUp": nil,
	}
	for k, v := range extra {
		d[k] = v
	}
	return d
}

func updateFlags(d map[string]any) map[string]any {
	d["isCurrentScheduleUpdated"] = false
	d["isProgressUpdated"] = false
	d["isTimerUpdated"] = false
	d["isCurrentPresetUpdated"] = false
	d["isTarificationInfoUpdated"] = false
	return d
}

func snapshotFixture(devices ...map[string]any) map[string]any {
	list := make([]any, 0, len(devices))
	for _, d := range devices {
		list = append(list, d)
	}
	return map[string]any{
		"devices":        list,
		"presets":        []any{},
		"groupPresets":   []any{},
		"schedules":      []any{},
		"placeSchedules": []any{},
	}
}
