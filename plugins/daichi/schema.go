package daichi

import "github.com/joshp123/gohome-daichi/internal/shape"

var tokenShape = shape.Object(
	shape.F("access_token", shape.String()),
)

var userShape = shape.Object(
	shape.F("id", shape.Number()),
	shape.F("token", shape.String()),
	shape.F("email", shape.String()),
	shape.F("mqttUser", shape.Object(
		shape.F("username", shape.String()),
		shape.F("password", shape.String()),
	)),
	shape.F("isEmailConfirmed", shape.Bool()),
	shape.F("phone", shape.Nullable(shape.String())),
	shape.F("isPhoneConfirmed", shape.Bool()),
	shape.F("fio", shape.String()),
	shape.F("company", shape.String()),
	shape.F("userType", shape.String()),
	shape.F("expiredIn", shape.Nullable(shape.String())),
	shape.F("deleteAccountRequestedAt", shape.Nullable(shape.String())),
	shape.F("image", shape.Nullable(shape.String())),
	shape.F("accessRequests", shape.Array(shape.Unknown())),
)

var powerStateShape = shape.Object(
	shape.F("isOn", shape.Bool()),
	shape.F("info", shape.Object(
		shape.F("text", shape.String()),
		shape.F("icons", shape.Array(shape.String())),
		shape.F("iconsSvg", shape.Array(shape.String())),
		shape.F("iconNames", shape.Array(shape.String())),
	)),
)

var placeShape = shape.Object(
	shape.F("id", shape.Number()),
	shape.F("serial", shape.String()),
	shape.F("status", shape.String()),
	shape.F("title", shape.String()),
	shape.F("curTemp", shape.Number()),
	shape.F("state", powerStateShape),
	shape.F("features", shape.Record(shape.Bool())),
	shape.F("groupId", shape.Nullable(shape.Unknown())),
	shape.F("buildingId", shape.Number()),
	shape.F("lastOnline", shape.String()),
	shape.F("createdAt", shape.String()),
	shape.F("pinned", shape.Bool()),
	shape.F("access", shape.String()),
	shape.F("progress", shape.Nullable(shape.Unknown())),
	shape.F("currentPreset", shape.Nullable(shape.Unknown())),
	shape.F("timer", shape.Nullable(shape.Unknown())),
	shape.F("cloudType", shape.String()),
	shape.F("distributionType", shape.String()),
	shape.F("company", shape.String()),
	shape.F("isBle", shape.Bool()),
	shape.F("deviceControlType", shape.String()),
	shape.F("firmwareType", shape.String()),
	shape.F("vrfTitle", shape.Nullable(shape.Unknown())),
	shape.F("deviceType", shape.String()),
	shape.F("subscription", shape.Nullable(shape.Unknown())),
	shape.F("subscriptionId", shape.Optional(shape.Number())),
	shape.F("warrantyNumber", shape.Optional(shape.String())),
	shape.F("conditionerSerial", shape.Optional(shape.String())),
)

var buildingShape = shape.Object(
	shape.F("id", shape.Number()),
	shape.F("title", shape.String()),
	shape.F("places", shape.Array(placeShape)),
	shape.F("access", shape.String()),
	shape.F("placesCount", shape.Number()),
	shape.F("shareCount", shape.Number()),
	shape.F("utc", shape.Number()),
	shape.F("coordinates", shape.Object(
		shape.F("lat", shape.Number()),
		shape.F("lng", shape.Number()),
	)),
	shape.F("geoMode", shape.Bool()),
	shape.F("geoState", shape.String()),
	shape.F("geoZone", shape.Number()),
	shape.F("address", shape.String()),
	shape.F("triggeredBy", shape.Nullable(shape.Unknown())),
	shape.F("hasSettings", shape.Bool()),
	shape.F("ownTrigger", shape.Nullable(shape.Unknown())),
	shape.F("cloudType", shape.String()),
	shape.F("timeZone", shape.String()),
	shape.F("image", shape.String()),
	shape.F("slogan", shape.String()),
)

var deviceBaseShape = shape.Object(
	shape.F("id", shape.Number()),
	shape.F("serial", shape.String()),
	shape.F("status", shape.String()),
	shape.F("lastOnline", shape.String()),
	shape.F("curTemp", shape.Number()),
	shape.F("progress", shape.Nullable(shape.Unknown())),
	shape.F("currentPreset", shape.Unknown()),
)

var functionShape = shape.Object(
	shape.F("id", shape.Number()),
	shape.F("title", shape.Nullable(shape.String())),
	shape.F("uiInfo", shape.Object(
		shape.F("controlType", shape.String()),
		shape.F("units", shape.Nullable(shape.String())),
		shape.F("iconSvg", shape.Optional(shape.String())),
		shape.F("onIcon", shape.Optional(shape.String())),
		shape.F("stateIcon", shape.Optional(shape.String())),
		shape.F("offIcon", shape.Optional(shape.String())),
		shape.F("icon", shape.Optional(shape.String())),
		shape.F("rangeIconsInfo", shape.Optional(shape.Array(shape.Unknown()))),
		shape.F("displayInStateAsText", shape.Bool()),
		shape.F("displaySpecialBackground", shape.Bool()),
	)),
	shape.F("state", shape.Object(
		shape.F("value", shape.Unknown()),
		shape.F("isOn", shape.Bool()),
		shape.F("blocked", shape.Bool()),
		shape.F("controllable", shape.Bool()),
	)),
	shape.F("metaData", shape.Object(
		shape.F("applyable", shape.Bool()),
		shape.F("hasDescription", shape.Bool()),
		shape.F("tag", shape.Unknown()),
		shape.F("isPowerOnFunction", shape.Bool()),
		shape.F("ignorePowerOff", shape.Bool()),
		shape.F("bleTagInfo", shape.Object(
			shape.F("bleTag", shape.String()),
			shape.F("bleOnCommand", shape.Nullable(shape.String())),
			shape.F("bleOffCommand", shape.Unknown()),
		)),
	)),
	shape.F("progress", shape.Unknown()),
	shape.F("linkedFunction", shape.Unknown()),
)

var deviceWithControlsShape = deviceBaseShape.Extend(
	shape.F("state", powerStateShape),
	shape.F("pult", shape.Array(shape.Object(
		shape.F("id", shape.Number()),
		shape.F("title", shape.Nullable(shape.String())),
		shape.F("functions", shape.Array(functionShape)),
	))),
)

var deviceShape = deviceWithControlsShape.Extend(
	shape.F("buildingId", shape.Number()),
	shape.F("title", shape.String()),
	shape.F("access", shape.String()),
	shape.F("pinned", shape.Bool()),
	shape.F("deviceInfo", shape.Object(
		shape.F("brand", shape.String()),
		shape.F("seria", shape.String()),
		shape.F("model", shape.String()),
	)),
	shape.F("presets", shape.Array(shape.Unknown())),
	shape.F("groupPresets", shape.Array(shape.Unknown())),
	shape.F("timer", shape.Unknown()),
	shape.F("createdAt", shape.String()),
	shape.F("cloudType", shape.String()),
	shape.F("firmwareVersion", shape.String()),
	shape.F("distributionType", shape.String()),
	shape.F("company", shape.String()),
	shape.F("isBle", shape.Bool()),
	shape.F("deviceControlType", shape.String()),
	shape.F("bleAuthToken", shape.Nullable(shape.String())),
	shape.F("latestFirmwareVersion", shape.String()),
	shape.F("firmwareType", shape.String()),
	shape.F("vrfTitle", shape.Nullable(shape.String())),
	shape.F("deviceType", shape.String()),
	shape.F("features", shape.Record(shape.Bool())),
	shape.F("climateOnline", shape.Object(
		shape.F("isEnabled", shape.Bool()),
		shape.F("openErrors", shape.Number()),
		shape.F("isActive", shape.Bool()),
	)),
	shape.F("indicators", shape.Unknown()),
	shape.F("subscriptionId", shape.Optional(shape.Number())),
	shape.F("contractId", shape.Optional(shape.Number())),
	shape.F("warrantyNumber", shape.Optional(shape.String())),
	shape.F("conditionerSerial", shape.Optional(shape.String())),
	shape.F("subscription", shape.Unknown()),
	shape.F("tarificationInfo", shape.Optional(shape.Object(
		shape.F("tarificationType", shape.String()),
		shape.F("subscriptionInfo", shape.Object(
			shape.F("endDate", shape.String()),
			shape.F("isUnlimited", shape.Bool()),
		)),
		shape.F("summaryPacketsData", shape.Unknown()),
		shape.F("hasUnsyncedTransactions", shape.Bool()),
		shape.F("labelType", shape.String()),
		shape.F("isLabelButtonVisible", shape.Bool()),
		shape.F("isLabelButtonInteractable", shape.Bool()),
	))),
	shape.F("tarificationConflictPopUp", shape.Unknown()),
)

var updateFlagFields = []shape.Field{
	shape.F("isCurrentScheduleUpdated", shape.Bool()),
	shape.F("isProgressUpdated", shape.Bool()),
	shape.F("isTimerUpdated", shape.Bool()),
	shape.F("isCurrentPresetUpdated", shape.Bool()),
	shape.F("isTarificationInfoUpdated", shape.Bool()),
}

var updatedDeviceShape = deviceWithControlsShape.Extend(updateFlagFields...)

var updatedBaseShape = deviceBaseShape.Extend(updateFlagFields...)

func snapshotShape(device shape.Shape) shape.ObjectShape {
	return shape.Object(
		shape.F("devices", shape.Array(device)),
		shape.F("presets", shape.Array(shape.Unknown())),
		shape.F("groupPresets", shape.Array(shape.Unknown())),
		shape.F("schedules", shape.Array(shape.Unknown())),
		shape.F("placeSchedules", shape.Array(shape.Unknown())),
	)
}

var controlShape = snapshotShape(updatedDeviceShape)

var notificationShape = snapshotShape(shape.Union(updatedDeviceShape, updatedBaseShape))

// Compiled validators, one per reply type.
var (
	tokenEnvelope     = shape.MustCompile(envelopeShape(tokenShape))
	userEnvelope      = shape.MustCompile(envelopeShape(userShape))
	buildingsEnvelope = shape.MustCompile(envelopeShape(shape.Array(buildingShape)))
	deviceEnvelope    = shape.MustCompile(envelopeShape(deviceShape))
	controlEnvelope   = shape.MustCompile(envelopeShape(controlShape))

	notificationSchema  = shape.MustCompile(notificationShape)
	updatedDeviceSchema = shape.MustCompile(updatedDeviceShape)
)
