package daichi

import "encoding/json"

// Token is the payload of the token endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
}

// MqttCredentials are the broker credentials embedded in the user record.
type MqttCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the authenticated account returned by the user endpoint.
type User struct {
	ID                       int               `json:"id"`
	Token                    string            `json:"token"`
	Email                    string            `json:"email"`
	MqttUser                 MqttCredentials   `json:"mqttUser"`
	IsEmailConfirmed         bool              `json:"isEmailConfirmed"`
	Phone                    *string           `json:"phone"`
	IsPhoneConfirmed         bool              `json:"isPhoneConfirmed"`
	Fio                      string            `json:"fio"`
	Company                  string            `json:"company"`
	UserType                 string            `json:"userType"`
	ExpiredIn                *string           `json:"expiredIn"`
	DeleteAccountRequestedAt *string           `json:"deleteAccountRequestedAt"`
	Image                    *string           `json:"image"`
	AccessRequests           []json.RawMessage `json:"accessRequests"`
}

// MqttUser holds broker credentials plus the owning user id.
type MqttUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	ID       int    `json:"id"`
}

// StateInfo is the UI summary of a device state.
type StateInfo struct {
	Text      string   `json:"text"`
	Icons     []string `json:"icons"`
	IconsSvg  []string `json:"iconsSvg"`
	IconNames []string `json:"iconNames"`
}

// PowerState is the on/off state of a device with its display summary.
type PowerState struct {
	IsOn bool      `json:"isOn"`
	Info StateInfo `json:"info"`
}

// Coordinates locate a building.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is the device summary listed under a building.
type Place struct {
	ID                int             `json:"id"`
	Serial            string          `json:"serial"`
	Status            string          `json:"status"`
	Title             string          `json:"title"`
	CurTemp           float64         `json:"curTemp"`
	State             PowerState      `json:"state"`
	Features          map[string]bool `json:"features"`
	GroupID           json.RawMessage `json:"groupId"`
	BuildingID        int             `json:"buildingId"`
	LastOnline        string          `json:"lastOnline"`
	CreatedAt         string          `json:"createdAt"`
	Pinned            bool            `json:"pinned"`
	Access            string          `json:"access"`
	Progress          json.RawMessage `json:"progress"`
	CurrentPreset     json.RawMessage `json:"currentPreset"`
	Timer             json.RawMessage `json:"timer"`
	CloudType         string          `json:"cloudType"`
	DistributionType  string          `json:"distributionType"`
	Company           string          `json:"company"`
	IsBle             bool            `json:"isBle"`
	DeviceControlType string          `json:"deviceControlType"`
	FirmwareType      string          `json:"firmwareType"`
	VrfTitle          json.RawMessage `json:"vrfTitle"`
	DeviceType        string          `json:"deviceType"`
	Subscription      json.RawMessage `json:"subscription"`
	SubscriptionID    *int            `json:"subscriptionId,omitempty"`
	WarrantyNumber    *string         `json:"warrantyNumber,omitempty"`
	ConditionerSerial *string         `json:"conditionerSerial,omitempty"`
}

// Building groups the devices installed at one address.
type Building struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Places      []Place         `json:"places"`
	Access      string          `json:"access"`
	PlacesCount int             `json:"placesCount"`
	ShareCount  int             `json:"shareCount"`
	UTC         float64         `json:"utc"`
	Coordinates Coordinates     `json:"coordinates"`
	GeoMode     bool            `json:"geoMode"`
	GeoState    string          `json:"geoState"`
	GeoZone     float64         `json:"geoZone"`
	Address     string          `json:"address"`
	TriggeredBy json.RawMessage `json:"triggeredBy"`
	HasSettings bool            `json:"hasSettings"`
	OwnTrigger  json.RawMessage `json:"ownTrigger"`
	CloudType   string          `json:"cloudType"`
	TimeZone    string          `json:"timeZone"`
	Image       string          `json:"image"`
	Slogan      string          `json:"slogan"`
}

// DeviceBase is the minimal device shape shared by every variant.
type DeviceBase struct {
	ID            int             `json:"id"`
	Serial        string          `json:"serial"`
	Status        string          `json:"status"`
	LastOnline    string          `json:"lastOnline"`
	CurTemp       float64         `json:"curTemp"`
	Progress      json.RawMessage `json:"progress"`
	CurrentPreset json.RawMessage `json:"currentPreset"`
}

// UIInfo describes how a function is rendered.
type UIInfo struct {
	ControlType              string            `json:"controlType"`
	Units                    *string           `json:"units"`
	IconSvg                  *string           `json:"iconSvg,omitempty"`
	OnIcon                   *string           `json:"onIcon,omitempty"`
	StateIcon                *string           `json:"stateIcon,omitempty"`
	OffIcon                  *string           `json:"offIcon,omitempty"`
	Icon                     *string           `json:"icon,omitempty"`
	RangeIconsInfo           []json.RawMessage `json:"rangeIconsInfo,omitempty"`
	DisplayInStateAsText     bool              `json:"displayInStateAsText"`
	DisplaySpecialBackground bool              `json:"displaySpecialBackground"`
}

// FunctionState is the current value of a function.
type FunctionState struct {
	Value        json.RawMessage `json:"value"`
	IsOn         bool            `json:"isOn"`
	Blocked      bool            `json:"blocked"`
	Controllable bool            `json:"controllable"`
}

// NumericValue returns the state value when it is a JSON number.
func (s FunctionState) NumericValue() (float64, bool) {
	if len(s.Value) == 0 {
		return 0, false
	}
	var v *float64
	if err := json.Unmarshal(s.Value, &v); err != nil || v == nil {
		return 0, false
	}
	return *v, true
}

// BleTagInfo carries the Bluetooth command mapping of a function.
type BleTagInfo struct {
	BleTag        string          `json:"bleTag"`
	BleOnCommand  *string         `json:"bleOnCommand"`
	BleOffCommand json.RawMessage `json:"bleOffCommand"`
}

// FunctionMeta holds flags that drive how a function may be used.
type FunctionMeta struct {
	Applyable         bool            `json:"applyable"`
	HasDescription    bool            `json:"hasDescription"`
	Tag               json.RawMessage `json:"tag"`
	IsPowerOnFunction bool            `json:"isPowerOnFunction"`
	IgnorePowerOff    bool            `json:"ignorePowerOff"`
	BleTagInfo        BleTagInfo      `json:"bleTagInfo"`
}

// Function is one controllable capability of a device.
type Function struct {
	ID             int             `json:"id"`
	Title          *string         `json:"title"`
	UIInfo         UIInfo          `json:"uiInfo"`
	State          FunctionState   `json:"state"`
	MetaData       FunctionMeta    `json:"metaData"`
	Progress       json.RawMessage `json:"progress"`
	LinkedFunction json.RawMessage `json:"linkedFunction"`
}

// Name returns the function title, or an empty string when the server sent none.
func (f Function) Name() string {
	if f.Title == nil {
		return ""
	}
	return *f.Title
}

// PultGroup is one group of the control panel.
type PultGroup struct {
	ID        int        `json:"id"`
	Title     *string    `json:"title"`
	Functions []Function `json:"functions"`
}

// DeviceWithControls is a device with its state and control panel.
type DeviceWithControls struct {
	DeviceBase
	State PowerState  `json:"state"`
	Pult  []PultGroup `json:"pult"`
}

// FindFunction returns the function with the given id.
func (d DeviceWithControls) FindFunction(id int) (Function, bool) {
	for _, group := range d.Pult {
		for _, fn := range group.Functions {
			if fn.ID == id {
				return fn, true
			}
		}
	}
	return Function{}, false
}

// PowerFunction returns the function flagged as the power switch.
func (d DeviceWithControls) PowerFunction() (Function, bool) {
	for _, group := range d.Pult {
		for _, fn := range group.Functions {
			if fn.MetaData.IsPowerOnFunction {
				return fn, true
			}
		}
	}
	return Function{}, false
}

// DeviceInfo names the hardware.
type DeviceInfo struct {
	Brand string `json:"brand"`
	Seria string `json:"seria"`
	Model string `json:"model"`
}

// ClimateOnline reports the remote diagnostics subscription.
type ClimateOnline struct {
	IsEnabled  bool `json:"isEnabled"`
	OpenErrors int  `json:"openErrors"`
	IsActive   bool `json:"isActive"`
}

// SubscriptionInfo is the paid subscription window.
type SubscriptionInfo struct {
	EndDate     string `json:"endDate"`
	IsUnlimited bool   `json:"isUnlimited"`
}

// TarificationInfo describes the billing state of a device.
type TarificationInfo struct {
	TarificationType          string           `json:"tarificationType"`
	SubscriptionInfo          SubscriptionInfo `json:"subscriptionInfo"`
	SummaryPacketsData        json.RawMessage  `json:"summaryPacketsData"`
	HasUnsyncedTransactions   bool             `json:"hasUnsyncedTransactions"`
	LabelType                 string           `json:"labelType"`
	IsLabelButtonVisible      bool             `json:"isLabelButtonVisible"`
	IsLabelButtonInteractable bool             `json:"isLabelButtonInteractable"`
}

// Device is the full device returned by the single-device endpoint.
type Device struct {
	DeviceWithControls
	BuildingID                int               `json:"buildingId"`
	Title                     string            `json:"title"`
	Access                    string            `json:"access"`
	Pinned                    bool              `json:"pinned"`
	DeviceInfo                DeviceInfo        `json:"deviceInfo"`
	Presets                   []json.RawMessage `json:"presets"`
	GroupPresets              []json.RawMessage `json:"groupPresets"`
	Timer                     json.RawMessage   `json:"timer"`
	CreatedAt                 string            `json:"createdAt"`
	CloudType                 string            `json:"cloudType"`
	FirmwareVersion           string            `json:"firmwareVersion"`
	DistributionType          string            `json:"distributionType"`
	Company                   string            `json:"company"`
	IsBle                     bool              `json:"isBle"`
	DeviceControlType         string            `json:"deviceControlType"`
	BleAuthToken              *string           `json:"bleAuthToken"`
	LatestFirmwareVersion     string            `json:"latestFirmwareVersion"`
	FirmwareType              string            `json:"firmwareType"`
	VrfTitle                  *string           `json:"vrfTitle"`
	DeviceType                string            `json:"deviceType"`
	Features                  map[string]bool   `json:"features"`
	ClimateOnline             ClimateOnline     `json:"climateOnline"`
	Indicators                json.RawMessage   `json:"indicators"`
	SubscriptionID            *int              `json:"subscriptionId,omitempty"`
	ContractID                *int              `json:"contractId,omitempty"`
	WarrantyNumber            *string           `json:"warrantyNumber,omitempty"`
	ConditionerSerial         *string           `json:"conditionerSerial,omitempty"`
	Subscription              json.RawMessage   `json:"subscription"`
	TarificationInfo          *TarificationInfo `json:"tarificationInfo,omitempty"`
	TarificationConflictPopUp json.RawMessage   `json:"tarificationConflictPopUp"`
}

// UpdateFlags mark which parts of a device changed in a control reply or
// notification.
type UpdateFlags struct {
	IsCurrentScheduleUpdated  bool `json:"isCurrentScheduleUpdated"`
	IsProgressUpdated         bool `json:"isProgressUpdated"`
	IsTimerUpdated            bool `json:"isTimerUpdated"`
	IsCurrentPresetUpdated    bool `json:"isCurrentPresetUpdated"`
	IsTarificationInfoUpdated bool `json:"isTarificationInfoUpdated"`
}

// UpdatedDevice is a device snapshot returned after a control command.
type UpdatedDevice struct {
	DeviceWithControls
	UpdateFlags
}

// ControlResult is the server snapshot returned by a control command.
type ControlResult struct {
	Devices        []UpdatedDevice   `json:"devices"`
	Presets        []json.RawMessage `json:"presets"`
	GroupPresets   []json.RawMessage `json:"groupPresets"`
	Schedules      []json.RawMessage `json:"schedules"`
	PlaceSchedules []json.RawMessage `json:"placeSchedules"`
}

// NotificationDevice is one device entry of a push notification. State and
// Pult are only set when the entry carried control metadata.
type NotificationDevice struct {
	DeviceBase
	UpdateFlags
	State *PowerState `json:"state,omitempty"`
	Pult  []PultGroup `json:"pult,omitempty"`
}

// HasControls reports whether the entry is the with-controls variant.
func (d NotificationDevice) HasControls() bool {
	return d.State != nil
}

// Notification is the payload pushed to broker subscribers.
type Notification struct {
	Devices        []NotificationDevice `json:"devices"`
	Presets        []json.RawMessage    `json:"presets"`
	GroupPresets   []json.RawMessage    `json:"groupPresets"`
	Schedules      []json.RawMessage    `json:"schedules"`
	PlaceSchedules []json.RawMessage    `json:"placeSchedules"`
}
