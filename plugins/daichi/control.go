package daichi

import "math/rand/v2"

// maxCommandID bounds the random correlation id sent with each command.
const maxCommandID = 99_999_999

// ControlValue is the value half of a control command. The concrete type
// decides which field of the command is set.
type ControlValue interface {
	apply(*FunctionControl)
}

// Numeric sets a function's numeric value (temperature, fan speed, mode id).
type Numeric float64

func (n Numeric) apply(fc *FunctionControl) {
	v := float64(n)
	fc.Value = &v
}

// OnOff toggles a function.
type OnOff bool

func (o OnOff) apply(fc *FunctionControl) {
	v := bool(o)
	fc.IsOn = &v
}

// FunctionControl is the wire form of one function change. Exactly one of
// Value and IsOn is set.
type FunctionControl struct {
	FunctionID int      `json:"functionId"`
	Value      *float64 `json:"value,omitempty"`
	IsOn       *bool    `json:"isOn,omitempty"`
	Parameters any      `json:"parameters"`
}

func newFunctionControl(functionID int, value ControlValue) FunctionControl {
	fc := FunctionControl{FunctionID: functionID}
	value.apply(&fc)
	return fc
}

type controlRequest struct {
	CmdID               int             `json:"cmdId"`
	Value               FunctionControl `json:"value"`
	ConflictResolveData any             `json:"conflictResolveData"`
}

func randomCommandID() int {
	return rand.IntN(maxCommandID + 1)
}
