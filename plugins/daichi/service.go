package daichi

import (
	"context"
	"errors"
	"sort"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joshp123/gohome-daichi/internal/rpc"
)

const (
	ServicePackage = "gohome.plugins.daichi.v1"
	ServiceName    = "DaichiService"
	ServiceFull    = ServicePackage + "." + ServiceName
)

type service struct {
	client *Client
}

type deviceRequest struct {
	DeviceID int `json:"device_id"`
}

type controlDeviceRequest struct {
	DeviceID   int      `json:"device_id"`
	FunctionID int      `json:"function_id"`
	Value      *float64 `json:"value"`
	IsOn       *bool    `json:"is_on"`
}

type setPowerRequest struct {
	DeviceID int  `json:"device_id"`
	On       bool `json:"on"`
}

// RegisterDaichiService registers the Daichi gRPC service.
func RegisterDaichiService(server *grpc.Server, client *Client) error {
	s := service{client: client}
	return rpc.Register(server, rpc.Service{
		Package: ServicePackage,
		Name:    ServiceName,
		Methods: []rpc.Method{
			{Name: "ListBuildings", Handler: s.listBuildings},
			{Name: "ListDevices", Handler: s.listDevices},
			{Name: "GetDeviceState", Handler: s.getDeviceState},
			{Name: "ControlDevice", Handler: s.controlDevice},
			{Name: "SetPower", Handler: s.setPower},
			{Name: "GetMqttUser", Handler: s.getMqttUser},
		},
	})
}

func (s service) ready() error {
	if s.client == nil {
		return status.Error(codes.FailedPrecondition, "daichi client not configured")
	}
	return nil
}

func (s service) listBuildings(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	buildings, err := s.client.Buildings(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"buildings": buildings})
}

func (s service) listDevices(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	devices, err := s.client.Devices(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	// Arrival order is not stable; callers get id order.
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return encode(map[string]any{"devices": devices})
}

func (s service) getDeviceState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var in deviceRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.DeviceID == 0 {
		return nil, status.Error(codes.InvalidArgument, "device_id is required")
	}
	device, err := s.client.DeviceState(ctx, in.DeviceID)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"device": device})
}

func (s service) controlDevice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var in controlDeviceRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.DeviceID == 0 || in.FunctionID == 0 {
		return nil, status.Error(codes.InvalidArgument, "device_id and function_id are required")
	}

	var value ControlValue
	switch {
	case in.Value != nil && in.IsOn != nil:
		return nil, status.Error(codes.InvalidArgument, "set exactly one of value or is_on")
	case in.Value != nil:
		value = Numeric(*in.Value)
	case in.IsOn != nil:
		value = OnOff(*in.IsOn)
	default:
		return nil, status.Error(codes.InvalidArgument, "value or is_on is required")
	}

	result, err := s.client.ControlDevice(ctx, in.DeviceID, in.FunctionID, value)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"result": result})
}

func (s service) setPower(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var in setPowerRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.DeviceID == 0 {
		return nil, status.Error(codes.InvalidArgument, "device_id is required")
	}
	result, err := s.client.SetPower(ctx, in.DeviceID, in.On)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"result": result})
}

func (s service) getMqttUser(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	user, err := s.client.MqttUserInfo(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(map[string]any{"mqtt_user": user})
}

func decode(req *structpb.Struct, out any) error {
	if err := rpc.FromStruct(req, out); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	out, err := rpc.ToStruct(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// grpcError maps client failures to gRPC status codes.
func grpcError(err error) error {
	var (
		authErr       *AuthError
		serverErr     *ServerError
		validationErr *ValidationError
		statusErr     *HTTPStatusError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.As(err, &authErr):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.As(err, &serverErr):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &validationErr):
		return status.Error(codes.DataLoss, err.Error())
	case errors.As(err, &statusErr):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
