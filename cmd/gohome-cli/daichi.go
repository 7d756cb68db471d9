package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"google.golang.org/grpc"

	"github.com/joshp123/gohome-daichi/internal/rpc"
	"github.com/joshp123/gohome-daichi/plugins/daichi"
)

func daichiCall(ctx context.Context, conn *grpc.ClientConn, method string, req any, out any) {
	in, err := rpc.ToStruct(req)
	if err != nil {
		fatal("daichi "+method, err)
	}
	resp, err := rpc.Invoke(ctx, conn, daichi.ServiceFull, method, in)
	if err != nil {
		fatal("daichi "+method, err)
	}
	if err := rpc.FromStruct(resp, out); err != nil {
		fatal("decode "+method, err)
	}
}

func daichiCmd(ctx context.Context, conn *grpc.ClientConn, args []string, out outputMode) {
	if len(args) == 0 {
		daichiUsage()
		os.Exit(2)
	}

	switch args[0] {
	case "buildings":
		var resp struct {
			Buildings []daichi.Building `json:"buildings"`
		}
		daichiCall(ctx, conn, "ListBuildings", map[string]any{}, &resp)
		if out.json {
			out.printJSON(resp.Buildings)
			return
		}
		rows := [][]string{{"ID", "BUILDING", "DEVICES", "ADDRESS"}}
		for _, b := range resp.Buildings {
			rows = append(rows, []string{strconv.Itoa(b.ID), b.Title, strconv.Itoa(len(b.Places)), b.Address})
		}
		out.table(rows)
	case "devices", "list":
		var resp struct {
			Devices []daichi.Device `json:"devices"`
		}
		daichiCall(ctx, conn, "ListDevices", map[string]any{}, &resp)
		if out.json {
			out.printJSON(resp.Devices)
			return
		}
		rows := [][]string{{"ID", "DEVICE", "STATUS", "POWER", "TEMP", "STATE"}}
		for _, d := range resp.Devices {
			rows = append(rows, []string{
				strconv.Itoa(d.ID),
				d.Title,
				d.Status,
				onOff(d.State.IsOn),
				fmt.Sprintf("%.1f", d.CurTemp),
				d.State.Info.Text,
			})
		}
		out.table(rows)
	case "state":
		if len(args) < 2 {
			fatal("daichi state", fmt.Errorf("usage: gohome-cli daichi state <device>"))
		}
		device := daichiDevice(ctx, conn, args[1])
		if out.json {
			out.printJSON(device)
			return
		}
		fmt.Printf("%s (%d) %s, %s, %.1f°C\n", device.Title, device.ID, device.Status, onOff(device.State.IsOn), device.CurTemp)
		rows := [][]string{{"FUNCTION", "ID", "ON", "VALUE"}}
		for _, group := range device.Pult {
			for _, fn := range group.Functions {
				value := ""
				if v, ok := fn.State.NumericValue(); ok {
					value = strconv.FormatFloat(v, 'f', -1, 64)
				}
				rows = append(rows, []string{fn.Name(), strconv.Itoa(fn.ID), onOff(fn.State.IsOn), value})
			}
		}
		out.table(rows)
	case "set":
		if len(args) < 4 {
			fatal("daichi set", fmt.Errorf("usage: gohome-cli daichi set <device> <function> <number|on|off>"))
		}
		device := daichiDevice(ctx, conn, args[1])
		functionID := resolveFunction(device, args[2])
		req := map[string]any{"device_id": device.ID, "function_id": functionID}
		switch strings.ToLower(args[3]) {
		case "on":
			req["is_on"] = true
		case "off":
			req["is_on"] = false
		default:
			value, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				fatal("daichi set", fmt.Errorf("invalid value %q", args[3]))
			}
			req["value"] = value
		}
		var resp struct {
			Result daichi.ControlResult `json:"result"`
		}
		daichiCall(ctx, conn, "ControlDevice", req, &resp)
		printControl(out, device.Title, resp.Result)
	case "power":
		if len(args) < 3 {
			fatal("daichi power", fmt.Errorf("usage: gohome-cli daichi power <device> on|off"))
		}
		device := daichiDevice(ctx, conn, args[1])
		var on bool
		switch strings.ToLower(args[2]) {
		case "on":
			on = true
		case "off":
		default:
			fatal("daichi power", fmt.Errorf("expected on or off, got %q", args[2]))
		}
		var resp struct {
			Result daichi.ControlResult `json:"result"`
		}
		daichiCall(ctx, conn, "SetPower", map[string]any{"device_id": device.ID, "on": on}, &resp)
		printControl(out, device.Title, resp.Result)
	case "mqtt":
		var resp struct {
			MqttUser daichi.MqttUser `json:"mqtt_user"`
		}
		daichiCall(ctx, conn, "GetMqttUser", map[string]any{}, &resp)
		if out.json {
			out.printJSON(resp.MqttUser)
			return
		}
		fmt.Printf("id: %d\nusername: %s\npassword: %s\n", resp.MqttUser.ID, resp.MqttUser.Username, resp.MqttUser.Password)
	default:
		daichiUsage()
		os.Exit(2)
	}
}

// daichiDevice resolves a device id or title and returns its full state.
func daichiDevice(ctx context.Context, conn *grpc.ClientConn, input string) daichi.Device {
	id, err := strconv.Atoi(input)
	if err != nil {
		var resp struct {
			Buildings []daichi.Building `json:"buildings"`
		}
		daichiCall(ctx, conn, "ListBuildings", map[string]any{}, &resp)
		options := make(map[string]string)
		for _, b := range resp.Buildings {
			for _, place := range b.Places {
				options[place.Title] = strconv.Itoa(place.ID)
			}
		}
		resolved, err := resolveNamedID("device", input, options)
		if err != nil {
			fatal("daichi", err)
		}
		id, _ = strconv.Atoi(resolved)
	}

	var resp struct {
		Device daichi.Device `json:"device"`
	}
	daichiCall(ctx, conn, "GetDeviceState", map[string]any{"device_id": id}, &resp)
	return resp.Device
}

func resolveFunction(device daichi.Device, input string) int {
	if id, err := strconv.Atoi(input); err == nil {
		if _, ok := device.FindFunction(id); !ok {
			fatal("daichi", fmt.Errorf("device %d has no function %d", device.ID, id))
		}
		return id
	}

	options := make(map[string]string)
	for _, group := range device.Pult {
		for _, fn := range group.Functions {
			if name := fn.Name(); name != "" {
				options[name] = strconv.Itoa(fn.ID)
			}
		}
	}
	resolved, err := resolveNamedID("function", input, options)
	if err != nil {
		fatal("daichi", err)
	}
	id, _ := strconv.Atoi(resolved)
	return id
}

func printControl(out outputMode, name string, result daichi.ControlResult) {
	if out.json {
		out.printJSON(result)
		return
	}
	for _, d := range result.Devices {
		fmt.Printf("ok: %s (%d) -> %s, %s\n", strings.ToLower(name), d.ID, onOff(d.State.IsOn), d.State.Info.Text)
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func daichiUsage() {
	fmt.Println("gohome-cli daichi <command>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  buildings")
	fmt.Println("  devices")
	fmt.Println("  state <device>")
	fmt.Println("  set <device> <function> <number|on|off>")
	fmt.Println("  power <device> on|off")
	fmt.Println("  mqtt")
}
