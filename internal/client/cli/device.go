package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// promptDeviceID asks for a device id and parses it. Shared by every
// per-device command.
func (a *App) promptDeviceID() (int64, error) {
	s, err := getSimpleText(a.reader, "Enter device id", os.Stdout)
	if err != nil {
		return 0, err
	}
	return scaleapi.ParseDeviceID(s)
}

// Devices lists the registered devices.
func (a *App) Devices(ctx context.Context) error {
	devices, err := a.deviceService.List(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	renderDevices(os.Stdout, devices)
	return nil
}

// Device shows the detail view of a single device, auto-update state
// included.
func (a *App) Device(ctx context.Context) error {
	id, err := a.promptDeviceID()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	d, err := a.deviceService.Get(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	renderDevice(os.Stdout, d)
	return nil
}

// AddDevice collects a device spec interactively and registers it.
func (a *App) AddDevice(ctx context.Context) error {
	spec, err := a.inputDeviceSpec(scaleapi.DeviceSpec{})
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	d, err := a.deviceService.Create(ctx, spec)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Device %d (%s) created\n", d.ID, d.Name)
	return nil
}

// EditDevice loads the current spec of a device and prompts per field;
// an empty answer keeps the current value.
func (a *App) EditDevice(ctx context.Context) error {
	id, err := a.promptDeviceID()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	d, err := a.deviceService.Get(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	spec, err := a.inputDeviceSpec(scaleapi.DeviceSpec{
		Name:        d.Name,
		Description: d.Description,
		Host:        d.Host,
		Port:        d.Port,
		Protocol:    d.Protocol,
	})
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	updated, err := a.deviceService.Update(ctx, id, spec)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Device %d (%s) updated\n", updated.ID, updated.Name)
	return nil
}

// DeleteDevice removes a device by id.
func (a *App) DeleteDevice(ctx context.Context) error {
	id, err := a.promptDeviceID()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.deviceService.Delete(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Device %d deleted\n", id)
	return nil
}

// inputDeviceSpec prompts for every device field. An empty answer keeps
// the corresponding value from current, so edit flows show the current
// value and accept a bare Enter. The add flow passes a zero current and
// relies on spec validation to catch what was left out.
func (a *App) inputDeviceSpec(current scaleapi.DeviceSpec) (scaleapi.DeviceSpec, error) {
	var zero scaleapi.DeviceSpec

	name, err := getSimpleText(a.reader, promptWithDefault("Enter name", current.Name), os.Stdout)
	if err != nil {
		return zero, err
	}
	if name != "" {
		current.Name = name
	}

	description, err := getSimpleText(a.reader, promptWithDefault("Enter description", current.Description), os.Stdout)
	if err != nil {
		return zero, err
	}
	if description != "" {
		current.Description = description
	}

	host, err := getSimpleText(a.reader, promptWithDefault("Enter host (IP or hostname)", current.Host), os.Stdout)
	if err != nil {
		return zero, err
	}
	if host != "" {
		current.Host = host
	}

	portDefault := ""
	if current.Port != 0 {
		portDefault = strconv.Itoa(current.Port)
	}
	port, err := getSimpleText(a.reader, promptWithDefault("Enter port", portDefault), os.Stdout)
	if err != nil {
		return zero, err
	}
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return zero, fmt.Errorf("%w: port must be a number", common.ErrorValidation)
		}
		current.Port = n
	}

	protocol, err := getSimpleText(a.reader, promptWithDefault("Enter protocol (TCP/UDP)", string(current.Protocol)), os.Stdout)
	if err != nil {
		return zero, err
	}
	if protocol != "" {
		current.Protocol = scaleapi.Protocol(protocol)
	}

	return current, nil
}

func promptWithDefault(prompt, current string) string {
	if current == "" {
		return prompt
	}
	return fmt.Sprintf("%s [%s]", prompt, current)
}
