// Package device describes the processor ABIs the running machine can execute.
package device

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/adamancini/ffrelease/internal/types"
)

// ErrNoCompatibleABI is returned when none of the device ABIs is shipped by an app.
var ErrNoCompatibleABI = errors.New("no compatible abi")

// Device lists the ABIs a device can execute, most preferred first.
type Device struct {
	SupportedABIs      []types.ABI
	Supported32BitABIs []types.ABI
	Supported64BitABIs []types.ABI
}

// goArchABIs maps a Go architecture to the ABIs a machine of that
// architecture runs, in preference order.
var goArchABIs = map[string][]types.ABI{
	"arm64":    {types.ABIArm64V8A, types.ABIArmeabiV7A},
	"arm":      {types.ABIArmeabiV7A},
	"amd64":    {types.ABIX86_64, types.ABIX86},
	"386":      {types.ABIX86},
	"mips":     {types.ABIMips},
	"mipsle":   {types.ABIMips},
	"mips64":   {types.ABIMips64, types.ABIMips},
	"mips64le": {types.ABIMips64, types.ABIMips},
}

// Detect returns the device for the current Go architecture.
func Detect() *Device {
	return FromGoArch(runtime.GOARCH)
}

// FromGoArch returns the device for the given Go architecture.
// Unknown architectures produce a device without any ABI.
func FromGoArch(goarch string) *Device {
	return FromABIs(goArchABIs[goarch]...)
}

// FromABIs builds a device from an explicit preference-ordered ABI list.
func FromABIs(abis ...types.ABI) *Device {
	d := &Device{SupportedABIs: append([]types.ABI(nil), abis...)}
	for _, a := range abis {
		switch {
		case a.Is64Bit():
			d.Supported64BitABIs = append(d.Supported64BitABIs, a)
		case a.Is32Bit():
			d.Supported32BitABIs = append(d.Supported32BitABIs, a)
		}
	}
	return d
}

// FindBestABI returns the most preferred device ABI that the app ships.
// With prefer32Bit, every 32-bit ABI of the device ranks above the
// 64-bit ones.
func (d *Device) FindBestABI(appABIs []types.ABI, prefer32Bit bool) (types.ABI, error) {
	candidates := d.SupportedABIs
	if prefer32Bit {
		candidates = make([]types.ABI, 0, len(d.SupportedABIs))
		candidates = append(candidates, d.Supported32BitABIs...)
		candidates = append(candidates, d.Supported64BitABIs...)
	}

	for _, a := range candidates {
		if types.ContainsABI(appABIs, a) {
			return a, nil
		}
	}

	return "", fmt.Errorf("%w: device supports %v, app ships %v", ErrNoCompatibleABI, d.SupportedABIs, appABIs)
}
