package update

import (
	"errors"
	"fmt"

	"github.com/adamancini/ffrelease/internal/device"
	"github.com/adamancini/ffrelease/internal/types"
)

// ErrUnsupportedArchitecture is returned when no build exists for the device.
var ErrUnsupportedArchitecture = errors.New("unsupported architecture")

// UnsupportedArchitectureError reports the ABI that could not be mapped to
// an asset name, or why no ABI could be chosen at all.
type UnsupportedArchitectureError struct {
	ABI types.ABI
	Err error
}

func (e *UnsupportedArchitectureError) Error() string {
	if e.ABI == "" {
		return fmt.Sprintf("unsupported architecture: %v", e.Err)
	}
	return fmt.Sprintf("unsupported architecture: abi %s has no release asset", e.ABI)
}

func (e *UnsupportedArchitectureError) Unwrap() error {
	return e.Err
}

// Is makes every UnsupportedArchitectureError match ErrUnsupportedArchitecture.
func (e *UnsupportedArchitectureError) Is(target error) bool {
	return target == ErrUnsupportedArchitecture
}

// abiTokens maps an ABI to the token used in release asset names.
var abiTokens = map[types.ABI]string{
	types.ABIArmeabiV7A: "armeabi-v7a",
	types.ABIArm64V8A:   "arm64-v8a",
	types.ABIX86:        "x86",
	types.ABIX86_64:     "x86_64",
}

// ABIToken returns the asset name token for abi.
func ABIToken(abi types.ABI) (string, error) {
	token, ok := abiTokens[abi]
	if !ok {
		return "", &UnsupportedArchitectureError{ABI: abi}
	}
	return token, nil
}

// SelectSuffix chooses the best ABI for the device and returns the asset
// file name suffix for it. format holds one %s for the ABI token; empty
// means "-%s-release.apk".
func SelectSuffix(finder ABIFinder, appABIs []types.ABI, prefer32Bit bool, format string) (string, error) {
	_, suffix, err := SelectABISuffix(finder, appABIs, prefer32Bit, format)
	return suffix, err
}

// SelectABISuffix is SelectSuffix that also returns the chosen ABI.
func SelectABISuffix(finder ABIFinder, appABIs []types.ABI, prefer32Bit bool, format string) (types.ABI, string, error) {
	abi, err := finder.FindBestABI(appABIs, prefer32Bit)
	if err != nil {
		if errors.Is(err, device.ErrNoCompatibleABI) {
			return "", "", &UnsupportedArchitectureError{Err: err}
		}
		return "", "", err
	}

	token, err := ABIToken(abi)
	if err != nil {
		return "", "", err
	}

	if format == "" {
		format = "-%s-release.apk"
	}
	return abi, fmt.Sprintf(format, token), nil
}
