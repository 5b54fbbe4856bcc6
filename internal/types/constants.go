// Package types provides type-safe constants shared across ffrelease.
//
// This package centralizes the enumerated values used by the application
// registry, device detection and the update resolver, replacing magic
// strings with typed constants that carry their own validation.
package types

import (
	"fmt"
	"strings"
)

// ABI identifies a processor instruction-set/ABI variant a packaged build targets.
type ABI string

const (
	// ABIArmeabiV7A is 32-bit ARM (ARMv7).
	ABIArmeabiV7A ABI = "armeabi-v7a"
	// ABIArm64V8A is 64-bit ARM (AArch64).
	ABIArm64V8A ABI = "arm64-v8a"
	// ABIX86 is 32-bit x86.
	ABIX86 ABI = "x86"
	// ABIX86_64 is 64-bit x86.
	ABIX86_64 ABI = "x86_64"
	// ABIArmeabi is legacy 32-bit ARM (ARMv5/v6).
	ABIArmeabi ABI = "armeabi"
	// ABIMips is 32-bit MIPS.
	ABIMips ABI = "mips"
	// ABIMips64 is 64-bit MIPS.
	ABIMips64 ABI = "mips64"
)

// Common ABI sets that applications ship builds for.
var (
	ARM32ARM64X86X64 = []ABI{ABIArmeabiV7A, ABIArm64V8A, ABIX86, ABIX86_64}
	ARM32ARM64       = []ABI{ABIArmeabiV7A, ABIArm64V8A}
	ARM64X64         = []ABI{ABIArm64V8A, ABIX86_64}
)

// AllABIs returns all known ABIs.
func AllABIs() []ABI {
	return []ABI{ABIArmeabiV7A, ABIArm64V8A, ABIX86, ABIX86_64, ABIArmeabi, ABIMips, ABIMips64}
}

// Validate checks if the ABI is a known value.
func (a ABI) Validate() error {
	switch a {
	case ABIArmeabiV7A, ABIArm64V8A, ABIX86, ABIX86_64, ABIArmeabi, ABIMips, ABIMips64:
		return nil
	case "":
		return fmt.Errorf("abi is required")
	default:
		return fmt.Errorf("invalid abi '%s' (must be one of %s)", a, joinABIs(AllABIs()))
	}
}

// String returns the string representation of the ABI.
func (a ABI) String() string {
	return string(a)
}

// Is32Bit returns true for 32-bit ABIs.
func (a ABI) Is32Bit() bool {
	switch a {
	case ABIArmeabiV7A, ABIX86, ABIArmeabi, ABIMips:
		return true
	}
	return false
}

// Is64Bit returns true for 64-bit ABIs.
func (a ABI) Is64Bit() bool {
	switch a {
	case ABIArm64V8A, ABIX86_64, ABIMips64:
		return true
	}
	return false
}

// ParseABI parses a string into an ABI.
// Accepts the upper-case enum spelling as well (e.g. "ARM64_V8A").
func ParseABI(s string) (ABI, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "armeabi_v7a":
		normalized = string(ABIArmeabiV7A)
	case "arm64_v8a":
		normalized = string(ABIArm64V8A)
	}
	a := ABI(normalized)
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

// ContainsABI reports whether abis contains a.
func ContainsABI(abis []ABI, a ABI) bool {
	for _, candidate := range abis {
		if candidate == a {
			return true
		}
	}
	return false
}

func joinABIs(abis []ABI) string {
	s := make([]string, len(abis))
	for i, a := range abis {
		s[i] = string(a)
	}
	return strings.Join(s, ", ")
}

// DisplayCategory groups applications for presentation.
type DisplayCategory string

const (
	// CategoryFromMozilla marks browsers published by Mozilla.
	CategoryFromMozilla DisplayCategory = "from_mozilla"
	// CategoryBasedOnFirefox marks Firefox forks.
	CategoryBasedOnFirefox DisplayCategory = "based_on_firefox"
	// CategoryGoodPrivacyBrowser marks privacy-focused browsers.
	CategoryGoodPrivacyBrowser DisplayCategory = "good_privacy_browser"
	// CategoryOther is everything else.
	CategoryOther DisplayCategory = "other"
)

// AllDisplayCategories returns all valid display categories.
func AllDisplayCategories() []DisplayCategory {
	return []DisplayCategory{CategoryFromMozilla, CategoryBasedOnFirefox, CategoryGoodPrivacyBrowser, CategoryOther}
}

// Validate checks if the DisplayCategory is a valid value.
func (c DisplayCategory) Validate() error {
	switch c {
	case CategoryFromMozilla, CategoryBasedOnFirefox, CategoryGoodPrivacyBrowser, CategoryOther:
		return nil
	case "":
		return fmt.Errorf("display category is required")
	default:
		return fmt.Errorf("invalid display category '%s'", c)
	}
}

// String returns the string representation of the DisplayCategory.
func (c DisplayCategory) String() string {
	return string(c)
}

// ParseDisplayCategory parses a string into a DisplayCategory.
func ParseDisplayCategory(s string) (DisplayCategory, error) {
	c := DisplayCategory(strings.ToLower(s))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}
