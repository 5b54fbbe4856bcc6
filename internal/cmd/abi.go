package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamancini/ffrelease/internal/types"
	"github.com/adamancini/ffrelease/internal/update"
)

type abiSelection struct {
	App    string    `json:"app" yaml:"app"`
	ABI    types.ABI `json:"abi,omitempty" yaml:"abi,omitempty"`
	Suffix string    `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Error  string    `json:"error,omitempty" yaml:"error,omitempty"`
}

type abiReport struct {
	DeviceABIs  []types.ABI    `json:"device_abis" yaml:"device_abis"`
	Prefer32Bit bool           `json:"prefer_32bit" yaml:"prefer_32bit"`
	Selections  []abiSelection `json:"selections" yaml:"selections"`
}

func newABICmd() *cobra.Command {
	var (
		abiFlags    []string
		prefer32Bit bool
	)

	cmd := &cobra.Command{
		Use:   "abi [app...]",
		Short: "Show device ABIs and the release asset each app would use",
		Long: `ABI prints the processor ABIs of this device in preference order and, for each
app, the ABI and asset file name suffix that check would look for. No network
access is needed.`,
		ValidArgsFunction: completeAppIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			targets, err := env.selectApps(args)
			if err != nil {
				return err
			}
			dev, err := deviceFor(abiFlags)
			if err != nil {
				return err
			}
			prefs := env.preferences(cmd, prefer32Bit)

			report := abiReport{DeviceABIs: dev.SupportedABIs, Prefer32Bit: prefs.Prefer32BitAPKs()}
			for _, app := range targets {
				selection := abiSelection{App: app.ID}
				abi, suffix, err := update.SelectABISuffix(dev, app.SupportedABIs, prefs.Prefer32BitAPKs(), app.Source.AssetSuffix)
				selection.ABI, selection.Suffix = abi, suffix
				if err != nil {
					if !errors.Is(err, update.ErrUnsupportedArchitecture) {
						return err
					}
					selection.Error = err.Error()
				}
				report.Selections = append(report.Selections, selection)
			}

			return env.out.Write(report)
		},
	}

	cmd.Flags().StringSliceVar(&abiFlags, "abi", nil, "Device ABIs in preference order (default: detected)")
	cmd.Flags().BoolVar(&prefer32Bit, "prefer-32bit", false, "Prefer 32-bit builds (default from FFRELEASE_PREFER_32BIT)")

	return cmd
}

// WriteText renders the ABI report for humans.
func (r abiReport) WriteText(w io.Writer) error {
	device := strings.Join(abiStrings(r.DeviceABIs), ", ")
	if device == "" {
		device = "(none)"
	}
	if _, err := fmt.Fprintf(w, "Device ABIs: %s\nPrefer 32-bit: %t\n", device, r.Prefer32Bit); err != nil {
		return err
	}
	for _, s := range r.Selections {
		var err error
		if s.Error != "" {
			_, err = fmt.Fprintf(w, "%s: no compatible build (%s)\n", s.App, s.Error)
		} else {
			_, err = fmt.Fprintf(w, "%s: %s (*%s)\n", s.App, s.ABI, s.Suffix)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
