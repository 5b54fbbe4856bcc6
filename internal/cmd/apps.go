package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adamancini/ffrelease/internal/apps"
	"github.com/adamancini/ffrelease/internal/types"
)

type appList []apps.App

func newAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps [app...]",
		Short: "List registered apps",
		Long: `Apps lists the compiled-in apps and those added by the apps file, with the
static metadata used by installers: package name, supported ABIs, pinned
signature hash and release source.`,
		ValidArgsFunction: completeAppIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			selected, err := env.selectApps(args)
			if err != nil {
				return err
			}
			return env.out.Write(appList(selected))
		},
	}
}

// WriteText renders the app list as a table.
func (l appList) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPACKAGE\tSOURCE\tABIS\tMIN API\tSIGNATURE")
	for _, app := range l {
		signature := "unknown"
		if app.IsSignatureHashKnown() {
			signature = app.SignatureHash
			if len(signature) > 12 {
				signature = signature[:12] + "…"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s/%s\t%s\t%d\t%s\n",
			app.ID, app.PackageName, app.Source.Owner, app.Source.Repo,
			strings.Join(abiStrings(app.SupportedABIs), ","), app.MinAPILevel, signature)
	}
	return tw.Flush()
}

func abiStrings(abis []types.ABI) []string {
	s := make([]string, len(abis))
	for i, a := range abis {
		s[i] = a.String()
	}
	return s
}
