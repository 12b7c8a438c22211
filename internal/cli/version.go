package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the helper version, overridable at build time with
// -ldflags "-X .../internal/cli.Version=...".
var Version = "0.9.0"

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", styleBrand.Render("Polychromatic Helper"), styleVersion.Render(Version))
		fmt.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Printf("  Go: %s\n", runtime.Version())
	},
}
