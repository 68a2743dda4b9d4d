package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/configstruct/runner"
)

// RunCmd runs every job in the manifest.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every job in the manifest",
	Long: `Generate every struct, enum and files_enum job listed in the manifest.
Jobs run concurrently up to the manifest's parallelism; destinations that
already hold the generated text are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

// CheckCmd reports destinations that are out of date.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that generated files are up to date",
	Long: `Generate every job in memory and compare it with its destination.
Nothing is written. Exits non-zero when any destination is stale, which
makes it suitable for CI.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// WatchCmd regenerates on change.
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the manifest and rerun it when inputs change",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

var (
	showDiff      bool
	watchDebounce time.Duration
)

func init() {
	CheckCmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff for each stale destination")
	WatchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Wait this long after the last change before rerunning")
}

func runRun(cmd *cobra.Command, args []string) error {
	m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	results, err := runner.New(filesystem).Run(cmd.Context(), m)
	printResults(results)
	return err
}

func runCheck(cmd *cobra.Command, args []string) error {
	m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	results, err := runner.New(filesystem).Check(cmd.Context(), m, showDiff)
	for _, res := range results {
		switch {
		case res.Err != nil:
			pterm.Error.Printfln("%s: %v", res.Job.Name(), res.Err)
		case res.Stale:
			pterm.Warning.Printfln("%s is stale (%s)", res.Job.Destination, res.Job.Name())
			if res.Diff != "" {
				fmt.Fprint(cmd.OutOrStdout(), res.Diff)
			}
		default:
			pterm.Success.Printfln("%s is up to date", res.Job.Destination)
		}
	}
	return err
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := manifestPath(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printfln("Watching %s (Ctrl+C to stop)", path)
	return runner.New(filesystem).Watch(ctx, path, watchDebounce, func(results []runner.Result, err error) {
		printResults(results)
		if err != nil {
			pterm.Error.Println(err)
		}
	})
}

func printResults(results []runner.Result) {
	for _, res := range results {
		switch {
		case res.Err != nil:
			pterm.Error.Printfln("%s: %v", res.Job.Name(), res.Err)
		case res.Written:
			pterm.Success.Printfln("Generated %s (%s)", res.Job.Destination, res.Duration.Round(time.Millisecond))
		default:
			pterm.Info.Printfln("%s is up to date", res.Job.Destination)
		}
	}
}
