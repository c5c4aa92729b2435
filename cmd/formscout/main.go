package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/drivehoanmyareum-rgb/formscout/internal/artifact"
	"github.com/drivehoanmyareum-rgb/formscout/internal/banner"
	"github.com/drivehoanmyareum-rgb/formscout/internal/browser"
	"github.com/drivehoanmyareum-rgb/formscout/internal/scan"
	"github.com/drivehoanmyareum-rgb/formscout/internal/sitelist"
)

var (
	outDir        string
	headful       bool
	timeoutSec    int
	maxCandidates int
	verbose       bool
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "formscout <urls-file-or-url>",
		Short: "Find submission forms across a list of websites",
		Long: `formscout visits each site, looks for submit-like links, buttons and
clickable containers, follows them one hop, and records every page that
exposes a form together with its field structure.

Example:
  formscout urls.txt --out scan_outputs --max-candidates 10`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outDir, "out", "o", "scan_outputs", "Output root directory")
	rootCmd.Flags().BoolVar(&headful, "headful", false, "Run the browser with a visible window")
	rootCmd.Flags().IntVar(&timeoutSec, "timeout", 15, "Per-navigation timeout in seconds")
	rootCmd.Flags().IntVar(&maxCandidates, "max-candidates", 0, "Max candidates followed per site (0 = unlimited)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	banner.Print()

	urls, err := sitelist.Load(args[0])
	if err != nil {
		return err
	}

	store, err := artifact.NewStore(outDir)
	if err != nil {
		return err
	}

	fmt.Printf("→ Launching browser... ")
	sess, err := browser.New(browser.Options{Headful: headful})
	if err != nil {
		fmt.Println("failed")
		return fmt.Errorf("browser init failed: %w", err)
	}
	defer sess.Close()
	fmt.Println("done")

	scanner := scan.New(sess, store, scan.Options{
		Timeout:       time.Duration(timeoutSec) * time.Second,
		MaxCandidates: maxCandidates,
		Log:           logVerbose,
	})

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	allMeta := make([]scan.Result, 0, len(urls))
	for i, u := range urls {
		fmt.Printf("→ [%d/%d] Scanning %s\n", i+1, len(urls), u)
		res := scanner.ScanSite(u)
		allMeta = append(allMeta, res)

		if len(res.FoundForms) > 0 {
			_, _ = green.Printf("  ✓ %d form page(s)\n", len(res.FoundForms))
			for _, f := range res.FoundForms {
				fmt.Printf("    %s\n", f)
			}
		} else {
			_, _ = yellow.Printf("  ✗ no form found (%d candidates tried)\n", res.CandidatesFollowed)
		}
	}

	if err := store.WriteAllMeta(allMeta); err != nil {
		return fmt.Errorf("write all_meta.json: %w", err)
	}

	fmt.Printf("✓ Done, results in %s\n", store.Root())
	return nil
}

func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
