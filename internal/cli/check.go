package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Fetch an article URL, extract its claims and verify them",
	Long: `Check fetches a single article, reduces it to readable text and runs
the full extraction and verification flow over it. Fetching respects
robots.txt and rate limits per host.

Example:
  credible check https://example.com/news/economy-report
  credible check https://example.com/news/economy-report --json report.json
  credible check https://example.com/article --no-verify --md claims.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var noVerify bool

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().StringVar(&subject, "subject", "", "report subject (default: derived from URL)")

	// Verification flags: check verifies by default, unlike analyze
	checkCmd.Flags().BoolVar(&noVerify, "no-verify", false, "extract claims without verifying them")
	checkCmd.Flags().StringVar(&topicContext, "context", "", "topic hint prefixed to every search query")

	// Runtime flags
	checkCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching (force fresh fetch and searches)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	checkCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (default: gpt-4o-mini)")
	checkCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "OpenAI-compatible endpoint override")
}

func runCheck(cmd *cobra.Command, args []string) error {
	url := args[0]
	doVerify = !noVerify

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	comps, err := buildComponents(buildConfig())
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching %s...\n", url)
	}

	article, err := comps.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	name := subject
	if name == "" {
		name = article.Subject
	}

	return analyzeText(ctx, comps, name, article.URL, article.Text)
}
