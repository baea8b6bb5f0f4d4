package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crediblehq/credible/internal/transcript"
)

// transcriptCmd represents the transcript command
var transcriptCmd = &cobra.Command{
	Use:   "transcript <url>",
	Short: "Load a YouTube transcript, extract its claims and verify them",
	Long: `Transcript loads the caption track of a YouTube video (watch link,
youtu.be link, embed link or bare video ID), preferring English with a
fallback to the first available language, and runs the full extraction
and verification flow over the spoken text.

Example:
  credible transcript https://www.youtube.com/watch?v=jNQXAC9IVRw
  credible transcript https://youtu.be/jNQXAC9IVRw --json report.json
  credible transcript jNQXAC9IVRw --no-verify`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscript,
}

func init() {
	rootCmd.AddCommand(transcriptCmd)

	// Output flags
	transcriptCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	transcriptCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	transcriptCmd.Flags().StringVar(&subject, "subject", "", "report subject (default: derived from video ID)")

	// Verification flags: transcript verifies by default, like check
	transcriptCmd.Flags().BoolVar(&noVerify, "no-verify", false, "extract claims without verifying them")
	transcriptCmd.Flags().StringVar(&topicContext, "context", "", "topic hint prefixed to every search query")

	// Runtime flags
	transcriptCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout")
	transcriptCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching (force fresh loads and searches)")
	transcriptCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	transcriptCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (default: gpt-4o-mini)")
	transcriptCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "OpenAI-compatible endpoint override")
}

func runTranscript(cmd *cobra.Command, args []string) error {
	url := args[0]
	doVerify = !noVerify

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	comps, err := buildComponents(buildConfig())
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Loading transcript for %s...\n", url)
	}

	tr, err := comps.transcripts.Load(ctx, url)
	if err != nil {
		return fmt.Errorf("transcript load failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %s transcript (%d characters)\n", tr.Language, len(tr.Text))
	}

	name := subject
	if name == "" {
		name = "youtube " + tr.VideoID
	}

	return analyzeText(ctx, comps, name, transcript.WatchURL(tr.VideoID), tr.Text)
}
