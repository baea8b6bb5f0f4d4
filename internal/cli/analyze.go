package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crediblehq/credible/internal/model"
)

var (
	outJSON      string
	outMD        string
	subject      string
	topicContext string
	doVerify     bool
	timeout      time.Duration
	noCache      bool
	noFooter     bool
	llmModel     string
	llmBaseURL   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Extract and verify claims from a text file",
	Long: `Analyze reads news text from a file (or stdin with "-") and:
- Segments it into sentences with paragraph positions
- Classifies each sentence (fact claim, opinion, context, structural)
- Extracts structured fields from fact claims
- Deduplicates semantically identical claims into canonical records
- Optionally verifies each unique claim against web evidence

Example:
  credible analyze article.txt
  credible analyze article.txt --verify --json report.json --md report.md
  cat article.txt | credible analyze - --verify --context "UK politics"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&subject, "subject", "", "report subject (default: input file name)")

	// Verification flags
	analyzeCmd.Flags().BoolVar(&doVerify, "verify", false, "verify extracted claims against web evidence")
	analyzeCmd.Flags().StringVar(&topicContext, "context", "", "topic hint prefixed to every search query")

	// Runtime flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching (force fresh searches)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (default: gpt-4o-mini)")
	analyzeCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "OpenAI-compatible endpoint override")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	text, name, err := readInput(path)
	if err != nil {
		return err
	}
	if subject == "" {
		subject = name
	}

	comps, err := buildComponents(buildConfig())
	if err != nil {
		return err
	}

	return analyzeText(ctx, comps, subject, "", text)
}

// analyzeText runs the extraction pipeline (and, when requested,
// verification) over one document and renders the report. Shared by
// the analyze and check commands.
func analyzeText(ctx context.Context, comps *components, subject, sourceURL, text string) error {
	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Extracting claims from %q...\n", subject)
	}

	res, err := comps.pipeline.Run(ctx, text)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Segmented %d sentences\n", len(res.Sentences))
		fmt.Fprintf(os.Stderr, "✓ Registered %d unique claims (%d sentences skipped)\n", len(res.Claims), res.Skipped)
	}

	if doVerify {
		if err := verifyClaims(ctx, comps); err != nil {
			return err
		}
	}

	report := comps.pipeline.BuildReport(subject, sourceURL, res)
	return renderReport(comps, report)
}

// verifyClaims runs one verification pass over the pending claims
func verifyClaims(ctx context.Context, comps *components) error {
	comps.verifier.Context = topicContext
	if verbose {
		comps.verifier.Progress = func(canonical string) {
			fmt.Fprintf(os.Stderr, "⚙️  Verifying: %s\n", canonical)
		}
	}

	outcomes, err := comps.verifier.VerifyAll(ctx)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if verbose {
		counts := map[model.Verdict]int{}
		for _, o := range outcomes {
			counts[o.Verdict]++
		}
		fmt.Fprintf(os.Stderr, "✓ Verified %d claims", len(outcomes))
		for _, v := range []model.Verdict{model.VerdictVerified, model.VerdictFalse, model.VerdictPartiallyVerified, model.VerdictUnverifiable} {
			if counts[v] > 0 {
				fmt.Fprintf(os.Stderr, "  %s=%d", v, counts[v])
			}
		}
		fmt.Fprintln(os.Stderr)
	}
	return nil
}

func renderReport(comps *components, report *model.Report) error {
	if outJSON != "" {
		if err := comps.renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := comps.renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render Markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outMD)
		}
	}

	comps.renderer.RenderSummary(report, os.Stdout)
	return nil
}

// readInput loads the document text from a file, or stdin for "-"
func readInput(path string) (text, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read input: %w", err)
	}

	name = path
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	return string(data), name, nil
}

// buildConfig derives the effective configuration from defaults plus
// command flags
func buildConfig() model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if llmBaseURL != "" {
		cfg.LLM.BaseURL = llmBaseURL
	}
	return cfg
}
