package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crediblehq/credible/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check multiple article URLs from a file in parallel",
	Long: `Batch processes multiple article URLs concurrently:
- Read URLs from an input file (one per line, # for comments)
- Fetch and analyze articles in parallel with a bounded worker count
- Verify claims per article and write one report pair per URL

Example:
  credible batch urls.txt
  credible batch urls.txt --concurrency 4 --output-dir ./reports
  credible batch urls.txt --no-verify --timeout 20m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent article checks (default: from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./credible-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Inherit flags from check
	batchCmd.Flags().BoolVar(&noVerify, "no-verify", false, "extract claims without verifying them")
	batchCmd.Flags().StringVar(&topicContext, "context", "", "topic hint prefixed to every search query")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching (force fresh fetches and searches)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (default: gpt-4o-mini)")
	batchCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "OpenAI-compatible endpoint override")
}

// batchResult records how one URL's check ended
type batchResult struct {
	url     string
	subject string
	err     error
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	doVerify = !noVerify

	cfg := buildConfig()
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.BatchWorkers
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	urls, err := readURLFile(file)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", file)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	comps, err := buildComponents(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "⚙️  Processing %d URLs with %d workers...\n\n", len(urls), concurrency)

	results := make([]batchResult, len(urls))
	pool := worker.NewPool(concurrency)
	for i, url := range urls {
		i, url := i, url
		err := pool.Go(ctx, func(ctx context.Context) {
			results[i] = checkOne(ctx, comps.newAnalysis(), url)
		})
		if err != nil {
			results[i] = batchResult{url: url, err: err}
		}
	}
	pool.Wait()

	successCount := 0
	failureCount := 0
	for _, r := range results {
		if r.err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.url, r.err)
			continue
		}
		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s\n", r.subject)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d ok, %d failed, reports in %s\n",
		successCount, failureCount, outputDir)

	if failureCount == len(results) {
		return fmt.Errorf("all %d URLs failed", failureCount)
	}
	return nil
}

// checkOne fetches and analyzes one URL against its own claim store and
// writes a JSON+Markdown report pair into the output directory
func checkOne(ctx context.Context, comps *components, url string) batchResult {
	article, err := comps.fetcher.Fetch(ctx, url)
	if err != nil {
		return batchResult{url: url, err: fmt.Errorf("fetch: %w", err)}
	}

	res, err := comps.pipeline.Run(ctx, article.Text)
	if err != nil {
		return batchResult{url: url, err: fmt.Errorf("extract: %w", err)}
	}

	if doVerify {
		if err := verifyClaims(ctx, comps); err != nil {
			return batchResult{url: url, err: err}
		}
	}

	report := comps.pipeline.BuildReport(article.Subject, article.URL, res)

	slug := slugify(article.Subject)
	if err := comps.renderer.RenderJSON(report, filepath.Join(outputDir, slug+".json")); err != nil {
		return batchResult{url: url, err: fmt.Errorf("write JSON: %w", err)}
	}
	if err := comps.renderer.RenderMarkdown(report, filepath.Join(outputDir, slug+".md")); err != nil {
		return batchResult{url: url, err: fmt.Errorf("write Markdown: %w", err)}
	}

	return batchResult{url: url, subject: article.Subject}
}

// readURLFile loads URLs, one per line, skipping blanks and comments.
// Duplicate URLs collapse to one check.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}
	return urls, nil
}

// slugify makes a subject safe for use as a filename
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "report"
	}
	if len(slug) > 100 {
		slug = slug[:100]
	}
	return slug
}
