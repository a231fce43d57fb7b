package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dealscout/internal/model"
)

var (
	crawlCategories []string
	crawlMax        int
	crawlSort       string
	crawlMode       string
	crawlOut        string
	crawlRateLimOut string
	crawlRetryFile  string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the AppSumo marketplace for product deals",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("crawl"); err != nil {
			return err
		}
		ctx := cmd.Context()

		env, err := initCrawlEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if crawlRetryFile != "" {
			return runRetry(cmd, env)
		}

		req := model.CrawlRequest{
			Categories:  crawlCategories,
			MaxProducts: crawlMax,
			SortBy:      crawlSort,
			Mode:        model.CrawlMode(crawlMode),
		}
		if req.MaxProducts == 0 {
			req.MaxProducts = cfg.Crawl.MaxProducts
		}
		if req.Mode == "" {
			req.Mode = model.CrawlMode(cfg.Crawl.Mode)
		}

		run, err := env.store.CreateRun(ctx, req)
		if err != nil {
			return err
		}
		if err := env.store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
			return err
		}

		result, err := env.crawler.CrawlMarketplace(ctx, req, logCallbacks())
		if err != nil {
			if ferr := env.store.FailRun(ctx, run.ID, err.Error()); ferr != nil {
				zap.L().Warn("record run failure", zap.Error(ferr))
			}
			return err
		}
		if err := env.store.UpdateRunResult(ctx, run.ID, result); err != nil {
			return err
		}

		return reportResult(cmd, result)
	},
}

func runRetry(cmd *cobra.Command, env *crawlEnv) error {
	data, err := os.ReadFile(crawlRetryFile)
	if err != nil {
		return eris.Wrap(err, "read rate-limited file")
	}
	var entries []model.RateLimitedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return eris.Wrap(err, "parse rate-limited file")
	}

	result, err := env.crawler.RetryRateLimited(cmd.Context(), entries, model.CrawlMode(crawlMode), logCallbacks())
	if err != nil {
		return err
	}
	return reportResult(cmd, result)
}

func reportResult(cmd *cobra.Command, result *model.CrawlResult) error {
	zap.L().Info("crawl complete",
		zap.Int("products", len(result.Products)),
		zap.Int("rate_limited", len(result.RateLimited)),
	)

	if crawlOut != "" {
		if err := writeJSON(crawlOut, result.Products); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d products to %s\n", len(result.Products), crawlOut)
	} else {
		out, err := json.MarshalIndent(result.Products, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal products")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}

	if len(result.RateLimited) > 0 && crawlRateLimOut != "" {
		if err := writeJSON(crawlRateLimOut, result.RateLimited); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rate-limited entries to %s (retry with --retry-rate-limited)\n",
			len(result.RateLimited), crawlRateLimOut)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	return eris.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}

func init() {
	crawlCmd.Flags().StringSliceVar(&crawlCategories, "categories", nil, "category filters (first one selects the listing page)")
	crawlCmd.Flags().IntVar(&crawlMax, "max", 0, "maximum products to scrape (default from config)")
	crawlCmd.Flags().StringVar(&crawlSort, "sort", "", "listing sort: recommended, rating, latest, review_count, popularity, newest, price_low, price_high")
	crawlCmd.Flags().StringVar(&crawlMode, "mode", "", "crawl mode: fast or complete (default from config)")
	crawlCmd.Flags().StringVar(&crawlOut, "out", "", "write products JSON to this file instead of stdout")
	crawlCmd.Flags().StringVar(&crawlRateLimOut, "rate-limited-out", "", "write rate-limited entries JSON to this file")
	crawlCmd.Flags().StringVar(&crawlRetryFile, "retry-rate-limited", "", "retry entries from a previous rate-limited JSON file")
	rootCmd.AddCommand(crawlCmd)
}
