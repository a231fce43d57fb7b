package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dealscout/internal/model"
	"github.com/sells-group/dealscout/pkg/producthunt"
)

var (
	trendingTopic string
	trendingLimit int
	trendingOut   string
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending Product Hunt launches",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("trending"); err != nil {
			return err
		}

		client := producthunt.NewClient(cfg.ProductHunt.Key,
			producthunt.WithBaseURL(cfg.ProductHunt.BaseURL),
		)

		var posts []model.Post
		var err error
		if trendingTopic != "" {
			slug := producthunt.ResolveTopic(trendingTopic)
			zap.L().Info("fetching topic posts", zap.String("topic", trendingTopic), zap.String("slug", slug))
			posts, err = client.Topic(cmd.Context(), slug, trendingLimit)
		} else {
			zap.L().Info("fetching trending posts", zap.Int("limit", trendingLimit))
			posts, err = client.Trending(cmd.Context(), trendingLimit)
		}
		if err != nil {
			return err
		}

		if trendingOut != "" {
			if err := writeJSON(trendingOut, posts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d posts to %s\n", len(posts), trendingOut)
			return nil
		}

		out, err := json.MarshalIndent(posts, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal posts")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	trendingCmd.Flags().StringVar(&trendingTopic, "topic", "", "filter by topic (e.g. marketing, developer-tools)")
	trendingCmd.Flags().IntVar(&trendingLimit, "limit", 10, "number of posts to fetch")
	trendingCmd.Flags().StringVar(&trendingOut, "out", "", "write posts JSON to this file instead of stdout")
	rootCmd.AddCommand(trendingCmd)
}
