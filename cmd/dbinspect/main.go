// Package main provides an offline inspection and seeding tool for a CineTag store.
//
// Usage:
//
//	dbinspect audit --path ~/CineTag/db
//	dbinspect audit --driver sqlite --path ~/CineTag/cinetag.db
//	dbinspect stats --path ~/CineTag/db
//	dbinspect seed --path ~/CineTag/db --users 4 --posts 3
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/cinetag/cinetag-server/internal/config"
	"github.com/cinetag/cinetag-server/internal/logger"
	"github.com/cinetag/cinetag-server/internal/service"
	"github.com/cinetag/cinetag-server/internal/store"
	"github.com/cinetag/cinetag-server/internal/store/sqlite"
)

var (
	dbPath   string
	driver   string
	failOnly bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "path", os.Getenv("DB_PATH"), "store path (badger directory or sqlite file)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", config.StoreBadger, "store driver (badger, sqlite)")
	auditCmd.Flags().BoolVar(&failOnly, "fail", false, "exit non-zero when findings exist")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(statsCmd)
}

// openStore opens the store named by the flags. The caller must Close it.
func openStore() (store.Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("--path or DB_PATH is required")
	}

	switch driver {
	case config.StoreBadger:
		return store.New(dbPath, logger.Discard())
	case config.StoreSQLite:
		return sqlite.Open(dbPath, logger.Discard())
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
}

var rootCmd = &cobra.Command{
	Use:          "dbinspect",
	Short:        "Inspect a CineTag store",
	SilenceUsage: true,
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report drift between user lists and posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		report, err := service.NewAuditService(st, logger.Discard()).Run(context.Background())
		if err != nil {
			return fmt.Errorf("running audit: %w", err)
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		if failOnly && len(report.Findings) > 0 {
			return fmt.Errorf("%d findings", len(report.Findings))
		}
		return nil
	},
}

type storeStats struct {
	Users     int `json:"users"`
	Posts     int `json:"posts"`
	Tags      int `json:"tags"`
	Reactions int `json:"reactions"`
	BagItems  int `json:"bag_items"`
	Likes     int `json:"likes"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print document and reaction counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		ctx := context.Background()
		users, err := st.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}
		posts, err := st.ListPosts(ctx)
		if err != nil {
			return fmt.Errorf("listing posts: %w", err)
		}

		stats := storeStats{Users: len(users), Posts: len(posts)}
		for _, u := range users {
			stats.BagItems += len(u.MyBag)
			stats.Likes += len(u.Likes)
		}
		for _, p := range posts {
			stats.Tags += len(p.Tags)
			stats.Reactions += len(p.Likes) + len(p.Unlikes)
			for _, t := range p.Tags {
				stats.Reactions += len(t.Likes) + len(t.Unlikes)
			}
		}

		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
