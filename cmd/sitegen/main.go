package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"secretlocale/pkg/config"
	"secretlocale/pkg/services"
)

func newIndex() *services.Index {
	scanner := services.NewScanner(config.ContentDir)
	scanner.MaxDepth = config.ScanMaxDepth
	return services.NewIndex(scanner, config.CacheFile, config.PostsPerPage)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sitegen",
		Short: "Regenerate the blog cache and sitemap",
	}

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Re-scan the content tree and rewrite the blog cache snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Init()
			index := newIndex()
			count, err := index.Rebuild()
			if err != nil {
				return err
			}
			fmt.Printf("Cache generated with %d posts at %s\n", count, config.CacheFile)
			return nil
		},
	}

	sitemapCmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Generate sitemap.xml from the blog cache snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Init()
			index := newIndex()
			if err := index.Load(); err != nil {
				// No snapshot: emit a sitemap with just the static pages.
				fmt.Fprintf(os.Stderr, "warning: %v, writing minimal sitemap\n", err)
			}
			sitemap := services.NewSitemap(config.SiteURL, config.PublicDir)
			if err := sitemap.Write(index.Posts()); err != nil {
				return err
			}
			fmt.Printf("Sitemap generated at %s/sitemap.xml\n", config.PublicDir)
			return nil
		},
	}

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Regenerate cache then sitemap",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Init()
			index := newIndex()
			count, err := index.Rebuild()
			if err != nil {
				return err
			}
			sitemap := services.NewSitemap(config.SiteURL, config.PublicDir)
			if err := sitemap.Write(index.Posts()); err != nil {
				return err
			}
			fmt.Printf("Cache (%d posts) and sitemap regenerated\n", count)
			return nil
		},
	}

	rootCmd.AddCommand(cacheCmd, sitemapCmd, allCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
