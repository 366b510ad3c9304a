package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"MuzBot/config"
	"MuzBot/core/catalog"

	"github.com/spf13/cobra"
)

var (
	searchQuery  string
	searchLimit  int
	searchOffset int
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query the audio catalog from the command line",
	Long:  `Searches the configured audio catalog and prints matching tracks with their stream URLs.`,
	Run: func(cmd *cobra.Command, args []string) {
		if searchQuery == "" {
			fmt.Println("provide a query with --query")
			os.Exit(1)
		}

		cfg := config.Load()
		client := catalog.NewClient(cfg.CatalogAPIURL, cfg.CatalogToken, cfg.CatalogTimeout)

		fmt.Printf("Searching %q...\n", searchQuery)
		tracks, err := client.Search(context.Background(), searchQuery, searchLimit, searchOffset)
		if err != nil {
			log.Fatalf("search failed: %v", err)
		}
		if len(tracks) == 0 {
			fmt.Println("No tracks found.")
			return
		}

		fmt.Printf("\nFound %d tracks:\n", len(tracks))
		for i, t := range tracks {
			fmt.Printf("%d. %s - %s (%ds)\n   id=%s\n   %s\n",
				searchOffset+i+1, t.Artist, t.Title, t.Duration, t.ID, t.MediaURL)
		}
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query")
	catalogCmd.Flags().IntVarP(&searchLimit, "limit", "l", 5, "number of results")
	catalogCmd.Flags().IntVarP(&searchOffset, "offset", "o", 0, "result offset")
	rootCmd.AddCommand(catalogCmd)
}
