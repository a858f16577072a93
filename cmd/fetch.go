package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moviedeck/movie"
	"github.com/s0up4200/moviedeck/persist"
)

var (
	outFile     string
	searchTitle string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Save a page of upcoming movies or search results to a file",
	Long: `Fetch one batch from TMDB and write it in the same format the interactive
menu saves. Without --search the upcoming list is fetched.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	addListingFlags(fetchCmd)
	fetchCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default is files.save from config)")
	fetchCmd.Flags().StringVar(&searchTitle, "search", "", "search by title instead of listing upcoming movies")
	fetchCmd.Flags().IntVar(&pageFlag, "page", 1, "upcoming page to fetch")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mode, err := movie.ParseSortMode(sortFlag)
	if err != nil {
		return err
	}

	client, err := newMovieClient()
	if err != nil {
		return err
	}

	store := movie.NewStore(cfg.TMDB.PageSize)
	if searchTitle != "" {
		_, err = client.SearchMovies(ctx, store, searchTitle)
	} else {
		_, err = client.UpcomingMovies(ctx, store, max(pageFlag, 1))
	}
	if err != nil {
		return err
	}

	if err := refine(ctx, store, mode); err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = cfg.Files.Save
	}

	if err := persist.Save(store, path); err != nil {
		return err
	}

	logger.Debug().Str("path", path).Int("count", store.Count()).Msg("Saved movies")
	fmt.Printf("Data written to file: %s (%d movies)\n", path, store.Count())
	return nil
}
