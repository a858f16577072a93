package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moviedeck/filter"
	"github.com/s0up4200/moviedeck/movie"
	"github.com/s0up4200/moviedeck/persist"
)

var (
	// Listing flags shared by search, upcoming, show and fetch
	sortFlag   string
	filterFlag string
	hideOwned  bool
	pageFlag   int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search TMDB for movies by title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

// upcomingCmd represents the upcoming command
var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List one page of upcoming movies",
	Args:  cobra.NoArgs,
	RunE:  runUpcoming,
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a saved movie file as a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, upcomingCmd, showCmd} {
		addListingFlags(c)
	}
	upcomingCmd.Flags().IntVar(&pageFlag, "page", 1, "page to fetch (values below 1 fetch page 1)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(showCmd)
}

func addListingFlags(c *cobra.Command) {
	c.Flags().StringVarP(&sortFlag, "sort", "s", "", "sort mode: title, -title, popularity, -popularity or none")
	c.Flags().StringVarP(&filterFlag, "filter", "f", "", "filter expression or the name of a filter from config")
	c.Flags().BoolVar(&hideOwned, "hide-owned", false, "drop movies already in the Radarr library")
}

func runSearch(cmd *cobra.Command, args []string) error {
	mode, err := movie.ParseSortMode(sortFlag)
	if err != nil {
		return err
	}

	client, err := newMovieClient()
	if err != nil {
		return err
	}

	store := movie.NewStore(cfg.TMDB.PageSize)
	if _, err := client.SearchMovies(cmd.Context(), store, strings.Join(args, " ")); err != nil {
		return err
	}

	return present(cmd.Context(), store, mode, 1)
}

func runUpcoming(cmd *cobra.Command, args []string) error {
	mode, err := movie.ParseSortMode(sortFlag)
	if err != nil {
		return err
	}

	client, err := newMovieClient()
	if err != nil {
		return err
	}

	page := max(pageFlag, 1)
	store := movie.NewStore(cfg.TMDB.PageSize)
	if _, err := client.UpcomingMovies(cmd.Context(), store, page); err != nil {
		return err
	}

	return present(cmd.Context(), store, mode, page)
}

func runShow(cmd *cobra.Command, args []string) error {
	mode, err := movie.ParseSortMode(sortFlag)
	if err != nil {
		return err
	}

	store, err := persist.Load(args[0])
	if err != nil {
		return err
	}

	return present(cmd.Context(), store, mode, 1)
}

// refine applies the --filter and --hide-owned flags, then the sort mode
func refine(ctx context.Context, store *movie.Store, mode movie.SortMode) error {
	if filterFlag != "" {
		f, err := filter.CompileFilter(cfg.Filters.Resolve(filterFlag))
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		removed, err := filter.Retain(store, f)
		if err != nil {
			return err
		}
		logger.Debug().Str("filter", f.Expression()).Int("removed", removed).Msg("Applied filter")
	}

	if hideOwned {
		if err := dropOwned(ctx, store); err != nil {
			return err
		}
	}

	mode.Apply(store)
	return nil
}

func present(ctx context.Context, store *movie.Store, mode movie.SortMode, page int) error {
	if err := refine(ctx, store, mode); err != nil {
		return err
	}

	fmt.Print(movie.NewTableFormatter().FormatTable(store, page))
	return nil
}

// dropOwned removes records whose TMDB id is in the Radarr library
func dropOwned(ctx context.Context, store *movie.Store) error {
	library, err := newLibraryClient()
	if err != nil {
		return fmt.Errorf("failed to create Radarr client: %w", err)
	}
	if library == nil {
		return fmt.Errorf("--hide-owned requires radarr.enabled")
	}

	index, err := library.Library(ctx)
	if err != nil {
		return err
	}

	removed, err := filter.Retain(store, filter.Func(func(r movie.Record) bool {
		_, owned := index.Lookup(r.ID)
		return !owned
	}))
	if err != nil {
		return err
	}

	logger.Info().Int("removed", removed).Msg("Dropped movies already in the Radarr library")
	return nil
}
