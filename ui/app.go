// Package ui runs the interactive console menu. The session is an explicit
// state machine: the main menu, a listing of the current page and a detail
// prompt for a single movie. Every transition returns to the dispatch loop
// in Run, so navigation never grows the call stack.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/moviedeck/movie"
	"github.com/s0up4200/moviedeck/persist"
	"github.com/s0up4200/moviedeck/radarr"
	"github.com/s0up4200/moviedeck/tmdb"
)

// MovieSource fills a store with one batch of TMDB results
type MovieSource interface {
	SearchMovies(ctx context.Context, store *movie.Store, title string) (int, error)
	UpcomingMovies(ctx context.Context, store *movie.Store, page int) (int, error)
}

// Library reports whether a TMDB movie is already owned
type Library interface {
	Owned(ctx context.Context, tmdbID int) (radarr.LibraryMovie, bool, error)
}

type state int

const (
	stateMainMenu state = iota
	stateListing
	stateDetail
	stateExit
)

// listing describes the batch currently on screen
type listing struct {
	page     int
	mode     movie.SortMode
	paginate bool
}

type detailKind int

const (
	detailOverview detailKind = iota
	detailPoster
	detailLibrary
)

// App is one interactive session over a single record store
type App struct {
	source       MovieSource
	library      Library
	opener       Opener
	in           Input
	out          io.Writer
	store        *movie.Store
	formatter    *movie.TableFormatter
	logger       zerolog.Logger
	imageBaseURL string
	loadFile     string
	saveFile     string

	listing listing
	detail  detailKind
}

// Option configures an App
type Option func(*App)

// WithLibrary enables the library status key
func WithLibrary(library Library) Option {
	return func(a *App) {
		a.library = library
	}
}

// WithOpener sets how poster URLs are opened
func WithOpener(opener Opener) Option {
	return func(a *App) {
		a.opener = opener
	}
}

// WithFiles sets the files used by the load and save entries
func WithFiles(load, save string) Option {
	return func(a *App) {
		if load != "" {
			a.loadFile = load
		}
		if save != "" {
			a.saveFile = save
		}
	}
}

// WithImageBaseURL sets the prefix for poster URLs
func WithImageBaseURL(url string) Option {
	return func(a *App) {
		a.imageBaseURL = url
	}
}

// WithStore uses an existing store instead of a fresh one
func WithStore(store *movie.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// NewApp creates an interactive session
func NewApp(source MovieSource, in Input, out io.Writer, logger zerolog.Logger, opts ...Option) *App {
	a := &App{
		source:       source,
		in:           in,
		out:          out,
		store:        movie.NewStore(movie.DefaultCapacity),
		formatter:    movie.NewTableFormatter(),
		logger:       logger,
		imageBaseURL: tmdb.DefaultImageBaseURL,
		loadFile:     persist.DefaultLoadFile,
		saveFile:     persist.DefaultSaveFile,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.opener == nil {
		a.opener = NewSystemOpener(logger)
	}

	return a
}

// Store returns the session's record store
func (a *App) Store() *movie.Store {
	return a.store
}

// Run dispatches states until the user exits, input ends or ctx is done.
// End of input is a normal exit.
func (a *App) Run(ctx context.Context) error {
	current := stateMainMenu

	for current != stateExit {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch current {
		case stateMainMenu:
			current, err = a.mainMenu(ctx)
		case stateListing:
			current, err = a.listingMenu(ctx)
		case stateDetail:
			current, err = a.detailPrompt(ctx)
		default:
			return fmt.Errorf("unknown state %d", current)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				a.logger.Debug().Msg("Input closed, leaving interactive session")
				return nil
			}
			return err
		}
	}

	return nil
}

func (a *App) mainMenu(ctx context.Context) (state, error) {
	a.printf("\n\nWelcome to moviedeck\n")
	a.printf("Please choose below options: \n")
	a.printf("1. Search Movie Based on Title\n")
	a.printf("2. List of Upcoming Movies\n")
	a.printf("3. Sort Movies By Title (Ascending)\n")
	a.printf("4. Sort Movies By Title (Descending)\n")
	a.printf("5. Sort Movies By Popularity (Ascending)\n")
	a.printf("6. Sort Movies By Popularity (Descending)\n")
	a.printf("7. Read Data from File (%s)\n", a.loadFile)
	a.printf("8. Write Data to File (%s)\n", a.saveFile)
	a.printf("9. Exit\n")

	line, err := a.in.ReadLine()
	if err != nil {
		return stateExit, err
	}

	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		a.printf("Invalid choice. Please try again.\n")
		return stateMainMenu, nil
	}

	switch choice {
	case 1:
		a.printf("Please enter keyword for search movie\n")
		title, err := a.in.ReadLine()
		if err != nil {
			return stateExit, err
		}
		if _, err := a.source.SearchMovies(ctx, a.store, title); err != nil {
			a.report("search failed", err)
		}
		a.printf("%s", a.formatter.FormatTable(a.store, 1))
		a.listing = listing{page: 1, mode: movie.SortNone, paginate: false}
		return stateListing, nil

	case 2, 3, 4, 5, 6:
		modes := map[int]movie.SortMode{
			2: movie.SortNone,
			3: movie.SortTitleAsc,
			4: movie.SortTitleDesc,
			5: movie.SortPopularityAsc,
			6: movie.SortPopularityDesc,
		}
		a.listing = listing{page: 1, mode: modes[choice], paginate: true}
		a.showUpcoming(ctx)
		return stateListing, nil

	case 7:
		a.printf("Reading Data from File (%s)...\n", a.loadFile)
		if err := persist.LoadInto(a.store, a.loadFile); err != nil {
			a.report("load failed", err)
			return stateMainMenu, nil
		}
		a.printf("%s", a.formatter.FormatTable(a.store, 1))
		return stateMainMenu, nil

	case 8:
		a.printf("Writing Data to File (%s)...\n", a.saveFile)
		if err := persist.Save(a.store, a.saveFile); err != nil {
			a.report("save failed", err)
			return stateMainMenu, nil
		}
		a.printf("Data written to file: %s\n", a.saveFile)
		return stateMainMenu, nil

	case 9:
		a.printf("Exiting moviedeck\n")
		return stateExit, nil

	default:
		a.printf("Invalid choice. Please try again.\n")
		return stateMainMenu, nil
	}
}

// showUpcoming fetches the listing's page, applies its sort and prints it.
// A failed fetch still prints whatever was ingested before the failure.
func (a *App) showUpcoming(ctx context.Context) {
	if a.listing.mode != movie.SortNone {
		a.printf("Sorting Movies By %s...\n", a.listing.mode.Label())
	}

	if _, err := a.source.UpcomingMovies(ctx, a.store, a.listing.page); err != nil {
		a.report("fetching upcoming movies failed", err)
	}
	a.listing.mode.Apply(a.store)

	a.printf("%s", a.formatter.FormatTable(a.store, a.listing.page))
}

func (a *App) listingMenu(ctx context.Context) (state, error) {
	a.printf("\n\nPlease choose below options: \n")
	if a.listing.paginate {
		a.printf("Press the Up arrow key (or k) for previous page\n")
		a.printf("Press the Down arrow key (or j) for next page\n")
	}
	a.printf("Press v to view for poster image of specific movie\n")
	a.printf("Press r to read for overview of specific movie\n")
	a.printf("Press f to find a movie on this page by title\n")
	if a.library != nil {
		a.printf("Press l to check whether a movie is in the Radarr library\n")
	}
	a.printf("Press any other key to return main menu\n")

	key, err := a.in.ReadKey()
	if err != nil {
		return stateExit, err
	}

	switch {
	case key.Code == KeyInterrupt:
		return stateExit, nil
	case key.Is('r'):
		a.detail = detailOverview
		return stateDetail, nil
	case key.Is('v'):
		a.detail = detailPoster
		return stateDetail, nil
	case key.Is('l') && a.library != nil:
		a.detail = detailLibrary
		return stateDetail, nil
	case key.Is('f'):
		return a.find()
	}

	if a.listing.paginate {
		switch {
		case key.Code == KeyUp || key.Is('k') || key.Is('p'):
			a.listing.page--
			if a.listing.page < 1 {
				a.listing.page = 1
			}
			a.showUpcoming(ctx)
			return stateListing, nil
		case key.Code == KeyDown || key.Is('j') || key.Is('n'):
			a.listing.page++
			a.showUpcoming(ctx)
			return stateListing, nil
		}
	}

	return stateMainMenu, nil
}

func (a *App) find() (state, error) {
	a.printf("Enter title to find: ")
	query, err := a.in.ReadLine()
	if err != nil {
		return stateExit, err
	}

	matches := a.store.FindByTitle(query)
	if len(matches) == 0 {
		a.printf("No movie on this page matches %q\n", query)
		return stateListing, nil
	}

	found := movie.NewStore(len(matches))
	for _, r := range matches {
		if err := found.Append(r); err != nil {
			return stateExit, err
		}
	}
	a.printf("%s", a.formatter.FormatTable(found, 0))

	return stateListing, nil
}

func (a *App) detailPrompt(ctx context.Context) (state, error) {
	switch a.detail {
	case detailOverview:
		a.printf("Select ID to read overview: ")
	case detailPoster:
		a.printf("Select ID to view image: ")
	case detailLibrary:
		a.printf("Select ID to check in Radarr: ")
	}

	line, err := a.in.ReadLine()
	if err != nil {
		return stateExit, err
	}

	id, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		a.printf("Invalid ID: %q\n", strings.TrimSpace(line))
		return stateListing, nil
	}

	record, ok := a.store.GetByID(id)
	if !ok {
		a.printf("Movie not found.\n")
		return stateListing, nil
	}

	switch a.detail {
	case detailOverview:
		a.printf("%s", a.formatter.FormatOverview(record))

	case detailPoster:
		if record.PosterPath == "" {
			a.printf("No poster available for %s\n", record.Title)
			break
		}
		url := tmdb.PosterURL(a.imageBaseURL, record.PosterPath)
		if err := a.opener.Open(url); err != nil {
			a.logger.Warn().Err(err).Str("url", url).Msg("Failed to open poster")
			a.printf("Open this URL to view the poster: %s\n", url)
			break
		}
		a.printf("Opening poster: %s\n", url)

	case detailLibrary:
		owned, found, err := a.library.Owned(ctx, record.ID)
		if err != nil {
			a.report("radarr lookup failed", err)
			break
		}
		a.printf("%s", radarr.FormatStatus(record.Title, owned, found))
	}

	return stateListing, nil
}

// report prints an operation failure and logs it; the session continues
func (a *App) report(msg string, err error) {
	a.logger.Warn().Err(err).Msg(msg)
	a.printf("Error: %v\n", err)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
