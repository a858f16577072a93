package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/moviedeck/movie"
)

// DefaultCacheSize is the number of compiled expressions kept by CompileFilter
const DefaultCacheSize = 64

const releaseDateLayout = "2006-01-02"

var defaultCompiler = NewExprCompiler(WithCache(DefaultCacheSize))

// CompileFilter compiles expression with the shared caching compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	compiler   *exprCompiler
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[*exprFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// WithClock overrides the time source used by date helpers
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *exprCompiler) {
		c.now = now
	}
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[*exprFilter]
	now         func() time.Time
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: make(map[string]any),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Compile against a zero record so field and helper types are checked
	program, err := expr.Compile(expression,
		expr.Env(c.environment(movie.Record{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		compiler:   c,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate reports whether record matches. Records that fail to evaluate
// do not match.
func (f *exprFilter) Evaluate(record movie.Record) bool {
	ok, err := f.Check(record)
	return err == nil && ok
}

// Check evaluates the filter and returns an *EvaluationError on failure
func (f *exprFilter) Check(record movie.Record) (bool, error) {
	result, err := expr.Run(f.program, f.compiler.environment(record))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieID:    record.ID,
			MovieTitle: record.Title,
			Err:        err,
		}
	}

	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// environment builds the variables and helpers visible to an expression
func (c *exprCompiler) environment(record movie.Record) map[string]any {
	env := make(map[string]any, 32)

	released, _ := time.Parse(releaseDateLayout, record.ReleaseDate)

	env["ID"] = record.ID
	env["Title"] = record.Title
	env["Overview"] = record.Overview
	env["PosterPath"] = record.PosterPath
	env["ReleaseDate"] = record.ReleaseDate
	env["Released"] = released
	env["Popularity"] = record.Popularity
	env["VoteAverage"] = record.VoteAverage
	env["VoteCount"] = record.VoteCount

	now := c.now

	// Case-insensitive string helpers; the contains, startsWith and endsWith
	// operators stay case-sensitive
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["istartsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["iendsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}

	// Date helpers
	env["parseDate"] = func(date string) time.Time {
		t, _ := time.Parse(releaseDateLayout, date)
		return t
	}
	env["daysAgo"] = func(days int) time.Time {
		return now().AddDate(0, 0, -days)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return now().AddDate(-years, 0, 0)
	}

	// Record helpers; an unknown release date never matches a date bound
	env["year"] = func() int {
		if released.IsZero() {
			return 0
		}
		return released.Year()
	}
	env["releasedAfter"] = func(date string) bool {
		bound, err := time.Parse(releaseDateLayout, date)
		return err == nil && !released.IsZero() && released.After(bound)
	}
	env["releasedBefore"] = func(date string) bool {
		bound, err := time.Parse(releaseDateLayout, date)
		return err == nil && !released.IsZero() && released.Before(bound)
	}
	env["hasPoster"] = func() bool {
		return record.PosterPath != ""
	}

	maps.Copy(env, c.helperFuncs)

	return env
}
