package filter

import (
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/NomelN/Ivoire-cine/tmdb"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	logger     zerolog.Logger
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithLogger reports evaluation failures
func WithLogger(logger zerolog.Logger) ExprCompilerOption {
	return func(c *exprCompiler) {
		c.logger = logger
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	cache  *lruCache
	logger zerolog.Logger
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

	// The zero movie gives the checker the type of every variable.
	program, err := expr.Compile(expression,
		expr.Env(createEnvironment(tmdb.Movie{})),
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
		logger:     c.logger,
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
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against a movie. A runtime failure
// excludes the movie.
func (f *exprFilter) Evaluate(movie tmdb.Movie) bool {
	result, err := expr.Run(f.program, createEnvironment(movie))
	if err != nil {
		f.logger.Debug().
			Err(&EvaluationError{Expression: f.expression, MovieTitle: movie.Title, Err: err}).
			Msg("Filter evaluation failed")
		return false
	}

	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createEnvironment exposes a movie's fields and helpers to expressions
func createEnvironment(movie tmdb.Movie) map[string]any {
	env := make(map[string]any, 11)

	genres := movie.GenreIDs
	env["hasGenre"] = func(id int) bool {
		return slices.Contains(genres, id)
	}

	env["Title"] = movie.Title
	env["OriginalTitle"] = movie.OriginalTitle
	env["Language"] = movie.OriginalLanguage
	env["ReleaseDate"] = movie.ReleaseDate
	env["Year"] = movie.Year()
	env["VoteAverage"] = movie.VoteAverage
	env["VoteCount"] = movie.VoteCount
	env["Popularity"] = movie.Popularity
	env["GenreIDs"] = movie.GenreIDs
	env["Adult"] = movie.Adult

	return env
}
