package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout dealgrid
var (
	ErrNoDatabase       = errors.New("no database configured")
	ErrSchemaMissing    = errors.New("database schema not initialized")
	ErrProjectExists    = errors.New("project already exists")
	ErrInvalidColumnArg = errors.New("invalid column argument")
)

// GridError is a structured error with context and suggestions
type GridError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *GridError) Error() string {
	return e.Title
}

func (e *GridError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *GridError) Format() string {
	var sb strings.Builder

	// Title
	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	// Context/message
	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}

	// Causes
	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	// Suggestions
	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new GridError
func NewError(title string) *GridError {
	return &GridError{Title: title}
}

// WithMessage adds a detailed message
func (e *GridError) WithMessage(msg string) *GridError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *GridError) WithContext(ctx string) *GridError {
	e.Context = ctx
	return e
}

// WithCause adds a possible cause
func (e *GridError) WithCause(cause string) *GridError {
	e.Causes = append(e.Causes, cause)
	return e
}

// WithCauses adds multiple possible causes
func (e *GridError) WithCauses(causes ...string) *GridError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestion adds an actionable suggestion
func (e *GridError) WithSuggestion(sug string) *GridError {
	e.Suggestions = append(e.Suggestions, sug)
	return e
}

// WithSuggestions adds multiple suggestions
func (e *GridError) WithSuggestions(sugs ...string) *GridError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *GridError) Wrap(err error) *GridError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *GridError {
	return NewError("Cannot connect to database").
		WithContext(RedactURL(url)).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"dealgrid config database.url            # Check the configured URL",
			"dealgrid --db '' open                   # Use the in-memory demo data",
		).
		Wrap(err)
}

// SchemaMissingError is returned when the dealgrid tables do not exist yet
func SchemaMissingError(err error) *GridError {
	return NewError("Database is not initialized").
		WithMessage("The dealgrid tables were not found in this database").
		WithSuggestion("dealgrid init          # Create the schema").
		Wrap(err)
}

// ProjectNotFoundError returns a structured error for a missing project
func ProjectNotFoundError(id string) *GridError {
	return NewError(fmt.Sprintf("Project '%s' not found", id)).
		WithSuggestions(
			"dealgrid project list             # List projects",
			fmt.Sprintf("dealgrid project create %s    # Create it", id),
		)
}

// ViewNotFoundError returns a structured error for a missing view
func ViewNotFoundError(project, view string) *GridError {
	return NewError(fmt.Sprintf("View '%s' not found", view)).
		WithContext("project " + project).
		WithSuggestion("dealgrid views list    # List the project's views")
}

// ConfirmationRequiredError is returned by destructive commands run without --force
func ConfirmationRequiredError(what string) *GridError {
	return NewError("Refusing to " + what + " without confirmation").
		WithMessage("This cannot be undone.").
		WithSuggestion("Re-run with --force")
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *GridError {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestion(example)
	}
	return e
}
