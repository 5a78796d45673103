package executor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rickchristie/reactloop"
	"github.com/rickchristie/reactloop/hooks"
)

// EarlyStoppingMethod decides how a run ends when a budget is exhausted.
type EarlyStoppingMethod string

const (
	// EarlyStopForce returns ForceStopMessage without calling the model again.
	EarlyStopForce EarlyStoppingMethod = "force"

	// EarlyStopGenerate asks the agent for one final answer.
	EarlyStopGenerate EarlyStoppingMethod = "generate"
)

// ParsingErrorPolicy decides what happens when a completion cannot be parsed.
type ParsingErrorPolicy string

const (
	// OnParsingErrorRaise stops the run in StateFailedParsing.
	OnParsingErrorRaise ParsingErrorPolicy = "raise"

	// OnParsingErrorFeedback records the failure as an observation and continues.
	OnParsingErrorFeedback ParsingErrorPolicy = "feedback"
)

// ForceStopMessage is the answer of a run stopped by EarlyStopForce.
const ForceStopMessage = "Agent stopped due to iteration limit or time limit."

// DefaultMaxIterations is the iteration budget of DefaultConfig.
const DefaultMaxIterations = 15

// DefaultParseErrorObservation is the observation recorded for an unparseable completion
// under OnParsingErrorFeedback.
func DefaultParseErrorObservation(err *reactloop.ParseError) string {
	return fmt.Sprintf(
		"Invalid Format: could not parse your last response `%s`. Reply again following the required format exactly.",
		err.Output,
	)
}

// Config holds the run policy of an Executor. Zero budgets mean "no budget".
type Config struct {
	// MaxIterations bounds the number of loop iterations. 0 disables the bound.
	MaxIterations int

	// MaxWallClock bounds the elapsed time, checked at the top of each iteration.
	// 0 disables the bound.
	MaxWallClock time.Duration

	EarlyStopping  EarlyStoppingMethod
	OnParsingError ParsingErrorPolicy

	// ParseErrorObservation builds the feedback observation. Defaults to
	// DefaultParseErrorObservation.
	ParseErrorObservation func(err *reactloop.ParseError) string

	// AsyncTools dispatches every tool through RunAsync. Tools without RunAsync then fail
	// with reactloop.ErrUnsupportedOperation.
	AsyncTools bool

	Hooks        *hooks.Registry
	TimeProvider reactloop.TimeProvider

	// NewRunID generates run ids. Defaults to uuid.NewString.
	NewRunID func() string
}

// DefaultConfig returns 15 iterations, no wall-clock budget, force early stopping and raise
// on parse errors.
func DefaultConfig() Config {
	return Config{
		MaxIterations:  DefaultMaxIterations,
		EarlyStopping:  EarlyStopForce,
		OnParsingError: OnParsingErrorRaise,
	}
}

// WithMaxIterations sets the iteration budget. 0 disables it.
func (c Config) WithMaxIterations(n int) Config {
	c.MaxIterations = n
	return c
}

// WithMaxWallClock sets the wall-clock budget. 0 disables it.
func (c Config) WithMaxWallClock(d time.Duration) Config {
	c.MaxWallClock = d
	return c
}

// WithEarlyStopping sets the early stopping method.
func (c Config) WithEarlyStopping(m EarlyStoppingMethod) Config {
	c.EarlyStopping = m
	return c
}

// WithOnParsingError sets the parse error policy.
func (c Config) WithOnParsingError(p ParsingErrorPolicy) Config {
	c.OnParsingError = p
	return c
}

// WithParseErrorObservation sets the feedback observation builder.
func (c Config) WithParseErrorObservation(fn func(*reactloop.ParseError) string) Config {
	c.ParseErrorObservation = fn
	return c
}

// WithAsyncTools dispatches tools through RunAsync.
func (c Config) WithAsyncTools(enabled bool) Config {
	c.AsyncTools = enabled
	return c
}

// WithHooks sets the hook registry.
func (c Config) WithHooks(h *hooks.Registry) Config {
	c.Hooks = h
	return c
}

// WithTimeProvider sets the clock used for wall-clock budgets.
func (c Config) WithTimeProvider(tp reactloop.TimeProvider) Config {
	c.TimeProvider = tp
	return c
}

// WithRunIDGenerator sets the run id generator.
func (c Config) WithRunIDGenerator(fn func() string) Config {
	c.NewRunID = fn
	return c
}

// Validate checks enum values and budgets. Empty enums are accepted and take the defaults.
func (c Config) Validate() error {
	if c.MaxIterations < 0 {
		return reactloop.NewConfigurationError("executor", "max iterations must not be negative, got %d", c.MaxIterations)
	}
	if c.MaxWallClock < 0 {
		return reactloop.NewConfigurationError("executor", "max wall clock must not be negative, got %v", c.MaxWallClock)
	}
	switch c.EarlyStopping {
	case "", EarlyStopForce, EarlyStopGenerate:
	default:
		return reactloop.NewConfigurationError("executor", "unknown early stopping method %q", c.EarlyStopping)
	}
	switch c.OnParsingError {
	case "", OnParsingErrorRaise, OnParsingErrorFeedback:
	default:
		return reactloop.NewConfigurationError("executor", "unknown parsing error policy %q", c.OnParsingError)
	}
	return nil
}

// withDefaults fills empty fields.
func (c Config) withDefaults() Config {
	if c.EarlyStopping == "" {
		c.EarlyStopping = EarlyStopForce
	}
	if c.OnParsingError == "" {
		c.OnParsingError = OnParsingErrorRaise
	}
	if c.ParseErrorObservation == nil {
		c.ParseErrorObservation = DefaultParseErrorObservation
	}
	if c.TimeProvider == nil {
		c.TimeProvider = reactloop.NewDefaultTimeProvider()
	}
	if c.NewRunID == nil {
		c.NewRunID = uuid.NewString
	}
	return c
}
