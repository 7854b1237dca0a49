package scoring

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownProfile is wrapped by UnknownProfileError
	ErrUnknownProfile = errors.New("unknown risk profile")
	// ErrMissingBenchmark means a known profile lacks a calibration for a metric
	ErrMissingBenchmark = errors.New("missing benchmark")
	// ErrInvalidBenchmark means a pair has a zero span or the wrong orientation
	ErrInvalidBenchmark = errors.New("invalid benchmark pair")
	// ErrNoUsableData means every requested ticker was skipped
	ErrNoUsableData = errors.New("no ticker produced usable price data")
	// ErrNoTickers means the request did not name any ticker
	ErrNoTickers = errors.New("no tickers requested")
)

// UnknownProfileError reports a risk profile missing from the registry
type UnknownProfileError struct {
	Profile string
	Valid   []string
}

func (e *UnknownProfileError) Error() string {
	quoted := make([]string, len(e.Valid))
	for i, v := range e.Valid {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("unknown risk profile %q, available profiles: [%s]", e.Profile, strings.Join(quoted, ","))
}

func (e *UnknownProfileError) Unwrap() error {
	return ErrUnknownProfile
}

// NoUsableDataError reports a portfolio in which every ticker was skipped
type NoUsableDataError struct {
	Requested int
	Skipped   []SkippedTicker
}

func (e *NoUsableDataError) Error() string {
	dropped := make([]string, len(e.Skipped))
	for i, s := range e.Skipped {
		dropped[i] = fmt.Sprintf("%s (%s)", s.Ticker, s.Reason)
	}
	return fmt.Sprintf("%s: %d requested, skipped: %s", ErrNoUsableData, e.Requested, strings.Join(dropped, "; "))
}

func (e *NoUsableDataError) Unwrap() error {
	return ErrNoUsableData
}
