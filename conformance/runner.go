package conformance

import (
	"fmt"
	"strings"

	"rewind/interp"
	"rewind/parser"
	"rewind/types"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner executes conformance tests
type Runner struct{}

// NewRunner creates a new test runner
func NewRunner() *Runner {
	return &Runner{}
}

// RunAll runs every loaded test and collects the results
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, 0, len(tests))
	for _, test := range tests {
		results = append(results, r.RunOne(test))
	}
	return results
}

// RunOne executes a single test case
func (r *Runner) RunOne(test LoadedTest) TestResult {
	result := TestResult{Test: test}

	if skipped, reason := test.Test.IsSkipped(); skipped {
		result.Skipped = true
		result.SkipReason = reason
		return result
	}

	if err := r.runCase(test.Test); err != nil {
		result.Error = err
		return result
	}
	result.Passed = true
	return result
}

func (r *Runner) runCase(tc TestCase) error {
	program, err := parser.Parse(tc.Source)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	ip := interp.New(program, interp.Limits{})
	for _, line := range tc.Input {
		ip.PushInput(line)
	}
	runErr := ip.Run()

	if tc.Expect.Error != "" {
		if runErr == nil {
			return fmt.Errorf("expected %s error, program completed with return value %v",
				tc.Expect.Error, ip.ReturnValue())
		}
		if got := runErr.Code.String(); got != tc.Expect.Error {
			return fmt.Errorf("expected %s error, got %s (%v)", tc.Expect.Error, got, runErr)
		}
		if tc.Expect.ErrorLine != 0 {
			loc, ok := runErr.Location()
			if !ok {
				return fmt.Errorf("expected error at line %d, got error with no location", tc.Expect.ErrorLine)
			}
			if loc.Line != tc.Expect.ErrorLine {
				return fmt.Errorf("expected error at line %d, got line %d", tc.Expect.ErrorLine, loc.Line)
			}
		}
	} else {
		if runErr != nil {
			return fmt.Errorf("unexpected error: %v", runErr)
		}
		if tc.Expect.Return != nil {
			iv, ok := ip.ReturnValue().(types.IntValue)
			if !ok {
				return fmt.Errorf("return value %v is not an int", ip.ReturnValue())
			}
			if iv.Val != *tc.Expect.Return {
				return fmt.Errorf("return value = %d, want %d", iv.Val, *tc.Expect.Return)
			}
		}
	}

	if tc.Expect.Output != nil {
		got := ip.Output()
		if len(got) != len(tc.Expect.Output) {
			return fmt.Errorf("output = %q, want %q", got, tc.Expect.Output)
		}
		for i := range got {
			if got[i] != tc.Expect.Output[i] {
				return fmt.Errorf("output line %d = %q, want %q", i, got[i], tc.Expect.Output[i])
			}
		}
	}

	return nil
}

// Stats summarizes a batch of test results
type Stats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats tallies results into summary statistics
func ComputeStats(results []TestResult) Stats {
	var stats Stats
	stats.Total = len(results)
	for _, result := range results {
		switch {
		case result.Skipped:
			stats.Skipped++
		case result.Passed:
			stats.Passed++
		default:
			stats.Failed++
		}
	}
	return stats
}

// FormatStats renders statistics for the test log
func FormatStats(stats Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total:   %d\n", stats.Total)
	fmt.Fprintf(&b, "Passed:  %d\n", stats.Passed)
	fmt.Fprintf(&b, "Failed:  %d\n", stats.Failed)
	fmt.Fprintf(&b, "Skipped: %d\n", stats.Skipped)
	return b.String()
}
