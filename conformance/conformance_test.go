package conformance

import (
	"testing"
)

func TestConformance(t *testing.T) {
	tests, err := LoadAllTests()
	if err != nil {
		t.Fatalf("Failed to load tests: %v", err)
	}
	if len(tests) == 0 {
		t.Fatal("No tests loaded")
	}

	runner := NewRunner()
	results := runner.RunAll(tests)
	stats := ComputeStats(results)

	// Group results by file for organized output
	fileGroups := make(map[string][]TestResult)
	for _, result := range results {
		fileGroups[result.Test.File] = append(fileGroups[result.Test.File], result)
	}

	for file, fileResults := range fileGroups {
		t.Run(file, func(t *testing.T) {
			for _, result := range fileResults {
				t.Run(result.Test.Test.Name, func(t *testing.T) {
					if result.Skipped {
						t.Skipf("Skipped: %s", result.SkipReason)
					} else if !result.Passed {
						t.Errorf("Test failed: %v", result.Error)
					}
				})
			}
		})
	}

	t.Logf("\n=== Summary ===\n%s", FormatStats(stats))
}

func TestLoadAllTests(t *testing.T) {
	tests, err := LoadAllTests()
	if err != nil {
		t.Fatalf("Failed to load tests: %v", err)
	}
	t.Logf("Loaded %d test cases from conformance suite", len(tests))

	for _, test := range tests {
		if test.Test.Name == "" {
			t.Errorf("test in %s has no name", test.File)
		}
		if test.Test.Source == "" {
			t.Errorf("test %s in %s has no source", test.Test.Name, test.File)
		}
		if test.Test.Expect.Error == "" && test.Test.Expect.Return == nil && test.Test.Expect.Output == nil {
			t.Errorf("test %s in %s has no expectation", test.Test.Name, test.File)
		}
	}

	files := make(map[string]bool)
	for _, test := range tests {
		files[test.File] = true
	}
	t.Logf("Found %d test files", len(files))
}
