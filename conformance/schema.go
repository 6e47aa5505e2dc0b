package conformance

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Tests       []TestCase `yaml:"tests"`
}

// TestCase represents a single program run within a suite
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"` // bool or reason string
	Source      string      `yaml:"source"`         // complete C program
	Input       []string    `yaml:"input,omitempty"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines what result is expected from running a program.
// Exactly one of Return or Error is set; Output may accompany either.
type Expectation struct {
	Return    *int32   `yaml:"return,omitempty"`     // final return value of main
	Output    []string `yaml:"output,omitempty"`     // terminal lines, in order
	Error     string   `yaml:"error,omitempty"`      // error kind name, e.g. DoubleFree
	ErrorLine int      `yaml:"error_line,omitempty"` // source line of the failure
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}
	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
