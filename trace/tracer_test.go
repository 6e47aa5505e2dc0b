package trace

import (
	"bytes"
	"strings"
	"testing"

	"rewind/types"
)

func TestStepEmitsEvent(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)
	tr.Step("main", types.NewLocation(3, 1))

	out := buf.String()
	if !strings.Contains(out, `"event":"step"`) {
		t.Errorf("output missing step event: %s", out)
	}
	if !strings.Contains(out, `"function":"main"`) {
		t.Errorf("output missing function name: %s", out)
	}
}

func TestFiltersRestrictStepAndCall(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf).WithFilters([]string{"fact*"})

	tr.Step("main", types.NewLocation(1, 1))
	tr.Call("main", 1, types.NewLocation(1, 1))
	if buf.Len() != 0 {
		t.Errorf("filtered function produced output: %s", buf.String())
	}

	tr.Step("factorial", types.NewLocation(2, 1))
	if !strings.Contains(buf.String(), `"function":"factorial"`) {
		t.Errorf("matching function produced no output")
	}
}

func TestAllocIgnoresFilters(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf).WithFilters([]string{"nothing"})

	tr.Alloc(0x10000000, 8, types.NewLocation(4, 1))
	if !strings.Contains(buf.String(), `"event":"alloc"`) {
		t.Errorf("alloc event missing: %s", buf.String())
	}
}

func TestNilTracerIsSafe(t *testing.T) {
	var tr *Tracer
	tr.Step("main", types.NewLocation(1, 1))
	tr.Call("main", 1, types.NewLocation(1, 1))
	tr.Return("main", 1, types.NewInt(0))
	tr.Alloc(1, 1, types.NewLocation(1, 1))
	tr.Free(1, types.NewLocation(1, 1))
	tr.Snapshot(0, 0)
	tr.RunError(nil)
}
