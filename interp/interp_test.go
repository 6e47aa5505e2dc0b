package interp

import (
	"testing"

	"rewind/parser"
	"rewind/types"
)

func mustRun(t *testing.T, src string) *Interpreter {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ip := New(prog, Limits{})
	if rerr := ip.Run(); rerr != nil {
		t.Fatalf("run failed: %v", rerr)
	}
	return ip
}

func mustFail(t *testing.T, src string, code types.ErrCode) *types.RuntimeError {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ip := New(prog, Limits{})
	rerr := ip.Run()
	if rerr == nil {
		t.Fatalf("run succeeded, want %v", code)
	}
	if rerr.Code != code {
		t.Fatalf("error code = %v, want %v: %v", rerr.Code, code, rerr)
	}
	return rerr
}

func wantReturn(t *testing.T, ip *Interpreter, want int32) {
	t.Helper()
	iv, ok := ip.ReturnValue().(types.IntValue)
	if !ok {
		t.Fatalf("return value = %v, want Int", ip.ReturnValue())
	}
	if iv.Val != want {
		t.Errorf("return value = %d, want %d", iv.Val, want)
	}
}

func TestSimpleArithmetic(t *testing.T) {
	ip := mustRun(t, `int main() {
	int x = 5;
	int y = 10;
	return x + y;
}`)
	wantReturn(t, ip, 15)
	if ip.Heap().TotalAllocated() != 0 {
		t.Errorf("heap allocated %d bytes, want 0", ip.Heap().TotalAllocated())
	}
}

func TestDoubleFreeDetected(t *testing.T) {
	rerr := mustFail(t, `int main() {
	int *p = malloc(4);
	*p = 7;
	free(p);
	free(p);
	return 0;
}`, types.ErrDoubleFree)
	if rerr.Loc.Line != 5 {
		t.Errorf("error at line %d, want 5", rerr.Loc.Line)
	}
}

func TestStructThroughHeapPointer(t *testing.T) {
	ip := mustRun(t, `struct Point { int x; int y; };

int main() {
	struct Point *p = malloc(sizeof(struct Point));
	p->x = 1;
	p->y = 2;
	return p->x + p->y;
}`)
	wantReturn(t, ip, 3)
}

func TestPrintfOutput(t *testing.T) {
	ip := mustRun(t, `int main() {
	printf("%d-%d", 1, 2);
	return 0;
}`)
	out := ip.Output()
	if len(out) != 1 || out[0] != "1-2" {
		t.Errorf("output = %q, want [1-2]", out)
	}
}

func TestPrintfString(t *testing.T) {
	ip := mustRun(t, `int main() {
	char *s = "hi";
	printf("%s", s);
	return 0;
}`)
	out := ip.Output()
	if len(out) != 1 || out[0] != "hi" {
		t.Errorf("output = %q, want [hi]", out)
	}
}

func TestPointerArithmeticScaling(t *testing.T) {
	ip := mustRun(t, `int main() {
	int arr[5];
	arr[2] = 42;
	int *p = arr;
	int x = *(p + 2);
	int d = (p + 2) - p;
	return x + d;
}`)
	wantReturn(t, ip, 44)
}

func TestSizeofPackedStruct(t *testing.T) {
	ip := mustRun(t, `struct S { int a; char b; };

int main() {
	return sizeof(struct S);
}`)
	wantReturn(t, ip, 5)
}

func TestScopeShadowRestore(t *testing.T) {
	ip := mustRun(t, `int main() {
	int x = 1;
	{
		int x = 2;
		x = 3;
	}
	return x;
}`)
	wantReturn(t, ip, 1)
}

func TestArrayInitializerList(t *testing.T) {
	ip := mustRun(t, `int main() {
	int arr[4] = {10, 20, 30};
	return arr[0] + arr[2] + arr[3];
}`)
	wantReturn(t, ip, 40)
}

func TestStructInitializerList(t *testing.T) {
	ip := mustRun(t, `struct point {
	int x;
	int y;
};

int main() {
	struct point p = {3, 4};
	return p.x * 10 + p.y;
}`)
	wantReturn(t, ip, 34)
}

func TestTooManyInitializers(t *testing.T) {
	mustFail(t, `int main() {
	int arr[2] = {1, 2, 3};
	return 0;
}`, types.ErrUnsupportedOperation)
}

func TestSwitchFallthrough(t *testing.T) {
	ip := mustRun(t, `int main() {
	int n = 0;
	switch (2) {
	case 1:
		n += 1;
	case 2:
		n += 2;
	case 3:
		n += 4;
		break;
	case 4:
		n += 8;
	}
	return n;
}`)
	wantReturn(t, ip, 6)
}

func TestBreakExitsInnermostLoop(t *testing.T) {
	ip := mustRun(t, `int main() {
	int total = 0;
	for (int a = 0; a < 3; a++) {
		for (int b = 0; b < 3; b++) {
			if (b == 1) {
				break;
			}
			total += 1;
		}
		total += 10;
	}
	return total;
}`)
	wantReturn(t, ip, 33)
}

func TestWhileBreakContinue(t *testing.T) {
	ip := mustRun(t, `int main() {
	int sum = 0;
	int i = 0;
	while (1) {
		i = i + 1;
		if (i > 10) {
			break;
		}
		if (i % 2 == 0) {
			continue;
		}
		sum = sum + i;
	}
	return sum;
}`)
	wantReturn(t, ip, 25)
}

func TestDoWhile(t *testing.T) {
	ip := mustRun(t, `int main() {
	int n = 0;
	do {
		n = n + 1;
	} while (n < 3);
	return n;
}`)
	wantReturn(t, ip, 3)
}

func TestGoto(t *testing.T) {
	ip := mustRun(t, `int main() {
	int n = 0;
	n = n + 1;
	goto done;
	n = n + 100;
done:
	n = n + 10;
	return n;
}`)
	wantReturn(t, ip, 11)
}

func TestIntegerOverflow(t *testing.T) {
	mustFail(t, `int main() {
	int x = 2147483647;
	x = x + 1;
	return x;
}`, types.ErrIntegerOverflow)
}

func TestDivisionByZero(t *testing.T) {
	mustFail(t, `int main() {
	int x = 0;
	return 10 / x;
}`, types.ErrDivisionError)
}

func TestUninitializedRead(t *testing.T) {
	mustFail(t, `int main() {
	int x;
	int y = x + 1;
	return y;
}`, types.ErrUninitializedRead)
}

func TestHeapUninitializedRead(t *testing.T) {
	mustFail(t, `int main() {
	int *p = malloc(4);
	int x = *p;
	return x;
}`, types.ErrUninitializedRead)
}

func TestUseAfterFree(t *testing.T) {
	mustFail(t, `int main() {
	int *p = malloc(4);
	*p = 1;
	free(p);
	int x = *p;
	return x;
}`, types.ErrUseAfterFree)
}

func TestInvalidFree(t *testing.T) {
	mustFail(t, `int main() {
	int *p = malloc(4);
	free(p + 1);
	return 0;
}`, types.ErrInvalidFree)
}

func TestShortCircuitAvoidsRightOperand(t *testing.T) {
	ip := mustRun(t, `int main() {
	int x = 0;
	int y = (x != 0) && (10 / x > 1);
	int z = x == 0 ? 5 : 10 / x;
	return y + z;
}`)
	wantReturn(t, ip, 5)
}

func TestCharIntCoercion(t *testing.T) {
	ip := mustRun(t, `int main() {
	char c = 65;
	int n = c + 1;
	return n;
}`)
	wantReturn(t, ip, 66)
}

func TestNullEqualsZeroPointer(t *testing.T) {
	ip := mustRun(t, `int main() {
	int *p = NULL;
	if (p == NULL) {
		return 1;
	}
	return 0;
}`)
	wantReturn(t, ip, 1)
}

func TestRecursion(t *testing.T) {
	ip := mustRun(t, `int factorial(int n) {
	if (n <= 1) {
		return 1;
	}
	return n * factorial(n - 1);
}

int main() {
	return factorial(5);
}`)
	wantReturn(t, ip, 120)
}

func TestHeapStringWrite(t *testing.T) {
	ip := mustRun(t, `int main() {
	char *s = "abc";
	s[0] = 'x';
	printf("%s", s);
	return 0;
}`)
	out := ip.Output()
	if len(out) != 1 || out[0] != "xbc" {
		t.Errorf("output = %q, want [xbc]", out)
	}
}

func TestScanfReadsQueuedInput(t *testing.T) {
	prog, err := parser.Parse(`int main() {
	int x;
	scanf("%d", &x);
	return x;
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ip := New(prog, Limits{})
	ip.PushInput("42")
	if rerr := ip.Run(); rerr != nil {
		t.Fatalf("run failed: %v", rerr)
	}
	wantReturn(t, ip, 42)
	out := ip.Output()
	if len(out) != 1 || out[0] != "42" {
		t.Errorf("echoed output = %q, want [42]", out)
	}
}

func TestNoMainFunction(t *testing.T) {
	prog, err := parser.Parse(`int helper() {
	return 1;
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ip := New(prog, Limits{})
	rerr := ip.Run()
	if rerr == nil || rerr.Code != types.ErrNoMainFunction {
		t.Fatalf("error = %v, want NoMainFunction", rerr)
	}
}

func TestRoundTripReplay(t *testing.T) {
	ip := mustRun(t, `int main() {
	int sum = 0;
	int *p = malloc(4);
	for (int i = 1; i <= 3; i++) {
		sum = sum + i;
		*p = sum;
		printf("%d\n", sum);
	}
	free(p);
	return sum;
}`)

	endPos := ip.HistoryPosition()
	endLoc := ip.Location()
	endOut := ip.Output()

	steps := 0
	for ip.StepBackward() == nil {
		steps++
	}
	if ip.HistoryPosition() != 0 {
		t.Fatalf("position after rewind = %d, want 0", ip.HistoryPosition())
	}
	for n := 0; n < steps; n++ {
		if err := ip.StepForward(); err != nil {
			t.Fatalf("forward step %d failed: %v", n, err)
		}
	}

	if ip.HistoryPosition() != endPos {
		t.Errorf("position = %d, want %d", ip.HistoryPosition(), endPos)
	}
	if ip.Location() != endLoc {
		t.Errorf("location = %v, want %v", ip.Location(), endLoc)
	}
	out := ip.Output()
	if len(out) != len(endOut) {
		t.Fatalf("output lines = %d, want %d", len(out), len(endOut))
	}
	for k := range out {
		if out[k] != endOut[k] {
			t.Errorf("output[%d] = %q, want %q", k, out[k], endOut[k])
		}
	}
}

func TestStepBackwardAtStart(t *testing.T) {
	ip := mustRun(t, `int main() {
	return 0;
}`)
	if err := ip.RewindToStart(); err != nil {
		t.Fatalf("rewind failed: %v", err)
	}
	err := ip.StepBackward()
	if err == nil || err.Code != types.ErrHistoryOperationFailed {
		t.Fatalf("error = %v, want HistoryOperationFailed", err)
	}
}

func TestStepForwardSurfacesFatalError(t *testing.T) {
	prog, err := parser.Parse(`int main() {
	int *p = malloc(4);
	free(p);
	free(p);
	return 0;
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ip := New(prog, Limits{})
	if rerr := ip.Run(); rerr == nil {
		t.Fatal("run succeeded, want DoubleFree")
	}

	sf := ip.StepForward()
	if sf == nil || sf.Code != types.ErrDoubleFree {
		t.Fatalf("forward past last snapshot = %v, want DoubleFree", sf)
	}
}

func TestStepOverSkipsCallInternals(t *testing.T) {
	ip := mustRun(t, `int add(int a, int b) {
	int s = a + b;
	return s;
}

int main() {
	int x = add(1, 2);
	int y = add(x, 10);
	return y;
}`)

	if err := ip.RewindToStart(); err != nil {
		t.Fatalf("rewind failed: %v", err)
	}

	sawDeeper := false
	for {
		err := ip.StepOver()
		if err != nil {
			break
		}
		if ip.executionDepth != 0 {
			t.Fatalf("step over rested at depth %d", ip.executionDepth)
		}
	}
	wantReturn(t, ip, 13)

	// the skipped callee steps are still individually reachable
	ip.RewindToStart()
	for ip.StepForward() == nil {
		if ip.executionDepth > 0 {
			sawDeeper = true
		}
	}
	if !sawDeeper {
		t.Error("no snapshot recorded inside the callee")
	}
}

func TestSnapshotBudgetExhausted(t *testing.T) {
	prog, err := parser.Parse(`int main() {
	int a = 1;
	int b = 2;
	int c = 3;
	return a + b + c;
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ip := New(prog, Limits{SnapshotBudget: 150})
	rerr := ip.Run()
	if rerr == nil || rerr.Code != types.ErrSnapshotLimitExceeded {
		t.Fatalf("error = %v, want SnapshotLimitExceeded", rerr)
	}
}

func TestArgumentCountMismatch(t *testing.T) {
	mustFail(t, `int add(int a, int b) {
	return a + b;
}

int main() {
	return add(1);
}`, types.ErrArgumentCountMismatch)
}

func TestConstModification(t *testing.T) {
	mustFail(t, `int main() {
	const int x = 1;
	x = 2;
	return x;
}`, types.ErrConstModification)
}

func TestBufferOverrun(t *testing.T) {
	mustFail(t, `int main() {
	int arr[3];
	int x = arr[5];
	return x;
}`, types.ErrBufferOverrun)
}

func TestNullDereference(t *testing.T) {
	mustFail(t, `int main() {
	int *p = NULL;
	return *p;
}`, types.ErrNullDereference)
}
