package scenario

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/seriussoft/observable/pkg/metrics"
	"github.com/seriussoft/observable/pkg/observable"
)

func newQuietRunner(opts ...RunnerOption) *Runner {
	return NewRunner(append([]RunnerOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)...)
}

func TestTestdataScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no scenarios in testdata")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			res, runErr := newQuietRunner().Run(s)
			if err := s.Check(res, runErr); err != nil {
				t.Errorf("%s: %v", s.Name, err)
			}
		})
	}
}

func TestParseRejectsUnknownOp(t *testing.T) {
	_, err := Parse([]byte("steps:\n  - op: explode\n"))
	if err == nil || !strings.Contains(err.Error(), `unknown op "explode"`) {
		t.Errorf("Parse() error = %v", err)
	}
}

func TestParseRejectsUnknownErrorKind(t *testing.T) {
	_, err := Parse([]byte("steps: []\nexpect:\n  error: boom\n"))
	if err == nil {
		t.Error("expected error for unknown error kind")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("steps: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunEndWithoutBegin(t *testing.T) {
	s := &Scenario{Steps: []Step{{Op: OpSetName, Name: "a"}, {Op: OpEnd}, {Op: OpSetID, ID: 2}}}

	res, err := newQuietRunner().Run(s)
	if !errors.Is(err, observable.ErrNotInBatchMode) {
		t.Fatalf("Run() error = %v, want ErrNotInBatchMode", err)
	}
	if !strings.Contains(err.Error(), "step 2 (end)") {
		t.Errorf("error %q should name the step", err)
	}
	if got := res.Properties(); len(got) != 1 || got[0] != PropName {
		t.Errorf("properties = %v, want [Name]", got)
	}
}

func TestRunRecordsSteps(t *testing.T) {
	s := &Scenario{Steps: []Step{
		{Op: OpSetName, Name: "a"},
		{Op: OpBegin},
		{Op: OpOverride, On: true},
		{Op: OpSetID, ID: 1},
		{Op: OpOverride, On: false},
		{Op: OpSetID, ID: 2},
		{Op: OpEnd},
		{Op: OpRefresh},
	}}

	res, err := newQuietRunner().Run(s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []Notification{
		{Step: 1, Property: PropName},
		{Step: 4, Property: PropID},
		{Step: 8, Property: PropBackingSource},
		{Step: 8, Property: PropName},
		{Step: 8, Property: PropID},
	}
	if len(res.Notifications) != len(want) {
		t.Fatalf("notifications = %v, want %v", res.Notifications, want)
	}
	for i := range want {
		if res.Notifications[i] != want[i] {
			t.Errorf("notification %d = %+v, want %+v", i, res.Notifications[i], want[i])
		}
	}
}

func TestRunFinalizeThenDispose(t *testing.T) {
	s := &Scenario{Steps: []Step{{Op: OpFinalize}, {Op: OpDispose}}}

	res, err := newQuietRunner().Run(s)
	if err != nil {
		t.Fatal(err)
	}
	if res.ManagedDisposals != 0 || res.UnmanagedDisposals != 1 || !res.Disposed {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestRunPersist(t *testing.T) {
	s := &Scenario{Steps: []Step{{Op: OpPersist}}}

	res, err := newQuietRunner().Run(s)
	if err != nil {
		t.Fatal(err)
	}
	if res.New {
		t.Error("persisted person should not be new")
	}
}

func TestCheckReportsAllMismatches(t *testing.T) {
	one := 1
	yes := true
	s := &Scenario{Expect: &Expectation{
		Notifications:    []string{PropName},
		ManagedDisposals: &one,
		Backed:           &yes,
	}}

	err := s.Check(&Result{}, nil)
	if err == nil {
		t.Fatal("expected mismatches")
	}
	for _, want := range []string{"notifications", "managed disposals", "backed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestCheckWithoutExpectation(t *testing.T) {
	s := &Scenario{}
	if err := s.Check(&Result{}, nil); err != nil {
		t.Errorf("Check() = %v, want nil", err)
	}
	boom := errors.New("boom")
	if err := s.Check(&Result{}, boom); err != boom {
		t.Errorf("Check() = %v, want run error", err)
	}
}

func TestRunnerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))

	s := &Scenario{Steps: []Step{
		{Op: OpSetName, Name: "a"},
		{Op: OpBegin},
		{Op: OpSetName, Name: "b"},
		{Op: OpEnd},
		{Op: OpDispose},
	}}
	if _, err := newQuietRunner(WithMetrics(m)).Run(s); err != nil {
		t.Fatal(err)
	}

	count, err := testutil.GatherAndCount(reg,
		"observable_announcements_total",
		"observable_suppressed_total",
		"observable_batch_transitions_total",
		"observable_disposals_total",
	)
	if err != nil {
		t.Fatal(err)
	}
	// announcements, suppressed, begin, end, explicit disposal
	if count != 5 {
		t.Errorf("series = %d, want 5", count)
	}
}
