package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var samplePositions = []Vec{
	{X: 0, Y: 0, Z: 0},
	{X: 68, Y: -1246, Z: -43},
	{X: 1105, Y: -1205, Z: 1229},
	{X: -92, Y: -2380, Z: -20},
	{X: -20, Y: -1133, Z: 1061},
}

func TestAlignSample(t *testing.T) {
	clouds := loadSample(t)
	var logs []string
	r, err := Align(context.Background(), clouds, &Options{
		Logf: func(format string, args ...any) {
			logs = append(logs, fmt.Sprintf(format, args...))
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(samplePositions, r.Positions()); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
	if r.Passes != 2 {
		t.Errorf("Passes = %d; want 2", r.Passes)
	}
	if got := r.Beacons().Len(); got != 79 {
		t.Errorf("distinct beacons = %d; want 79", got)
	}
	if got := r.MaxSensorDistance(); got != 3621 {
		t.Errorf("max sensor distance = %d; want 3621", got)
	}
	if got := r.Links.ReachableNodes(0); len(got) != len(clouds) {
		t.Errorf("links reach %v from 0; want all %d scanners", got, len(clouds))
	}
	if !r.Links.HasEdge(2, 4) {
		t.Errorf("scanner 2 not linked to scanner 4")
	}
	if len(logs) == 0 || !strings.Contains(logs[len(logs)-1], "aligned 5 scanners") {
		t.Errorf("logs = %q", logs)
	}
	if a, _ := r.Table.Alignment(0); a.Rotation != Identity || a.Translation != (Vec{}) {
		t.Errorf("scanner 0 alignment = %+v; want identity at origin", a)
	}
}

func TestAlignParallel(t *testing.T) {
	clouds := loadSample(t)
	r, err := Align(context.Background(), clouds, &Options{Parallel: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(samplePositions, r.Positions()); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
	// Scanners resolved in a pass are not visible until the next one.
	if r.Passes != 3 {
		t.Errorf("Passes = %d; want 3", r.Passes)
	}
}

func TestAlignOrderIndependent(t *testing.T) {
	clouds := loadSample(t)
	base, err := Align(context.Background(), clouds, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := SortedBeacons(base.Beacons())
	for _, order := range [][]int{
		{4, 3, 2, 1, 0},
		{2, 4, 0, 3, 1},
		{3, 2, 1, 4, 0},
	} {
		for _, parallel := range []bool{false, true} {
			r, err := Align(context.Background(), clouds, &Options{Order: order, Parallel: parallel})
			if err != nil {
				t.Fatalf("order %v: %v", order, err)
			}
			if diff := cmp.Diff(want, SortedBeacons(r.Beacons())); diff != "" {
				t.Errorf("order %v parallel=%v: beacons (-want +got):\n%s", order, parallel, diff)
			}
			if diff := cmp.Diff(samplePositions, r.Positions()); diff != "" {
				t.Errorf("order %v parallel=%v: positions (-want +got):\n%s", order, parallel, diff)
			}
		}
	}
}

func TestAlignDisconnected(t *testing.T) {
	clouds := loadSample(t)
	stray := NewCloud(Vec{X: 1, Y: 2, Z: 3}, Vec{X: 4, Y: 5, Z: 6}, Vec{X: 7, Y: 8, Z: 9})
	clouds = []Cloud{clouds[0], clouds[1], stray, clouds[2]}

	_, err := Align(context.Background(), clouds, nil)
	if !errors.Is(err, ErrAlignmentFailed) {
		t.Fatalf("err = %v; want ErrAlignmentFailed", err)
	}
	var ae *AlignmentError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %T; want *AlignmentError", err)
	}
	// Scanner 3 (sample scanner 2) only overlaps sample scanner 4, which is
	// absent, so it is stranded as well.
	if diff := cmp.Diff([]int{2, 3}, ae.Unresolved); diff != "" {
		t.Errorf("Unresolved (-want +got):\n%s", diff)
	}
	if ae.Passes != 2 {
		t.Errorf("Passes = %d; want 2", ae.Passes)
	}
}

func TestAlignMaxPasses(t *testing.T) {
	clouds := loadSample(t)
	_, err := Align(context.Background(), clouds, &Options{MaxPasses: 1})
	var ae *AlignmentError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v; want *AlignmentError", err)
	}
	if diff := cmp.Diff([]int{2}, ae.Unresolved); diff != "" {
		t.Errorf("Unresolved (-want +got):\n%s", diff)
	}

	if _, err := Align(context.Background(), clouds, &Options{MaxPasses: 2}); err != nil {
		t.Errorf("MaxPasses 2: %v", err)
	}
}

func TestAlignThreshold(t *testing.T) {
	a := NewCloud(Vec{X: 0, Y: 2, Z: 0}, Vec{X: 4, Y: 1, Z: 0}, Vec{X: 3, Y: 3, Z: 0})
	b := a.Translate(Vec{X: 5, Y: 2, Z: -1})
	r, err := Align(context.Background(), []Cloud{b, a}, &Options{Threshold: 3})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := r.Positions()[1], (Vec{X: 5, Y: 2, Z: -1}); got != want {
		t.Errorf("position = %v; want %v", got, want)
	}

	// The default threshold is far above three shared beacons.
	if _, err := Align(context.Background(), []Cloud{b, a}, nil); !errors.Is(err, ErrAlignmentFailed) {
		t.Errorf("default threshold: err = %v; want ErrAlignmentFailed", err)
	}
}

func TestAlignSingle(t *testing.T) {
	c := NewCloud(Vec{X: 1, Y: 2, Z: 3})
	r, err := Align(context.Background(), []Cloud{c}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Passes != 0 {
		t.Errorf("Passes = %d; want 0", r.Passes)
	}
	if r.MaxSensorDistance() != 0 {
		t.Errorf("MaxSensorDistance = %d; want 0", r.MaxSensorDistance())
	}
	if !r.Beacons().Contains(Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("beacon missing")
	}
}

func TestAlignInvalid(t *testing.T) {
	c := NewCloud(Vec{X: 1, Y: 2, Z: 3})
	tests := []struct {
		name   string
		clouds []Cloud
		opts   *Options
	}{
		{"no clouds", nil, nil},
		{"negative threshold", []Cloud{c}, &Options{Threshold: -1}},
		{"short order", []Cloud{c, c}, &Options{Order: []int{0}}},
		{"repeated order", []Cloud{c, c}, &Options{Order: []int{1, 1}}},
		{"out of range order", []Cloud{c, c}, &Options{Order: []int{0, 2}}},
	}
	for _, tt := range tests {
		if _, err := Align(context.Background(), tt.clouds, tt.opts); err == nil {
			t.Errorf("%s: no error", tt.name)
		} else if errors.Is(err, ErrAlignmentFailed) {
			t.Errorf("%s: err = %v; want an argument error", tt.name, err)
		}
	}
}

func TestAlignCanceled(t *testing.T) {
	clouds := loadSample(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Align(ctx, clouds, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v; want context.Canceled", err)
	}
}

func TestTable(t *testing.T) {
	tab := NewTable(3)
	if a, ok := tab.Alignment(0); !ok || a.Rotation != Identity || a.Translation != (Vec{}) {
		t.Errorf("Alignment(0) = %+v, %v", a, ok)
	}
	if _, ok := tab.Alignment(1); ok {
		t.Errorf("scanner 1 resolved in a new table")
	}
	if diff := cmp.Diff([]int{1, 2}, tab.Unresolved()); diff != "" {
		t.Errorf("Unresolved (-want +got):\n%s", diff)
	}

	h := tab.Hash()
	if tab.Hash() != h {
		t.Errorf("Hash not stable")
	}
	tab[2] = Resolved{Alignment{Rotation: Orientations[5], Translation: Vec{X: 1, Y: 2, Z: 3}}}
	if tab.Hash() == h {
		t.Errorf("Hash unchanged after resolving a scanner")
	}
	if diff := cmp.Diff([]int{1}, tab.Unresolved()); diff != "" {
		t.Errorf("Unresolved (-want +got):\n%s", diff)
	}
	if NewTable(0).Unresolved() != nil {
		t.Errorf("empty table has unresolved scanners")
	}
}
