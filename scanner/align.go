package scanner

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/maisem/aoc2021"
	"tailscale.com/types/logger"
	"tailscale.com/util/deephash"
	"tailscale.com/util/set"
)

// DefaultThreshold is the number of shared beacons needed before two
// scanners are considered to overlap.
const DefaultThreshold = 12

// ErrAlignmentFailed is matched by the error Align returns when some
// scanners cannot be placed in the global frame.
var ErrAlignmentFailed = errors.New("scanner alignment failed")

// AlignmentError lists the scanners Align could not place.
type AlignmentError struct {
	Unresolved []int
	Passes     int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%v after %d passes: scanners %v overlap no aligned scanner", ErrAlignmentFailed, e.Passes, e.Unresolved)
}

func (e *AlignmentError) Unwrap() error { return ErrAlignmentFailed }

// SensorState is the alignment state of one scanner: Unresolved or
// Resolved.
type SensorState interface {
	sensorState()
}

// Unresolved is the state of a scanner whose alignment is not known yet.
type Unresolved struct{}

// Resolved is the state of a scanner whose alignment is known. It never
// changes afterwards.
type Resolved struct {
	Alignment
}

func (Unresolved) sensorState() {}
func (Resolved) sensorState() {}

// Table holds the state of every scanner, indexed by scanner.
type Table []SensorState

// NewTable returns the starting table for n scanners: scanner 0 defines the
// global frame and every other scanner is unresolved.
func NewTable(n int) Table {
	t := make(Table, n)
	for i := range t {
		t[i] = Unresolved{}
	}
	if n > 0 {
		t[0] = Resolved{Alignment{Rotation: Identity}}
	}
	return t
}

// Alignment returns the alignment of scanner i, if resolved.
func (t Table) Alignment(i int) (Alignment, bool) {
	r, ok := t[i].(Resolved)
	return r.Alignment, ok
}

// Unresolved returns the indexes of the unresolved scanners.
func (t Table) Unresolved() []int {
	var out []int
	for i, s := range t {
		if _, ok := s.(Unresolved); ok {
			out = append(out, i)
		}
	}
	return out
}

var hashTable = deephash.HasherForType[Table]()

// Hash returns a fingerprint of the table's state.
func (t Table) Hash() deephash.Sum {
	return hashTable(&t)
}

// Options configures Align. The zero value is ready to use.
type Options struct {
	// Threshold is the minimum number of coinciding beacons for a match.
	// Zero means DefaultThreshold.
	Threshold int

	// Parallel runs the attempts of a pass concurrently. Each attempt only
	// sees scanners resolved before the pass started.
	Parallel bool

	// Order, if non-nil, is a permutation of the scanner indexes giving
	// the order in which unresolved scanners are visited in a pass.
	Order []int

	// MaxPasses bounds the number of passes. Zero means no bound other
	// than the requirement that each pass makes progress.
	MaxPasses int

	// Logf, if non-nil, receives debug logs.
	Logf logger.Logf
}

func (o *Options) threshold() int {
	if o == nil || o.Threshold == 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

func (o *Options) logf() logger.Logf {
	if o == nil || o.Logf == nil {
		return logger.Discard
	}
	return o.Logf
}

// visitOrder returns the order in which to visit scanners.
func (o *Options) visitOrder(n int) ([]int, error) {
	if o == nil || o.Order == nil {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	if len(o.Order) != n {
		return nil, fmt.Errorf("order has %d entries for %d scanners", len(o.Order), n)
	}
	seen := make([]bool, n)
	for _, i := range o.Order {
		if i < 0 || i >= n || seen[i] {
			return nil, fmt.Errorf("order %v is not a permutation of 0..%d", o.Order, n-1)
		}
		seen[i] = true
	}
	return slices.Clone(o.Order), nil
}

// Result is the outcome of a successful Align.
type Result struct {
	Clouds []Cloud // as reported, in local frames
	Table  Table   // every entry Resolved

	// Links has an edge between i and j when scanner i was aligned by
	// matching it against scanner j.
	Links  aoc.Graph[int]
	Passes int
}

// Alignments returns the alignment of every scanner.
func (r *Result) Alignments() []Alignment {
	out := make([]Alignment, len(r.Table))
	for i := range r.Table {
		a, ok := r.Table.Alignment(i)
		if !ok {
			panic(fmt.Sprintf("scanner %d unresolved in result", i))
		}
		out[i] = a
	}
	return out
}

// Positions returns the global position of every scanner.
func (r *Result) Positions() []Vec {
	out := make([]Vec, len(r.Table))
	for i, a := range r.Alignments() {
		out[i] = a.Translation
	}
	return out
}

// Beacons returns every distinct beacon in the global frame.
func (r *Result) Beacons() set.Set[Vec] {
	return DistinctBeacons(r.Clouds, r.Alignments())
}

// MaxSensorDistance returns the largest manhattan distance between two
// scanners.
func (r *Result) MaxSensorDistance() int {
	return MaxSensorDistance(r.Alignments())
}

type aligner struct {
	clouds    []Cloud
	threshold int
	logf      logger.Logf

	table    Table
	global   []Cloud // global-frame clouds of resolved scanners
	resolved []int   // resolved scanners, in resolution order
	tried    set.Set[aoc.Edge[int]]
	links    aoc.Graph[int]
}

// attempt is the outcome of matching one unresolved scanner against a list
// of resolved ones.
type attempt struct {
	scanner int
	against int // valid if ok
	align   Alignment
	ok      bool
	tried   []int // candidates that failed
}

// try matches scanner i against the candidates in order, skipping pairs
// that failed before. It only reads shared state.
func (a *aligner) try(ctx context.Context, i int, candidates []int) attempt {
	at := attempt{scanner: i}
	for _, j := range candidates {
		if ctx.Err() != nil {
			return at
		}
		if a.tried.Contains(aoc.Edge[int]{A: i, B: j}) {
			continue
		}
		if al, ok := a.clouds[i].OverlapTransform(a.global[j], a.threshold); ok {
			at.against, at.align, at.ok = j, al, true
			return at
		}
		at.tried = append(at.tried, j)
	}
	return at
}

func (a *aligner) record(pass int, at attempt) {
	for _, j := range at.tried {
		a.tried.Add(aoc.Edge[int]{A: at.scanner, B: j})
	}
	if !at.ok {
		return
	}
	i := at.scanner
	a.table[i] = Resolved{at.align}
	a.global[i] = a.clouds[i].Transform(at.align.Rotation, at.align.Translation)
	a.resolved = append(a.resolved, i)
	a.links.AddEdge(i, at.against, 1)
	a.logf("pass %d: scanner %d aligned against %d at %v", pass, i, at.against, at.align.Translation)
}

// Align places every scanner in the frame of scanner 0 by repeatedly
// matching unresolved scanners against resolved ones until all are
// resolved. It returns an error wrapping ErrAlignmentFailed if a pass
// resolves nothing or opts.MaxPasses is exceeded.
func Align(ctx context.Context, clouds []Cloud, opts *Options) (*Result, error) {
	n := len(clouds)
	if n == 0 {
		return nil, errors.New("no scanners to align")
	}
	threshold := opts.threshold()
	if threshold < 0 {
		return nil, fmt.Errorf("invalid overlap threshold %d", threshold)
	}
	order, err := opts.visitOrder(n)
	if err != nil {
		return nil, err
	}
	a := &aligner{
		clouds:    clouds,
		threshold: threshold,
		logf:      opts.logf(),
		table:     NewTable(n),
		global:    make([]Cloud, n),
		resolved:  []int{0},
		tried:     make(set.Set[aoc.Edge[int]]),
	}
	a.global[0] = clouds[0]
	a.links.AddNode(0)

	var work aoc.Queue[int]
	for _, i := range order {
		if i != 0 {
			work.Push(i)
		}
	}
	parallel := opts != nil && opts.Parallel
	maxPasses := 0
	if opts != nil {
		maxPasses = opts.MaxPasses
	}

	passes := 0
	for work.Len() > 0 {
		if maxPasses > 0 && passes >= maxPasses {
			return nil, &AlignmentError{Unresolved: a.table.Unresolved(), Passes: passes}
		}
		passes++
		before := a.table.Hash()
		pending := work.Drain()
		if parallel {
			snap := slices.Clone(a.resolved)
			for _, at := range aoc.Parallel(pending, func(i int) attempt {
				return a.try(ctx, i, snap)
			}) {
				a.record(passes, at)
			}
		} else {
			for _, i := range pending {
				a.record(passes, a.try(ctx, i, a.resolved))
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, i := range pending {
			if _, ok := a.table.Alignment(i); !ok {
				work.Push(i)
			}
		}
		if work.Len() > 0 && a.table.Hash() == before {
			return nil, &AlignmentError{Unresolved: a.table.Unresolved(), Passes: passes}
		}
	}
	a.logf("aligned %d scanners in %d passes", n, passes)
	return &Result{
		Clouds: clouds,
		Table:  a.table,
		Links:  a.links,
		Passes: passes,
	}, nil
}
