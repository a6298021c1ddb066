package rtree

import "github.com/guiguan/caster"

// Builder is the only way to construct a Context (and, through New/Load, a
// Tree). It is not generic — selection and splitting are purely geometric
// and never see a tree's value type — so the value type is supplied only at
// the point of calling New or Load, mirroring how the Java original keeps
// RTree.Builder non-generic while RTree.Builder.create() is.
type Builder struct {
	dimensions    int
	minChildren   int
	maxChildren   int
	selector      Selector
	splitter      Splitter
	loadingFactor float64
	star          bool
	progress      *caster.Caster

	minChildrenSet bool
	maxChildrenSet bool
}

const (
	defaultMaxChildrenGuttman = 4
	defaultMaxChildrenStar    = 4
	defaultFillingFactor      = 0.4
	defaultLoadingFactor      = 0.7
)

// NewBuilder returns a Builder defaulted to 2 dimensions, the Quadratic
// splitter, and the minimal-volume-increase selector — the Guttman-style
// defaults the original library uses when Star() is not requested.
func NewBuilder() *Builder {
	return &Builder{
		dimensions:    2,
		selector:      MinimalVolumeIncreaseSelector{},
		splitter:      QuadraticSplitter{},
		loadingFactor: defaultLoadingFactor,
	}
}

// Dimensions sets k, the number of coordinate axes. Must be >= 2.
func (b *Builder) Dimensions(d int) *Builder {
	b.dimensions = d
	return b
}

// MinChildren sets the minimum children/entries a non-root node must hold.
func (b *Builder) MinChildren(m int) *Builder {
	b.minChildren = m
	b.minChildrenSet = true
	return b
}

// MaxChildren sets the maximum children/entries a node may hold before
// overflow.
func (b *Builder) MaxChildren(m int) *Builder {
	b.maxChildren = m
	b.maxChildrenSet = true
	return b
}

// Splitter overrides the node-splitting heuristic.
func (b *Builder) Splitter(s Splitter) *Builder {
	b.splitter = s
	return b
}

// Selector overrides the child-selection heuristic.
func (b *Builder) Selector(s Selector) *Builder {
	b.selector = s
	return b
}

// LoadingFactor sets the fill ratio used to size leaves during STR bulk
// loading. Must be in (0, 1]; default 0.7.
func (b *Builder) LoadingFactor(f float64) *Builder {
	b.loadingFactor = f
	return b
}

// Star switches to the R*-tree heuristics: RStarSplitter for node splitting,
// RStarSelector for child selection, and enables forced reinsertion during
// insertion. If MaxChildren has not been set explicitly it also defaults to
// 4, matching the original library's MAX_CHILDREN_DEFAULT_STAR.
func (b *Builder) Star() *Builder {
	b.selector = RStarSelector{}
	b.splitter = RStarSplitter{}
	b.star = true
	return b
}

// Progress sets a Caster that Load publishes a LevelBuilt message to after
// each level of STR bulk-loading completes, letting a caller report
// progress on large loads. Progress has no effect on New or on Add/Delete.
func (b *Builder) Progress(c *caster.Caster) *Builder {
	b.progress = c
	return b
}

func (b *Builder) buildContext() (*Context, error) {
	maxChildren := b.maxChildren
	if !b.maxChildrenSet {
		if b.star {
			maxChildren = defaultMaxChildrenStar
		} else {
			maxChildren = defaultMaxChildrenGuttman
		}
	}
	minChildren := b.minChildren
	if !b.minChildrenSet {
		minChildren = int(roundHalfAwayFromZero(float64(maxChildren) * defaultFillingFactor))
	}
	ctx := &Context{
		dimensions:    b.dimensions,
		minChildren:   minChildren,
		maxChildren:   maxChildren,
		selector:      b.selector,
		splitter:      b.splitter,
		loadingFactor: b.loadingFactor,
		star:          b.star,
	}
	if err := ctx.validate(); err != nil {
		return nil, err
	}
	return ctx, nil
}

func roundHalfAwayFromZero(f float64) float64 {
	if f < 0 {
		return -roundHalfAwayFromZero(-f)
	}
	i := float64(int(f))
	if f-i >= 0.5 {
		return i + 1
	}
	return i
}

// New builds an empty Tree from the Builder's configuration.
func New[T comparable](b *Builder) (*Tree[T], error) {
	ctx, err := b.buildContext()
	if err != nil {
		return nil, err
	}
	return &Tree[T]{cfg: ctx}, nil
}
