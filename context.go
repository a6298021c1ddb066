package rtree

import "fmt"

// Context is the immutable configuration threaded through every tree
// operation: dimensionality, capacity bounds, and the pluggable selector and
// splitter heuristics. A Context is built exclusively by Builder, validated
// once, and never mutated afterwards — grounded on the teacher's
// Config.validate()/normalized() pair.
type Context struct {
	dimensions    int
	minChildren   int
	maxChildren   int
	selector      Selector
	splitter      Splitter
	loadingFactor float64
	star          bool
}

// Dimensions returns k, the number of coordinate axes entries in this tree
// must have.
func (c *Context) Dimensions() int { return c.dimensions }

// MinChildren returns the minimum number of children/entries a non-root
// node must hold (invariant I1).
func (c *Context) MinChildren() int { return c.minChildren }

// MaxChildren returns the maximum number of children/entries any node may
// hold before it overflows.
func (c *Context) MaxChildren() int { return c.maxChildren }

// Selector returns the configured child-selection heuristic.
func (c *Context) Selector() Selector { return c.selector }

// Splitter returns the configured node-splitting heuristic.
func (c *Context) Splitter() Splitter { return c.splitter }

// LoadingFactor returns the fill ratio used to size leaves during STR bulk
// loading.
func (c *Context) LoadingFactor() float64 { return c.loadingFactor }

// IsStar reports whether this Context was configured via Builder.Star(),
// which also enables R* forced reinsertion during insertion.
func (c *Context) IsStar() bool { return c.star }

func (c *Context) validate() error {
	if c.dimensions < 2 {
		return fmt.Errorf("%w: dimensions must be >= 2, got %d", ErrInvalidConfig, c.dimensions)
	}
	if c.minChildren < 2 {
		return fmt.Errorf("%w: minChildren must be >= 2, got %d", ErrInvalidConfig, c.minChildren)
	}
	if c.maxChildren <= c.minChildren {
		return fmt.Errorf("%w: maxChildren (%d) must be > minChildren (%d)", ErrInvalidConfig, c.maxChildren, c.minChildren)
	}
	if c.loadingFactor <= 0 || c.loadingFactor > 1 {
		return fmt.Errorf("%w: loadingFactor must be in (0, 1], got %v", ErrInvalidConfig, c.loadingFactor)
	}
	if c.selector == nil {
		return fmt.Errorf("%w: selector is required", ErrInvalidConfig)
	}
	if c.splitter == nil {
		return fmt.Errorf("%w: splitter is required", ErrInvalidConfig)
	}
	return nil
}
