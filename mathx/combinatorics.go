package mathx

import "errors"

// ErrInvalidSelection is returned when a selection size is negative or
// exceeds the population size.
var ErrInvalidSelection = errors.New("mathx: invalid selection size")

// CombinationCount returns the number of ways to choose k elements out
// of n, order not mattering.
func CombinationCount(n, k int) (uint64, error) {
	if n < 0 || k < 0 || k > n {
		return 0, ErrInvalidSelection
	}
	if k > n-k {
		k = n - k
	}
	result := uint64(1)
	for i := 1; i <= k; i++ {
		result = result * uint64(n-k+i) / uint64(i)
	}
	return result, nil
}

// ArrangementCount returns the number of ways to choose k elements out
// of n, order mattering.
func ArrangementCount(n, k int) (uint64, error) {
	if n < 0 || k < 0 || k > n {
		return 0, ErrInvalidSelection
	}
	result := uint64(1)
	for i := n - k + 1; i <= n; i++ {
		result *= uint64(i)
	}
	return result, nil
}

// Combination enumerates the k-element subsets of {0, ..., n-1} in
// lexicographic order. Use it like a scanner:
//
//	c, err := NewCombination(5, 3)
//	for c.Next() {
//		use(c.Current())
//	}
type Combination struct {
	n, k    int
	indices []int
	started bool
	done    bool
}

// NewCombination returns an enumerator over the k-element subsets of
// {0, ..., n-1}.
func NewCombination(n, k int) (*Combination, error) {
	if n < 0 || k < 0 || k > n {
		return nil, ErrInvalidSelection
	}
	return &Combination{n: n, k: k}, nil
}

// Next advances to the next subset. It returns false once all subsets
// have been produced.
func (c *Combination) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		c.indices = make([]int, c.k)
		for i := range c.indices {
			c.indices[i] = i
		}
		return true
	}
	// Find the rightmost index that can still move up, bump it and
	// repack everything after it.
	i := c.k - 1
	for i >= 0 && c.indices[i] == c.n-c.k+i {
		i--
	}
	if i < 0 {
		c.done = true
		return false
	}
	c.indices[i]++
	for j := i + 1; j < c.k; j++ {
		c.indices[j] = c.indices[j-1] + 1
	}
	return true
}

// Current returns the subset produced by the last call to Next. The
// returned slice is only valid until the next call to Next.
func (c *Combination) Current() []int {
	return c.indices
}

// Arrangement enumerates the ordered selections of k elements out of
// {0, ..., n-1}: every subset in every order.
type Arrangement struct {
	comb    *Combination
	current []int
	fresh   bool
}

// NewArrangement returns an enumerator over the ordered k-element
// selections of {0, ..., n-1}.
func NewArrangement(n, k int) (*Arrangement, error) {
	comb, err := NewCombination(n, k)
	if err != nil {
		return nil, err
	}
	return &Arrangement{comb: comb}, nil
}

// Next advances to the next ordered selection. It returns false once
// all selections have been produced.
func (a *Arrangement) Next() bool {
	if a.fresh && nextPermutation(a.current) {
		return true
	}
	if !a.comb.Next() {
		a.fresh = false
		return false
	}
	a.current = append(a.current[:0], a.comb.Current()...)
	a.fresh = true
	return true
}

// Current returns the selection produced by the last call to Next. The
// returned slice is only valid until the next call to Next.
func (a *Arrangement) Current() []int {
	return a.current
}

// nextPermutation rearranges s into its lexicographic successor and
// reports whether one existed.
func nextPermutation(s []int) bool {
	i := len(s) - 2
	for i >= 0 && s[i] >= s[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(s) - 1
	for s[j] <= s[i] {
		j--
	}
	s[i], s[j] = s[j], s[i]
	for l, r := i+1, len(s)-1; l < r; l, r = l+1, r-1 {
		s[l], s[r] = s[r], s[l]
	}
	return true
}
