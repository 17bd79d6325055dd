package optimizer

// combinationCursor walks k-element index subsets of [0, n) in
// lexicographic order without materializing them all up front. Candidate
// counts grow as C(n, 5), so a roster of 40 already means 658,008 teams.
type combinationCursor struct {
	n, k    int
	indices []int
	done    bool
}

func newCombinationCursor(n, k int) *combinationCursor {
	c := &combinationCursor{n: n, k: k, indices: make([]int, k)}
	if k <= 0 || k > n {
		c.done = true
		return c
	}
	for i := range c.indices {
		c.indices[i] = i
	}
	return c
}

// next copies the current combination into dst and advances the cursor.
// It returns false once every combination has been produced.
func (c *combinationCursor) next(dst []int) bool {
	if c.done {
		return false
	}
	copy(dst, c.indices)

	// Find the rightmost index that can still move, then reset everything
	// after it
	i := c.k - 1
	for i >= 0 && c.indices[i] == c.n-c.k+i {
		i--
	}
	if i < 0 {
		c.done = true
		return true
	}
	c.indices[i]++
	for j := i + 1; j < c.k; j++ {
		c.indices[j] = c.indices[j-1] + 1
	}
	return true
}

// Binomial returns C(n, k), the number of k-element subsets of n items.
// Intermediate products stay exact because each prefix is itself a
// binomial coefficient.
func Binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 1; i <= k; i++ {
		result = result * int64(n-k+i) / int64(i)
	}
	return result
}
