package cpsat

// Small CNF cardinality building blocks, reused across every constraint
// that boils down to "at most/at least/exactly one of this group" or, for
// the quality extensions, "at most k of this group."

// atLeastOne returns the single clause asserting at least one of vars is true.
func atLeastOne(vars []int) []int {
	clause := make([]int, len(vars))
	copy(clause, vars)
	return clause
}

// atMostOnePairwise returns one binary clause per pair, the direct
// (quadratic but simple) CNF encoding of "no two of vars are both true."
func atMostOnePairwise(vars []int) [][]int {
	var clauses [][]int
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			clauses = append(clauses, []int{-vars[i], -vars[j]})
		}
	}
	return clauses
}

// exactlyOne combines atLeastOne and atMostOnePairwise.
func exactlyOne(vars []int) [][]int {
	if len(vars) == 0 {
		return nil
	}
	clauses := [][]int{atLeastOne(vars)}
	clauses = append(clauses, atMostOnePairwise(vars)...)
	return clauses
}

// biconditional returns the two clauses asserting a and b have the same
// truth value.
func biconditional(a, b int) [][]int {
	return [][]int{{-a, b}, {-b, a}}
}

// xorClauses returns the four clauses defining t as the XOR of a and b
// (standard Tseitin encoding of a 2-input XOR gate).
func xorClauses(t, a, b int) [][]int {
	return [][]int{
		{-t, a, b},
		{-t, -a, -b},
		{t, -a, b},
		{t, a, -b},
	}
}

// counter allocates fresh DIMACS variable numbers for auxiliary gates.
type counter struct {
	next int
}

func (c *counter) alloc() int {
	c.next++
	return c.next
}

// atMostK returns clauses enforcing that at most k of vars are true, using
// Sinz's sequential counter encoding. It allocates auxiliary variables from
// next, advancing it in place, and returns only the clauses.
func atMostK(vars []int, k int, next *counter) [][]int {
	n := len(vars)
	if k >= n {
		return nil
	}
	if k == 0 {
		clauses := make([][]int, n)
		for i, v := range vars {
			clauses[i] = []int{-v}
		}
		return clauses
	}

	// s[i][j], i in [0,n-2], j in [0,k-1], means "at least j+1 of
	// vars[0..i] are true."
	s := make([][]int, n-1)
	for i := range s {
		s[i] = make([]int, k)
		for j := range s[i] {
			s[i][j] = next.alloc()
		}
	}

	var clauses [][]int
	add := func(c []int) { clauses = append(clauses, c) }

	// i = 0
	add([]int{-vars[0], s[0][0]})
	for j := 1; j < k; j++ {
		add([]int{-s[0][j]})
	}

	for i := 1; i < n-1; i++ {
		add([]int{-vars[i], s[i][0]})
		add([]int{-s[i-1][0], s[i][0]})
		for j := 1; j < k; j++ {
			add([]int{-vars[i], -s[i-1][j-1], s[i][j]})
			add([]int{-s[i-1][j], s[i][j]})
		}
		add([]int{-vars[i], -s[i-1][k-1]})
	}

	add([]int{-vars[n-1], -s[n-2][k-1]})

	return clauses
}
