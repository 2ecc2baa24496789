package planner

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	simplexTol = 1e-10
	// fixedTol treats a variable whose bounds are this close as a constant.
	fixedTol = 1e-12
	// artificialTol is the largest artificial value still counted as feasible.
	artificialTol = 1e-7
)

// SimplexSolver solves a Problem with gonum's simplex implementation.
//
// Variables with equal bounds are substituted out, the rest are shifted to
// y = x - Lower >= 0, and every inequality and finite upper bound gets an
// explicit slack column. A feasible starting basis is built from slack and
// single-row columns, so gonum never runs its own phase one.
type SimplexSolver struct{}

// column is one standard-form variable: a shifted problem variable, a slack
// or an artificial.
type column struct {
	coeffs map[int]float64 // row -> coefficient
	cost   float64
	source int // problem variable index, -1 for slacks and artificials
	artif  bool
}

// Solve minimizes p. Every variable needs a finite lower bound.
func (SimplexSolver) Solve(p Problem) (x []float64, err error) {
	n := len(p.Objective)
	if len(p.Lower) != n || len(p.Upper) != n {
		return nil, errors.New("simplex: bounds length mismatch")
	}
	for _, c := range append(append([]Constraint(nil), p.Constraints...), p.Equalities...) {
		if len(c.Coeffs) != n {
			return nil, errors.New("simplex: constraint length mismatch")
		}
	}
	if len(p.Constraints)+len(p.Equalities) == 0 {
		return nil, errors.New("simplex: problem has no constraints")
	}
	for i := 0; i < n; i++ {
		if math.IsInf(p.Lower[i], -1) || math.IsNaN(p.Lower[i]) {
			return nil, fmt.Errorf("simplex: variable %d has no finite lower bound", i)
		}
		if p.Upper[i] < p.Lower[i]-fixedTol {
			return nil, ErrInfeasible
		}
	}

	x = make([]float64, n)
	copy(x, p.Lower)

	var (
		cols []column
		rhs  []float64
	)
	varCol := make(map[int]int)
	for i := 0; i < n; i++ {
		if p.Upper[i]-p.Lower[i] <= fixedTol {
			continue
		}
		varCol[i] = len(cols)
		cols = append(cols, column{coeffs: map[int]float64{}, cost: p.Objective[i], source: i})
	}

	// addRow appends coeffs·y (+ slack) = rhs - coeffs·Lower.
	addRow := func(coeffs []float64, b float64, slack bool) {
		row := len(rhs)
		for i, a := range coeffs {
			if a == 0 {
				continue
			}
			b -= a * p.Lower[i]
			if k, ok := varCol[i]; ok {
				cols[k].coeffs[row] = a
			}
		}
		if slack {
			cols = append(cols, column{coeffs: map[int]float64{row: 1}, source: -1})
		}
		rhs = append(rhs, b)
	}

	for _, c := range p.Constraints {
		addRow(c.Coeffs, c.RHS, true)
	}
	for _, c := range p.Equalities {
		addRow(c.Coeffs, c.RHS, false)
	}
	for i := 0; i < n; i++ {
		k, ok := varCol[i]
		if !ok || math.IsInf(p.Upper[i], 1) {
			continue
		}
		row := len(rhs)
		cols[k].coeffs[row] = 1
		cols = append(cols, column{coeffs: map[int]float64{row: 1}, source: -1})
		rhs = append(rhs, p.Upper[i]-p.Lower[i])
	}

	// Rows left with no variables are either satisfied or infeasible.
	live := make([]bool, len(rhs))
	for _, c := range cols {
		for r := range c.coeffs {
			live[r] = true
		}
	}
	for r, b := range rhs {
		if !live[r] && math.Abs(b) > artificialTol {
			return nil, ErrInfeasible
		}
	}

	// Zero columns stay at their lower bound; gonum rejects them.
	kept := cols[:0]
	for _, c := range cols {
		if len(c.coeffs) == 0 {
			if c.cost < 0 {
				return nil, errors.New("simplex: problem is unbounded")
			}
			continue
		}
		kept = append(kept, c)
	}
	cols = kept

	rowIdx := make(map[int]int)
	for r := range rhs {
		if live[r] {
			rowIdx[r] = len(rowIdx)
		}
	}
	m := len(rowIdx)
	if m == 0 {
		return x, nil
	}
	b := make([]float64, m)
	sign := make([]float64, m)
	for r, k := range rowIdx {
		b[k] = rhs[r]
		sign[k] = 1
		if b[k] < 0 {
			b[k], sign[k] = -b[k], -1
		}
	}

	basis := make([]int, m)
	for k := range basis {
		basis[k] = -1
	}
	used := make([]bool, len(cols))
	for pass := 0; pass < 2; pass++ {
		// slacks first, then any other column living in a single row
		for j, c := range cols {
			if used[j] || len(c.coeffs) != 1 || (pass == 0) != (c.source < 0) {
				continue
			}
			for r, a := range c.coeffs {
				k := rowIdx[r]
				if basis[k] < 0 && a*sign[k] > 0 {
					basis[k] = j
					used[j] = true
				}
			}
		}
	}

	bigM := 1.0
	for _, c := range cols {
		bigM = math.Max(bigM, math.Abs(c.cost))
	}
	bigM *= 1e6
	for r := range rhs {
		k, ok := rowIdx[r]
		if !ok || basis[k] >= 0 {
			continue
		}
		basis[k] = len(cols)
		cols = append(cols, column{coeffs: map[int]float64{r: sign[k]}, cost: bigM, source: -1, artif: true})
	}

	a := mat.NewDense(m, len(cols), nil)
	cost := make([]float64, len(cols))
	for j, c := range cols {
		cost[j] = c.cost
		for r, v := range c.coeffs {
			k := rowIdx[r]
			a.Set(k, j, v*sign[k])
		}
	}

	// gonum panics on shape errors instead of returning them.
	defer func() {
		if r := recover(); r != nil {
			x, err = nil, fmt.Errorf("simplex: %v", r)
		}
	}()

	_, sol, err := lp.Simplex(cost, a, b, simplexTol, basis)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, ErrInfeasible
		}
		return nil, fmt.Errorf("simplex: %w", err)
	}

	for j, c := range cols {
		switch {
		case c.artif:
			if sol[j] > artificialTol {
				return nil, ErrInfeasible
			}
		case c.source >= 0:
			x[c.source] = p.Lower[c.source] + sol[j]
		}
	}
	return x, nil
}
