package invariant

// Epsilon absorbs floating-point noise in every ceiling comparison.
const Epsilon = 1e-9

// #region check
// Check captures a single predicate result.
type Check struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Limit float64 `json:"limit"`
	Pass  bool    `json:"pass"`
}

// #endregion check

// #region result
// Result is the outcome of one invariant family.
type Result struct {
	Passed bool
	Checks []Check
	Reason string
}

// Failed returns the checks that did not pass.
func (r Result) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Pass {
			out = append(out, c)
		}
	}
	return out
}

// #endregion result
