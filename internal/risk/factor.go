// Package risk implements the K-factor tables and the collapse probability
// model for bridges and support structures. All factor functions are total
// over their declared domain: missing attributes resolve to a documented
// fallback instead of failing. The two exceptions (precipitation zone ids
// outside 1..8 and the undefined wall-type cell of the legacy table) are
// contract violations and return errors.
package risk

// Factor is one dimensionless risk multiplier. Known reports whether the
// driving attribute could be determined; an unknown factor is neutralized
// (treated as 1) at the probability product stage only, never inside the
// factor tables themselves.
type Factor struct {
	Name  string
	Value float64
	Known bool
}

// known builds a determinable factor.
func known(name string, value float64) Factor {
	return Factor{Name: name, Value: value, Known: true}
}

// unknown builds an undeterminable factor.
func unknown(name string) Factor {
	return Factor{Name: name}
}

// Or returns the factor value, or the given neutral fallback when the factor
// is undeterminable.
func (f Factor) Or(fallback float64) float64 {
	if !f.Known {
		return fallback
	}
	return f.Value
}

// ProbabilityOfCollapse multiplies the base rate with every determinable
// factor. The result is an unnormalized product: it is not clamped and may
// exceed typical probability bounds, which is a property of the underlying
// model rather than a defect.
func ProbabilityOfCollapse(base float64, factors ...Factor) float64 {
	p := base
	for _, f := range factors {
		if f.Known {
			p *= f.Value
		}
	}
	return p
}
