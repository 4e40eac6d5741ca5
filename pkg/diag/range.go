package diag

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging represents a range [From, To) within a source. Structs can embed
// Ranging to satisfy the [Ranger] interface.
//
// A Ranging is the location token attached to errors reported by
// checkpoints. Nothing in this package retains a Ranging beyond the call it
// was passed to.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// Unknown is a Ranging used when the location is not known. It is shown as
// "unknown position".
var Unknown = Ranging{-1, -1}

// PointRanging returns a zero-width Ranging at the given point.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}

// MixedRanging returns a Ranging from the start position of a to the end
// position of b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}
