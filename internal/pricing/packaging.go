package pricing

// Packaging defines how box and pack purchase modes expand to base units.
type Packaging struct {
	UnitsPerBox  int
	BoxesPerPack int
	MinBoxes     int
	MaxBoxes     int
}

// UnitsInBoxes expands a box count to base units.
func (p Packaging) UnitsInBoxes(boxes int) int {
	return boxes * p.UnitsPerBox
}

// UnitsInPack returns the base-unit count of one full pack.
func (p Packaging) UnitsInPack() int {
	return p.UnitsPerBox * p.BoxesPerPack
}

// BoxesAllowed reports whether the requested box count sits inside the
// configured min/max range.
func (p Packaging) BoxesAllowed(boxes int) bool {
	if boxes < p.MinBoxes {
		return false
	}
	return p.MaxBoxes == 0 || boxes <= p.MaxBoxes
}
