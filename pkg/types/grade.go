package types

// Grade represents one produce size category on the grading scale
type Grade struct {
	Label           string //size label stamped on the crate
	ReferenceWeight int    //nominal weight in grams for this label
}
