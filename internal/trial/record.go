// Package trial reads the per-trial measurements produced by the emptiness
// benchmark. Each row of the input describes one run: the size parameters of
// the generated automaton, whether its language was nonempty, and how long
// the check took.
package trial

// Params are the structural size parameters of the automaton under test.
type Params struct {
	States      int `json:"states"`
	Transitions int `json:"transitions"`
	Acceptances int `json:"acceptances"`
	AccElems    int `json:"acc_elems"`
}

// Record is one measured trial.
type Record struct {
	Params
	Nonempty bool    `json:"nonempty"`
	Elapsed  float64 `json:"elapsed_s"`
}
