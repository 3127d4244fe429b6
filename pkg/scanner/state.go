package scanner

// ScanState tracks run-lengths of a horizontal/vertical/diagonal pixel
// scan, looking for the 1:1:3:1:1 finder-marker pattern. States 0..5
// are alternating (non-ink|ink) phases; state 6 is ephemeral and
// means "pattern complete, evaluate now".
type ScanState struct {
	state int
	tally []int
}

// NewScanState starts a fresh run at state 0 with one open run.
func NewScanState() *ScanState {
	return &ScanState{state: 0, tally: []int{0}}
}

// popState drops the state back by 2 and discards the first two
// tallied runs, so the next marker can share a boundary run with this
// one — the overlap behavior spec section 9 calls out as deliberate.
func (s *ScanState) popState() {
	s.state -= 2
	s.tally = s.tally[2:]
}

// evaluate checks the five tallied runs against the 1:1:3:1:1 ratio
// and returns the total anchor width if they match.
func (s *ScanState) evaluate() (width int, ok bool) {
	if s.state != 6 {
		return 0, false
	}
	runs := s.tally[1:6]
	for _, r := range runs {
		if r == 0 {
			return 0, false
		}
	}
	center := runs[2]
	outerSum := 0
	for i, r := range runs {
		if i == 2 {
			continue
		}
		ratio := float64(center) / float64(r)
		if ratio < 2.5 || ratio > 3.5 {
			return 0, false
		}
		outerSum += r
	}
	return outerSum + center, true
}

// Process advances the state machine by one pixel. isInk reports
// whether the current pixel is an "ink" pixel under the scan's
// polarity (already dark-mode adjusted by the caller). It returns the
// anchor width and true when a complete, validated pattern was just
// consumed.
func (s *ScanState) Process(isInk bool) (width int, ok bool) {
	isTransition := (s.isNonInkPhase() && isInk) || (s.isInkPhase() && !isInk)
	if isTransition {
		s.state++
		s.tally = append(s.tally, 0)
		s.tally[len(s.tally)-1]++

		if s.state == 6 {
			width, ok = s.evaluate()
			s.popState()
			return width, ok
		}
		return 0, false
	}

	if s.isInkPhase() && isInk {
		s.tally[len(s.tally)-1]++
	}
	if s.isNonInkPhase() && !isInk {
		s.tally[len(s.tally)-1]++
	}
	return 0, false
}

func (s *ScanState) isNonInkPhase() bool {
	return s.state == 0 || s.state == 2 || s.state == 4
}

func (s *ScanState) isInkPhase() bool {
	return s.state == 1 || s.state == 3 || s.state == 5
}
