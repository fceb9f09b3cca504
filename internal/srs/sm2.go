// Package srs implements the SuperMemo-2 spaced-repetition schedule for
// review cards.
package srs

import "math"

const (
	// PassThreshold is the lowest quality counted as a successful recall
	PassThreshold = 3
	// MinEaseFactor is the floor below which EF never drops
	MinEaseFactor = 1.3
	// InitialEaseFactor is the EF of a freshly created card
	InitialEaseFactor = 2.5
)

// Quality is the 0-5 recall confidence score of one review.
type Quality int

const (
	// QualityBlackout: complete blackout, unable to recall
	QualityBlackout Quality = 0
	// QualityIncorrect: incorrect, but remembered upon seeing the answer
	QualityIncorrect Quality = 1
	// QualityIncorrectFamiliar: incorrect, but the answer felt familiar
	QualityIncorrectFamiliar Quality = 2
	// QualityCorrectDifficult: correct with significant effort
	QualityCorrectDifficult Quality = 3
	// QualityCorrectHesitation: correct after some hesitation
	QualityCorrectHesitation Quality = 4
	// QualityPerfect: perfect recall
	QualityPerfect Quality = 5
)

// Valid reports whether q is inside the 0-5 scale.
func (q Quality) Valid() bool { return q >= 0 && q <= 5 }

// State is the scheduling state of a single card.
type State struct {
	Interval    int     // days until the next review, >= 1
	EaseFactor  float64 // >= MinEaseFactor
	Repetitions int     // consecutive passes
}

// NewState returns the state of a card that has never been reviewed.
func NewState() State {
	return State{Interval: 1, EaseFactor: InitialEaseFactor, Repetitions: 0}
}

// Apply advances the state by one review outcome.
//
// On a pass the interval follows the fixed SM-2 ladder: 1 day after the
// first pass, 3 after the second, then interval*EF rounded. On a fail the
// repetitions and interval reset. The ease factor is adjusted on every
// outcome, pass or fail, using the old interval for the ladder step, and
// never drops below MinEaseFactor.
func Apply(s State, quality Quality) State {
	if quality >= PassThreshold {
		switch s.Repetitions {
		case 0:
			s.Interval = 1
		case 1:
			s.Interval = 3
		default:
			s.Interval = int(math.Round(float64(s.Interval) * s.EaseFactor))
		}
		s.Repetitions++
	} else {
		s.Repetitions = 0
		s.Interval = 1
	}

	ef := s.EaseFactor + (0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	s.EaseFactor = ef

	return s
}
