// Package envelope implements the ADSR envelope generator: a five-stage
// per-sample state machine producing a control signal bounded to [0, 1].
//
// Each of the attack, decay and release stages runs a one-pole exponential
// toward a slightly overshot target, clamped and switched at the stage
// boundary. Rework of the C++ envelope of Nigel Redmon.
//
// Resources:
//   - http://www.earlevel.com/main/2013/06/01/envelope-generators/
//   - https://www.earlevel.com/main/2012/12/15/a-one-pole-filter/
package envelope

import (
	"errors"
	"math"
	"sync"
)

// Stage enumerates the envelope stages.
type Stage int

const (
	// Off is the idle stage, value 0.
	Off Stage = iota
	// Attacking rises toward 1.
	Attacking
	// Decaying falls toward the sustain level.
	Decaying
	// Sustaining holds the sustain level while the gate stays on.
	Sustaining
	// Releasing falls toward 0.
	Releasing
)

func (s Stage) String() string {
	switch s {
	case Off:
		return "off"
	case Attacking:
		return "attacking"
	case Decaying:
		return "decaying"
	case Sustaining:
		return "sustaining"
	case Releasing:
		return "releasing"
	}
	return "unknown"
}

const (
	lower = 0.
	upper = 1.
)

// DefaultOvershoot is the default curve headroom constant.
const DefaultOvershoot = 1e-3

// Overshoot values are clipped to this strictly positive finite range.
const (
	minOvershoot = 1e-9
	maxOvershoot = 1e9
)

var (
	// ErrNegativeTime is returned when a stage time is negative.
	ErrNegativeTime = errors.New("envelope: stage time must not be negative")
	// ErrSustainRange is returned when the sustain level leaves [0, 1].
	ErrSustainRange = errors.New("envelope: sustain must be within [0, 1]")
	// ErrSampleInterval is returned when the sample interval is not positive.
	ErrSampleInterval = errors.New("envelope: sample interval must be positive")
	// ErrOvershoot is returned when the overshoot headroom is negative.
	ErrOvershoot = errors.New("envelope: overshoot must not be negative")
)

// Envelope is the ADSR state machine. All parameters are settable after
// construction; every change recomputes the derived coefficient/base pairs
// atomically with respect to in-flight sampling. Sampling is the only way
// time advances.
type Envelope struct {
	mu sync.Mutex

	attack    float64
	decay     float64
	sustain   float64
	release   float64
	dt        float64
	overshoot float64
	retrigger bool
	loop      bool

	stage Stage
	value float64

	attackCoef  float64
	attackBase  float64
	decayCoef   float64
	decayBase   float64
	releaseCoef float64
	releaseBase float64
}

// Option configures an envelope at construction.
type Option func(e *Envelope) error

// Overshoot sets the curve headroom constant.
func Overshoot(o float64) Option {
	return func(e *Envelope) error {
		return e.setOvershoot(o)
	}
}

// Retrigger lets a gate-on restart the attack from any stage.
func Retrigger() Option {
	return func(e *Envelope) error {
		e.retrigger = true
		return nil
	}
}

// Loop makes the envelope free-run through all stages, ignoring the gate.
func Loop() Option {
	return func(e *Envelope) error {
		e.loop = true
		return nil
	}
}

// New returns an envelope with the given attack, decay and release times in
// seconds, sustain level in [0, 1] and sample interval dt.
func New(attack, decay, sustain, release, dt float64, options ...Option) (*Envelope, error) {
	if attack < 0 || decay < 0 || release < 0 {
		return nil, ErrNegativeTime
	}
	if sustain < lower || sustain > upper {
		return nil, ErrSustainRange
	}
	if dt <= 0 {
		return nil, ErrSampleInterval
	}
	e := &Envelope{
		attack:    attack,
		decay:     decay,
		sustain:   sustain,
		release:   release,
		dt:        dt,
		overshoot: DefaultOvershoot,
	}
	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}
	e.compute()
	if e.loop {
		e.stage = Attacking
	}
	return e, nil
}

// exponentialCoefficient derives the one-pole coefficient for a stage of
// the given rate (stage time in samples). A non-positive rate yields 0, an
// instantaneous jump.
func exponentialCoefficient(rate, overshoot float64) float64 {
	if rate <= 0 {
		return 0
	}
	return math.Exp(-math.Log((1+overshoot)/overshoot) / rate)
}

// compute derives base values and coefficients for the attack, decay and
// release stages. Callers hold the lock.
func (e *Envelope) compute() {
	e.attackCoef = exponentialCoefficient(e.attack/e.dt, e.overshoot)
	e.attackBase = (upper + e.overshoot) * (1 - e.attackCoef)

	e.decayCoef = exponentialCoefficient(e.decay/e.dt, e.overshoot)
	e.decayBase = (e.sustain - e.overshoot) * (1 - e.decayCoef)

	e.releaseCoef = exponentialCoefficient(e.release/e.dt, e.overshoot)
	e.releaseBase = (lower - e.overshoot) * (1 - e.releaseCoef)
}

// Attack returns the attack time.
func (e *Envelope) Attack() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attack
}

// SetAttack sets the attack time in seconds.
func (e *Envelope) SetAttack(attack float64) error {
	if attack < 0 {
		return ErrNegativeTime
	}
	e.mu.Lock()
	e.attack = attack
	e.compute()
	e.mu.Unlock()
	return nil
}

// Decay returns the decay time.
func (e *Envelope) Decay() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decay
}

// SetDecay sets the decay time in seconds.
func (e *Envelope) SetDecay(decay float64) error {
	if decay < 0 {
		return ErrNegativeTime
	}
	e.mu.Lock()
	e.decay = decay
	e.compute()
	e.mu.Unlock()
	return nil
}

// Sustain returns the sustain level.
func (e *Envelope) Sustain() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sustain
}

// SetSustain sets the sustain level in [0, 1].
func (e *Envelope) SetSustain(sustain float64) error {
	if sustain < lower || sustain > upper {
		return ErrSustainRange
	}
	e.mu.Lock()
	e.sustain = sustain
	e.compute()
	e.mu.Unlock()
	return nil
}

// Release returns the release time.
func (e *Envelope) Release() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.release
}

// SetRelease sets the release time in seconds.
func (e *Envelope) SetRelease(release float64) error {
	if release < 0 {
		return ErrNegativeTime
	}
	e.mu.Lock()
	e.release = release
	e.compute()
	e.mu.Unlock()
	return nil
}

// Overshoot returns the curve headroom constant.
func (e *Envelope) Overshoot() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overshoot
}

// SetOvershoot sets the curve headroom constant. Negative values are
// rejected; accepted values are clipped to a strictly positive finite
// range.
func (e *Envelope) SetOvershoot(overshoot float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setOvershoot(overshoot)
}

func (e *Envelope) setOvershoot(overshoot float64) error {
	if overshoot < 0 {
		return ErrOvershoot
	}
	e.overshoot = math.Min(math.Max(overshoot, minOvershoot), maxOvershoot)
	e.compute()
	return nil
}

// SetRetrigger toggles whether a gate-on restarts the attack from any stage.
func (e *Envelope) SetRetrigger(retrigger bool) {
	e.mu.Lock()
	e.retrigger = retrigger
	e.mu.Unlock()
}

// SetLoop toggles free-running mode.
func (e *Envelope) SetLoop(loop bool) {
	e.mu.Lock()
	e.loop = loop
	e.mu.Unlock()
}

// Stage returns the current envelope stage.
func (e *Envelope) Stage() Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage
}

// Value returns the current envelope level.
func (e *Envelope) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Active reports whether the envelope is in any stage but Off.
func (e *Envelope) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage != Off
}

// Gate changes the trigger state. Turning on starts the attack from Off or
// Releasing, or from any stage when retrigger is set; turning off moves
// Attacking, Decaying or Sustaining to Releasing. The gate is ignored in
// loop mode.
func (e *Envelope) Gate(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loop {
		return
	}
	if on {
		if e.retrigger || e.stage == Off || e.stage == Releasing {
			e.stage = Attacking
		}
		return
	}
	if e.stage == Attacking || e.stage == Decaying || e.stage == Sustaining {
		e.stage = Releasing
	}
}

// Sample advances the state machine n times and returns the produced
// values in order. Values always lie in [0, 1].
func (e *Envelope) Sample(n int) []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = e.singleSample()
	}
	return out
}

// singleSample steps the state machine forward by one sample. Callers hold
// the lock.
func (e *Envelope) singleSample() float64 {
	newValue := 0.
	switch e.stage {
	case Off:
		newValue = lower
		if e.loop {
			e.stage = Attacking
		}
	case Attacking:
		newValue = e.attackBase + e.value*e.attackCoef
		if newValue >= upper {
			newValue = upper
			e.stage = Decaying
		}
	case Decaying:
		newValue = e.decayBase + e.value*e.decayCoef
		if newValue <= e.sustain {
			newValue = e.sustain
			e.stage = Sustaining
		}
	case Sustaining:
		newValue = e.sustain
		if e.loop {
			e.stage = Releasing
		}
	case Releasing:
		newValue = e.releaseBase + e.value*e.releaseCoef
		if newValue <= lower {
			newValue = lower
			if e.loop {
				e.stage = Attacking
			} else {
				e.stage = Off
			}
		}
	}
	e.value = newValue
	return newValue
}
