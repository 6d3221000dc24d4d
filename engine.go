package klang

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/atheler/klang/log"
	"github.com/atheler/klang/metric"
)

const (
	// DefaultSampleRate is the reference sample rate in Hz.
	DefaultSampleRate = 44100
	// DefaultBufferSize is the number of samples per cycle buffer.
	DefaultBufferSize = 256
)

// Flusher is implemented by blocks that hold external resources which must
// be finalized when a run ends, e.g. file sinks closing their encoder.
type Flusher interface {
	Flush() error
}

// Engine drives repeated buffer cycles over a block network. The network
// and the execution order are computed once per run and owned exclusively
// by that run; two engines must not share mutable block state.
type Engine struct {
	UID
	name       string
	sampleRate int
	bufferSize int
	cycles     int           // 0 means run until the context is done
	duration   time.Duration // alternative to cycles
	logger     *logrus.Logger
}

// Option provides a way to set parameters to an engine.
type Option func(e *Engine) error

// New creates a new engine and applies the provided options.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		UID:        NewUID(),
		sampleRate: DefaultSampleRate,
		bufferSize: DefaultBufferSize,
		logger:     log.GetLogger(),
	}
	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// WithName sets a name for the engine, used in logs.
func WithName(n string) Option {
	return func(e *Engine) error {
		e.name = n
		return nil
	}
}

// SampleRate sets the run-level sample rate in Hz.
func SampleRate(rate int) Option {
	return func(e *Engine) error {
		if rate <= 0 {
			return errors.New("klang: sample rate must be positive")
		}
		e.sampleRate = rate
		return nil
	}
}

// BufferSize sets the number of samples per cycle buffer.
func BufferSize(size int) Option {
	return func(e *Engine) error {
		if size <= 0 {
			return errors.New("klang: buffer size must be positive")
		}
		e.bufferSize = size
		return nil
	}
}

// Cycles bounds the run to a fixed number of buffer cycles.
func Cycles(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return errors.New("klang: cycle count must not be negative")
		}
		e.cycles = n
		return nil
	}
}

// Duration bounds the run to a wall duration of rendered signal, rounded up
// to whole buffer cycles.
func Duration(d time.Duration) Option {
	return func(e *Engine) error {
		if d < 0 {
			return errors.New("klang: duration must not be negative")
		}
		e.duration = d
		return nil
	}
}

// Logger replaces the engine logger.
func Logger(l *logrus.Logger) Option {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// SampleRate returns the run-level sample rate in Hz.
func (e *Engine) SampleRate() int { return e.sampleRate }

// BufferSize returns the number of samples per cycle buffer.
func (e *Engine) BufferSize() int { return e.bufferSize }

// Run schedules the network reachable from the seeds and executes buffer
// cycles until the configured bound is reached or ctx is done. Within one
// cycle staged messages are delivered first, then every block updates in
// the scheduler-fixed order; a block update error aborts the run. A context
// cancellation takes effect at the next cycle boundary and is not an error.
// After the loop all blocks implementing Flusher are flushed.
func (e *Engine) Run(ctx context.Context, seeds ...Block) error {
	if len(seeds) == 0 {
		return ErrNoSeeds
	}
	order := ExecutionOrder(seeds...)
	for _, b := range order {
		if c, ok := b.(*Composite); ok {
			c.RefreshOrder()
		}
	}
	flat := Unravel(order)
	e.warnDuplicates(flat)
	outputs := messageOutputs(flat)
	e.logger.Infof("klang: scheduled %d blocks (%d leaves)", len(order), len(flat))

	measure := metric.Meter(e, e.sampleRate)()

	cycles := e.cycles
	if e.duration > 0 {
		cycles = int(math.Ceil(e.duration.Seconds() * float64(e.sampleRate) / float64(e.bufferSize)))
	}

	var errExec error
loop:
	for cycle := 0; cycles == 0 || cycle < cycles; cycle++ {
		select {
		case <-ctx.Done():
			e.logger.Debugf("klang: stop requested, exiting after cycle %d", cycle)
			break loop
		default:
		}
		for _, o := range outputs {
			o.Flush()
		}
		for _, b := range order {
			if err := b.Update(); err != nil {
				errExec = fmt.Errorf("update %s: %w", blockName(b), err)
				break loop
			}
		}
		measure(int64(e.bufferSize))
	}

	errFlush := e.flush(flat)
	if errExec != nil || errFlush != nil {
		return &ErrorRun{ErrExec: errExec, ErrFlush: errFlush}
	}
	return nil
}

// flush finalizes every block holding external resources.
func (e *Engine) flush(blocks []Block) error {
	var errs flushErrors
	for _, b := range blocks {
		if f, ok := b.(Flusher); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, fmt.Errorf("flush %s: %w", blockName(b), err))
			}
		}
	}
	return errs.ret()
}

// warnDuplicates reports blocks appearing more than once in the flattened
// execution order; those get executed multiple times per cycle.
func (e *Engine) warnDuplicates(flat []Block) {
	counter := make(map[Block]int, len(flat))
	for _, b := range flat {
		counter[b]++
	}
	for _, b := range flat {
		if counter[b] > 1 {
			e.logger.Warnf("klang: block %s scheduled %dx per cycle", blockName(b), counter[b])
			counter[b] = 0
		}
	}
}

// messageOutputs collects all staging message outputs of the flattened
// network, in schedule order.
func messageOutputs(blocks []Block) []*MessageOutput {
	var outputs []*MessageOutput
	for _, b := range blocks {
		for _, p := range b.Outputs() {
			if o, ok := p.(*MessageOutput); ok {
				outputs = append(outputs, o)
			}
		}
	}
	return outputs
}
