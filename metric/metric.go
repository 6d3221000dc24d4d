// Package metric publishes engine runtime counters through expvar.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atheler/klang/signal"
)

const componentsLabel = "klang.components"

const (
	// CycleCounter measures number of executed buffer cycles.
	CycleCounter = "Cycles"
	// SampleCounter measures number of rendered samples.
	SampleCounter = "Samples"
	// LatencyCounter measures latency between cycles.
	LatencyCounter = "Latency"
	// DurationCounter counts the rendered signal duration.
	DurationCounter = "Duration"
	// RunCounter counts started runs.
	RunCounter = "Runs"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		CycleCounter,
		SampleCounter,
		LatencyCounter,
		DurationCounter,
		RunCounter,
	}
)

// Get returns metric values for the provided component type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(componentType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(componentType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns a new Measure closure. The closure is needed to
// postpone metrics capture until the run actually starts.
type ResetFunc func() MeasureFunc

// MeasureFunc captures metrics when a cycle completes.
type MeasureFunc func(bufferSize int64)

// Meter creates a new meter closure to capture component counters.
func Meter(component interface{}, sampleRate int) ResetFunc {
	t := getType(component)
	metric := components.get(t)
	metric.runs.Add(1)
	return func() MeasureFunc {
		calledAt := time.Now()
		var (
			bufferSize     int64
			bufferDuration time.Duration
		)
		return func(s int64) {
			metric.latency.set(time.Since(calledAt))
			metric.cycles.Add(1)
			metric.samples.Add(s)
			// recalculate buffer duration only when buffer size has changed
			if bufferSize != s {
				bufferSize = s
				bufferDuration = signal.DurationOf(sampleRate, s)
			}
			metric.duration.add(bufferDuration)
			calledAt = time.Now()
		}
	}
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(componentType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[componentType]; ok {
		return metric
	}
	metric := newMetric(componentType)
	m.m[componentType] = metric
	return metric
}

type metric struct {
	key      string
	runs     *expvar.Int
	cycles   *expvar.Int
	samples  *expvar.Int
	latency  *duration
	duration *duration
}

func newMetric(componentType string) metric {
	m := metric{
		key:     componentType,
		runs:    expvar.NewInt(key(componentType, RunCounter)),
		cycles:  expvar.NewInt(key(componentType, CycleCounter)),
		samples: expvar.NewInt(key(componentType, SampleCounter)),
		latency: &duration{},
	}
	m.duration = &duration{}
	expvar.Publish(key(componentType, LatencyCounter), m.latency)
	expvar.Publish(key(componentType, DurationCounter), m.duration)
	return m
}

func key(componentType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, componentType, counter)
}

func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration formats time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%v", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}
