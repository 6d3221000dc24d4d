// Package signal provides digital signal buffer manipulation. It converts
// between the engine's non-interleaved float64 buffers and the interleaved
// integer PCM representation used by file encoders.
package signal

import (
	"math"
	"time"
)

// Float64 is a non-interleaved float64 signal, one slice per channel.
type Float64 [][]float64

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// BitDepth is the size of PCM int samples, required for int-to-float and
// backward conversion.
type BitDepth int

// InterInt is an interleaved int signal.
type InterInt struct {
	Data        []int
	NumChannels int
	BitDepth
}

// devider is used when int to float conversion is done.
func (bitDepth BitDepth) devider() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth24:
		return 1<<23 - 1
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// multiplier is used when float to int conversion is done.
func (bitDepth BitDepth) multiplier() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8 - 1
	case BitDepth16:
		return math.MaxInt16 - 1
	case BitDepth24:
		return 1<<23 - 2
	case BitDepth32:
		return math.MaxInt32 - 1
	default:
		return 1
	}
}

// DurationOf returns the time duration of samples at this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// AsFloat64 converts an interleaved int signal to non-interleaved float64.
func (ints InterInt) AsFloat64() Float64 {
	if ints.Data == nil || ints.NumChannels == 0 {
		return nil
	}
	floats := make([][]float64, ints.NumChannels)
	bufSize := int(math.Ceil(float64(len(ints.Data)) / float64(ints.NumChannels)))
	devider := float64(ints.BitDepth.devider())

	for i := range floats {
		floats[i] = make([]float64, 0, bufSize)
		for j := i; j < len(ints.Data); j += ints.NumChannels {
			floats[i] = append(floats[i], float64(ints.Data[j])/devider)
		}
	}
	return floats
}

// AsInterInt converts a float64 signal to interleaved int of the given bit
// depth.
func (floats Float64) AsInterInt(bitDepth BitDepth) []int {
	numChannels := floats.NumChannels()
	if numChannels == 0 {
		return nil
	}
	multiplier := float64(bitDepth.multiplier())
	ints := make([]int, floats.Size()*numChannels)
	for j := range floats {
		for i := range floats[j] {
			ints[i*numChannels+j] = int(floats[j][i] * multiplier)
		}
	}
	return ints
}

// EmptyFloat64 returns a zeroed buffer of the specified dimensions.
func EmptyFloat64(numChannels int, bufferSize int) Float64 {
	result := make([][]float64, numChannels)
	for i := range result {
		result[i] = make([]float64, bufferSize)
	}
	return result
}

// NumChannels returns the number of channels in the signal.
func (floats Float64) NumChannels() int {
	return len(floats)
}

// Size returns the number of samples per channel.
func (floats Float64) Size() int {
	if floats.NumChannels() == 0 {
		return 0
	}
	return len(floats[0])
}
