// Package audio holds the raw PCM primitives the assembler builds episodes
// from. All helpers operate on 16-bit little-endian mono samples.
package audio

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	// SampleRate matches the pcm_22050 output format requested from the
	// synthesis provider.
	SampleRate = 22050
	BitDepth   = 16
	Channels   = 1

	bytesPerSample = BitDepth / 8
)

// Silence returns d worth of silent samples.
func Silence(d time.Duration, rate int) []byte {
	samples := int(float64(rate) * d.Seconds())
	return make([]byte, samples*bytesPerSample)
}

// Tone renders a sine wave at the given frequency and gain. gainDB is applied
// relative to full scale, so -20 yields a background-level tone.
func Tone(frequency float64, d time.Duration, rate int, gainDB float64) []byte {
	samples := int(float64(rate) * d.Seconds())
	amplitude := math.Pow(10, gainDB/20) * float64(math.MaxInt16)
	out := make([]byte, samples*bytesPerSample)
	for i := 0; i < samples; i++ {
		v := amplitude * math.Sin(2*math.Pi*frequency*float64(i)/float64(rate))
		binary.LittleEndian.PutUint16(out[i*bytesPerSample:], uint16(int16(v)))
	}
	return out
}

// FadeIn applies a linear ramp over d starting at the first sample, in place.
func FadeIn(pcm []byte, d time.Duration, rate int) {
	samples := fadeSamples(pcm, d, rate)
	for i := 0; i < samples; i++ {
		scaleSample(pcm, i, float64(i)/float64(samples))
	}
}

// FadeOut applies a linear ramp over d ending at the last sample, in place.
func FadeOut(pcm []byte, d time.Duration, rate int) {
	total := len(pcm) / bytesPerSample
	samples := fadeSamples(pcm, d, rate)
	for i := 0; i < samples; i++ {
		scaleSample(pcm, total-1-i, float64(i)/float64(samples))
	}
}

func fadeSamples(pcm []byte, d time.Duration, rate int) int {
	samples := int(float64(rate) * d.Seconds())
	if total := len(pcm) / bytesPerSample; samples > total {
		samples = total
	}
	return samples
}

func scaleSample(pcm []byte, index int, factor float64) {
	off := index * bytesPerSample
	v := int16(binary.LittleEndian.Uint16(pcm[off:]))
	binary.LittleEndian.PutUint16(pcm[off:], uint16(int16(float64(v)*factor)))
}

// Concat joins clips in order.
func Concat(clips ...[]byte) []byte {
	size := 0
	for _, c := range clips {
		size += len(c)
	}
	out := make([]byte, 0, size)
	for _, c := range clips {
		out = append(out, c...)
	}
	return out
}

// DurationMs reports the playback length of a PCM clip in milliseconds.
func DurationMs(pcm []byte, rate int) int {
	samples := len(pcm) / bytesPerSample
	return samples * 1000 / rate
}
