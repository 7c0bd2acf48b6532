package audio

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSilence(t *testing.T) {
	t.Parallel()

	pcm := Silence(500*time.Millisecond, SampleRate)
	require.Len(t, pcm, SampleRate/2*bytesPerSample)
	for _, b := range pcm {
		require.Zero(t, b)
	}
	require.Equal(t, 500, DurationMs(pcm, SampleRate))
}

func TestTone_GainBoundsAmplitude(t *testing.T) {
	t.Parallel()

	pcm := Tone(440, time.Second, SampleRate, -20)
	require.Len(t, pcm, SampleRate*bytesPerSample)

	// -20 dB of full scale is about 3276; allow for rounding.
	limit := int16(3300)
	peak := int16(0)
	for i := 0; i < len(pcm); i += bytesPerSample {
		v := int16(binary.LittleEndian.Uint16(pcm[i:]))
		if v > peak {
			peak = v
		}
		require.LessOrEqual(t, v, limit)
		require.GreaterOrEqual(t, v, -limit)
	}
	require.Greater(t, peak, int16(3000))
}

func TestFades(t *testing.T) {
	t.Parallel()

	pcm := Tone(440, 3*time.Second, SampleRate, -6)
	FadeIn(pcm, time.Second, SampleRate)
	FadeOut(pcm, time.Second, SampleRate)

	first := int16(binary.LittleEndian.Uint16(pcm[:bytesPerSample]))
	last := int16(binary.LittleEndian.Uint16(pcm[len(pcm)-bytesPerSample:]))
	require.Zero(t, first)
	require.Zero(t, last)
}

func TestFades_ShorterClipThanRamp(t *testing.T) {
	t.Parallel()

	pcm := Tone(440, 100*time.Millisecond, SampleRate, -6)
	FadeIn(pcm, time.Second, SampleRate)
	FadeOut(pcm, time.Second, SampleRate)
	// Ramp is clamped to the clip length; no panic and the edges are silent.
	require.Zero(t, int16(binary.LittleEndian.Uint16(pcm[:bytesPerSample])))
}

func TestConcat(t *testing.T) {
	t.Parallel()

	joined := Concat([]byte{1, 2}, nil, []byte{3, 4, 5, 6})
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, joined)
}

func TestWAVRoundTrip(t *testing.T) {
	t.Parallel()

	pcm := Tone(330, 250*time.Millisecond, SampleRate, -12)
	encoded := EncodeWAV(pcm, SampleRate)
	require.Len(t, encoded, wavHeaderSize+len(pcm))
	require.Equal(t, "RIFF", string(encoded[0:4]))
	require.Equal(t, "WAVE", string(encoded[8:12]))

	decoded, rate, err := DecodeWAV(encoded)
	require.NoError(t, err)
	require.Equal(t, SampleRate, rate)
	require.Equal(t, pcm, decoded)
}

func TestDecodeWAV_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := DecodeWAV([]byte("not a wav file"))
	require.Error(t, err)

	bad := EncodeWAV(Silence(100*time.Millisecond, SampleRate), SampleRate)
	copy(bad[8:12], "AIFF")
	_, _, err = DecodeWAV(bad)
	require.Error(t, err)
}
