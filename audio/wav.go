package audio

import (
	"encoding/binary"
	"fmt"
)

const wavHeaderSize = 44

// EncodeWAV wraps raw 16-bit mono PCM in a RIFF/WAVE container.
func EncodeWAV(pcm []byte, rate int) []byte {
	out := make([]byte, wavHeaderSize+len(pcm))

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(out[22:24], Channels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(rate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(rate*Channels*bytesPerSample))
	binary.LittleEndian.PutUint16(out[32:34], Channels*bytesPerSample)
	binary.LittleEndian.PutUint16(out[34:36], BitDepth)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[wavHeaderSize:], pcm)

	return out
}

// DecodeWAV extracts the PCM payload and sample rate from a RIFF/WAVE file
// produced by EncodeWAV. Only 16-bit mono PCM is supported.
func DecodeWAV(data []byte) ([]byte, int, error) {
	if len(data) < wavHeaderSize {
		return nil, 0, fmt.Errorf("wav data too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE container")
	}
	if format := binary.LittleEndian.Uint16(data[20:22]); format != 1 {
		return nil, 0, fmt.Errorf("unsupported wav format %d", format)
	}
	if channels := binary.LittleEndian.Uint16(data[22:24]); channels != Channels {
		return nil, 0, fmt.Errorf("unsupported channel count %d", channels)
	}
	if depth := binary.LittleEndian.Uint16(data[34:36]); depth != BitDepth {
		return nil, 0, fmt.Errorf("unsupported bit depth %d", depth)
	}

	rate := int(binary.LittleEndian.Uint32(data[24:28]))
	size := int(binary.LittleEndian.Uint32(data[40:44]))
	if size > len(data)-wavHeaderSize {
		size = len(data) - wavHeaderSize
	}
	return data[wavHeaderSize : wavHeaderSize+size], rate, nil
}
