// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     audio
// Description: WAV encoding for Whisper input
// Author:      Kiran Shivaraju
// Created:     2026-07-07
// License:     MIT
// ============================================================================

package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const wavHeaderSize = 44

// EncodeWAV encodes mono 16-bit PCM samples as a WAV file.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+dataSize))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk: PCM, mono, 16 bits per sample.
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

// DecodeWAV parses a 16-bit PCM WAV file and returns its sample rate and
// samples.
func DecodeWAV(data []byte) (int, []int16, error) {
	if len(data) < wavHeaderSize {
		return 0, nil, fmt.Errorf("file too small to be a valid WAV")
	}

	if string(data[0:4]) != "RIFF" {
		return 0, nil, fmt.Errorf("not a valid RIFF file")
	}
	if string(data[8:12]) != "WAVE" {
		return 0, nil, fmt.Errorf("not a valid WAVE file")
	}

	pos := 12
	var sampleRate uint32
	var dataStart int
	var dataSize int

	for pos < len(data)-8 {
		chunkID := string(data[pos : pos+4])
		chunkSize := binary.LittleEndian.Uint32(data[pos+4 : pos+8])

		switch chunkID {
		case "fmt ":
			if chunkSize >= 16 {
				sampleRate = binary.LittleEndian.Uint32(data[pos+12 : pos+16])
			}
		case "data":
			dataStart = pos + 8
			dataSize = int(chunkSize)
		}

		pos += 8 + int(chunkSize)
		if pos%2 != 0 {
			pos++ // word alignment
		}
	}

	if sampleRate == 0 || dataStart == 0 {
		return 0, nil, fmt.Errorf("missing required WAV chunks")
	}

	if dataStart+dataSize > len(data) {
		dataSize = len(data) - dataStart
	}

	raw := data[dataStart : dataStart+dataSize]
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}

	return int(sampleRate), samples, nil
}
