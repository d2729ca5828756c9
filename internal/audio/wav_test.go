package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

// sineWavePCM generates raw 16-bit little-endian PCM bytes for a sine wave.
func sineWavePCM(sampleRate int, duration, frequency float64) []byte {
	numSamples := int(float64(sampleRate) * duration)
	pcm := make([]byte, numSamples*2)

	for i := 0; i < numSamples; i++ {
		t := float64(i) / float64(sampleRate)
		amplitude := 16383.0 // Half of max int16 to avoid clipping
		sample := int16(amplitude * math.Sin(2*math.Pi*frequency*t))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}

	return pcm
}

func TestEncodeWAV(t *testing.T) {
	sampleRate := 16000
	pcm := sineWavePCM(sampleRate, 0.1, 440.0)

	wavData, err := EncodeWAV(pcm, 1, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	expectedSize := wavHeaderSize + len(pcm)
	if len(wavData) != expectedSize {
		t.Errorf("Expected WAV size %d, got %d", expectedSize, len(wavData))
	}

	if err := ValidateWAV(wavData); err != nil {
		t.Errorf("Generated WAV is invalid: %v", err)
	}

	info, err := GetWAVInfo(wavData)
	if err != nil {
		t.Fatalf("Failed to get WAV info: %v", err)
	}

	if info.SampleRate != uint32(sampleRate) {
		t.Errorf("Expected sample rate %d, got %d", sampleRate, info.SampleRate)
	}

	if info.Channels != 1 {
		t.Errorf("Expected 1 channel, got %d", info.Channels)
	}

	if info.BitsPerSample != 16 {
		t.Errorf("Expected 16 bits per sample, got %d", info.BitsPerSample)
	}

	if info.DataSize != uint32(len(pcm)) {
		t.Errorf("Expected data size %d, got %d", len(pcm), info.DataSize)
	}

	expectedDuration := 0.1
	if math.Abs(info.Duration-expectedDuration) > 0.001 {
		t.Errorf("Expected duration %.3f, got %.3f", expectedDuration, info.Duration)
	}
}

func TestEncodeWAVPayloadVerbatim(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}

	wavData, err := EncodeWAV(pcm, 1, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	payload := wavData[wavHeaderSize:]
	if len(payload) != len(pcm) {
		t.Fatalf("Expected payload length %d, got %d", len(pcm), len(payload))
	}

	for i, b := range pcm {
		if payload[i] != b {
			t.Errorf("Payload byte %d: expected 0x%02x, got 0x%02x", i, b, payload[i])
		}
	}
}

func TestEncodeWAVStereo(t *testing.T) {
	pcm := sineWavePCM(16000, 0.05, 440.0)

	wavData, err := EncodeWAV(pcm, 2, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	info, err := GetWAVInfo(wavData)
	if err != nil {
		t.Fatalf("Failed to get WAV info: %v", err)
	}

	if info.Channels != 2 {
		t.Errorf("Expected 2 channels, got %d", info.Channels)
	}
}

func TestEncodeWAVOddByteCount(t *testing.T) {
	// An odd byte count is not a whole number of 16-bit frames but must
	// still be written verbatim.
	pcm := []byte{0x01, 0x02, 0x03}

	wavData, err := EncodeWAV(pcm, 1, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	if len(wavData) != wavHeaderSize+3 {
		t.Errorf("Expected WAV size %d, got %d", wavHeaderSize+3, len(wavData))
	}
}

func TestEncodeWAVErrors(t *testing.T) {
	tests := []struct {
		name       string
		pcm        []byte
		channels   int
		sampleRate int
	}{
		{"empty data", nil, 1, 16000},
		{"zero channels", []byte{0x01, 0x02}, 0, 16000},
		{"negative channels", []byte{0x01, 0x02}, -1, 16000},
		{"zero sample rate", []byte{0x01, 0x02}, 1, 0},
		{"negative sample rate", []byte{0x01, 0x02}, 1, -16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeWAV(tt.pcm, tt.channels, tt.sampleRate); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestValidateWAVErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte("RIFF")},
		{"missing RIFF", make([]byte, 44)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateWAV(tt.data); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
