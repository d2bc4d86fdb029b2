package tts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"mime"
	"strconv"
	"strings"
)

// Default PCM format assumed when the upstream omits metadata.
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
	DefaultBitDepth   = 16
)

// Format describes linear PCM samples.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// withDefaults replaces zero fields with 24kHz mono 16-bit.
func (f Format) withDefaults() Format {
	if f.SampleRate <= 0 {
		f.SampleRate = DefaultSampleRate
	}
	if f.Channels <= 0 {
		f.Channels = DefaultChannels
	}
	if f.BitDepth <= 0 {
		f.BitDepth = DefaultBitDepth
	}
	return f
}

// EncodeWAV wraps headerless little-endian PCM in a RIFF/WAVE container.
func EncodeWAV(pcm []byte, f Format) ([]byte, error) {
	f = f.withDefaults()
	if f.BitDepth%8 != 0 {
		return nil, fmt.Errorf("tts: unsupported bit depth %d", f.BitDepth)
	}
	blockAlign := f.Channels * f.BitDepth / 8
	byteRate := f.SampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(f.Channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(f.SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(f.BitDepth))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes(), nil
}

// Playable is audio ready to be cached and served.
type Playable struct {
	Data      []byte
	MIMEType  string
	Extension string
}

// Package turns a synthesis result into a playable file. Containerized
// audio (wav, mpeg) passes through; raw PCM is wrapped in WAV using the
// result metadata, the rate parsed from the MIME type, or the defaults.
func Package(r *Result) (*Playable, error) {
	if r == nil || len(r.Audio) == 0 {
		return nil, ErrNoAudio
	}
	mediaType, params, err := mime.ParseMediaType(r.MIMEType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(r.MIMEType))
	}

	switch mediaType {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return &Playable{Data: r.Audio, MIMEType: "audio/wav", Extension: "wav"}, nil
	case "audio/mpeg", "audio/mp3":
		return &Playable{Data: r.Audio, MIMEType: "audio/mpeg", Extension: "mp3"}, nil
	}

	f := Format{SampleRate: r.SampleRate, Channels: r.Channels, BitDepth: r.BitDepth}
	if f.SampleRate == 0 {
		if rate, err := strconv.Atoi(params["rate"]); err == nil {
			f.SampleRate = rate
		}
	}
	if f.BitDepth == 0 {
		if depth, ok := pcmBitDepth(mediaType); ok {
			f.BitDepth = depth
		}
	}
	wav, err := EncodeWAV(r.Audio, f)
	if err != nil {
		return nil, err
	}
	return &Playable{Data: wav, MIMEType: "audio/wav", Extension: "wav"}, nil
}

// pcmBitDepth reads the depth from types like audio/L16 or audio/L24.
func pcmBitDepth(mediaType string) (int, bool) {
	rest, ok := strings.CutPrefix(mediaType, "audio/l")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}
