package tts

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestParseVoice(t *testing.T) {
	tests := []struct {
		label    string
		want     Voice
		upstream string
	}{
		{"warm", VoiceWarm, "Kore"},
		{"BRIGHT", VoiceBright, "Puck"},
		{" deep ", VoiceDeep, "Charon"},
		{"", VoiceWarm, "Kore"},
		{"robotic", VoiceWarm, "Kore"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			v := ParseVoice(tt.label)
			if v != tt.want {
				t.Fatalf("ParseVoice(%q) = %q, want %q", tt.label, v, tt.want)
			}
			if v.UpstreamName() != tt.upstream {
				t.Fatalf("UpstreamName = %q, want %q", v.UpstreamName(), tt.upstream)
			}
		})
	}
}

func TestEncodeWAVDefaults(t *testing.T) {
	pcm := make([]byte, 480)
	wav, err := EncodeWAV(pcm, Format{})
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	if len(wav) != 44+len(pcm) {
		t.Fatalf("len = %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("channels = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 24000 {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 48000 {
		t.Errorf("byte rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bit depth = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d", got)
	}
}

func TestEncodeWAVRejectsOddDepth(t *testing.T) {
	if _, err := EncodeWAV([]byte{1}, Format{BitDepth: 12}); err == nil {
		t.Fatal("expected error for 12-bit samples")
	}
}

func TestPackage(t *testing.T) {
	tests := []struct {
		name     string
		result   *Result
		mime     string
		ext      string
		rate     uint32
		depth    uint16
		wrapsPCM bool
	}{
		{"gemini pcm mime", &Result{Audio: []byte{0, 0}, MIMEType: "audio/L16;codec=pcm;rate=16000"}, "audio/wav", "wav", 16000, 16, true},
		{"metadata wins", &Result{Audio: []byte{0, 0}, MIMEType: "audio/L16;rate=16000", SampleRate: 44100}, "audio/wav", "wav", 44100, 16, true},
		{"no metadata", &Result{Audio: []byte{0, 0}}, "audio/wav", "wav", 24000, 16, true},
		{"already wav", &Result{Audio: []byte("RIFF...."), MIMEType: "audio/wav"}, "audio/wav", "wav", 0, 0, false},
		{"mp3", &Result{Audio: []byte("ID3"), MIMEType: "audio/mpeg"}, "audio/mpeg", "mp3", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Package(tt.result)
			if err != nil {
				t.Fatalf("Package: %v", err)
			}
			if p.MIMEType != tt.mime || p.Extension != tt.ext {
				t.Fatalf("got %s/%s", p.MIMEType, p.Extension)
			}
			if !tt.wrapsPCM {
				if string(p.Data) != string(tt.result.Audio) {
					t.Fatal("containerized audio must pass through")
				}
				return
			}
			if got := binary.LittleEndian.Uint32(p.Data[24:28]); got != tt.rate {
				t.Errorf("sample rate = %d, want %d", got, tt.rate)
			}
			if got := binary.LittleEndian.Uint16(p.Data[34:36]); got != tt.depth {
				t.Errorf("bit depth = %d, want %d", got, tt.depth)
			}
		})
	}
}

func TestPackageWithoutAudio(t *testing.T) {
	if _, err := Package(&Result{}); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("err = %v, want ErrNoAudio", err)
	}
	if _, err := Package(nil); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("err = %v, want ErrNoAudio", err)
	}
}
