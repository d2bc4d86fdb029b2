package speechturn

import "testing"

func TestShape(t *testing.T) {
	tests := []struct {
		name           string
		transcript     string
		result         TextResult
		wantTTS        string
		wantTarget     string
		wantIncomplete bool
		wantLastNote   string
	}{
		{
			name:       "translation spoken",
			transcript: "how do I say apple",
			result:     TextResult{Intent: IntentTranslate, TargetText: "苹果", Romanization: "píngguǒ"},
			wantTTS:    "苹果",
			wantTarget: "苹果",
		},
		{
			name:           "heuristic without translation",
			transcript:     "How do I say thank you in Chinese",
			result:         TextResult{Intent: IntentTranslate, Notes: []string{HeuristicNote}},
			wantTTS:        "I heard: How do I say thank you in Chinese",
			wantIncomplete: true,
			wantLastNote:   IncompleteNote,
		},
		{
			name:           "blank target text",
			transcript:     "apple",
			result:         TextResult{Intent: IntentTranslate, TargetText: "  ", Romanization: "píngguǒ"},
			wantTTS:        "I heard: apple",
			wantIncomplete: true,
			wantLastNote:   IncompleteNote,
		},
		{
			name:       "unknown echoes transcript",
			transcript: "I like tea",
			result:     TextResult{Intent: IntentUnknown},
			wantTTS:    "I heard: I like tea",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shape(tt.transcript, tt.result)
			if got.TTSText != tt.wantTTS {
				t.Errorf("TTSText = %q, want %q", got.TTSText, tt.wantTTS)
			}
			if got.TargetText != tt.wantTarget {
				t.Errorf("TargetText = %q, want %q", got.TargetText, tt.wantTarget)
			}
			if got.Incomplete != tt.wantIncomplete {
				t.Errorf("Incomplete = %v", got.Incomplete)
			}
			if tt.wantIncomplete && got.Romanization != "" {
				t.Errorf("Romanization should be cleared, got %q", got.Romanization)
			}
			if tt.wantLastNote != "" && got.Notes[len(got.Notes)-1] != tt.wantLastNote {
				t.Errorf("notes = %v", got.Notes)
			}
		})
	}
}

func TestShapeDoesNotMutateInput(t *testing.T) {
	notes := make([]string, 1, 4)
	notes[0] = HeuristicNote
	r := TextResult{Intent: IntentTranslate, Notes: notes}
	_ = Shape("x", r)
	if len(r.Notes) != 1 || notes[:2][1] != "" {
		t.Fatal("Shape must copy notes")
	}
}
