package validation

import (
	"regexp"
	"strings"
	"testing"

	apperrors "github.com/kbukum/speechturn/errors"
)

type chatBody struct {
	Message string `json:"message" validate:"required,max=10"`
	Level   string `json:"level" validate:"omitempty,oneof=beginner intermediate"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name   string
		body   chatBody
		fields []string
	}{
		{"valid", chatBody{Message: "hi", Level: "beginner"}, nil},
		{"missing message", chatBody{}, []string{"message"}},
		{"too long and bad level", chatBody{Message: strings.Repeat("a", 11), Level: "expert"}, []string{"message", "level"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.body)
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != apperrors.ErrCodeInvalidInput || appErr.HTTPStatus != 400 {
				t.Fatalf("err = %v", err)
			}
			got := appErr.Details["fields"].([]FieldError)
			if len(got) != len(tt.fields) {
				t.Fatalf("fields = %+v", got)
			}
			for i, f := range tt.fields {
				if got[i].Field != f {
					t.Errorf("field[%d] = %s, want %s", i, got[i].Field, f)
				}
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	lang := regexp.MustCompile(`^[a-z]{2}$`)
	err := New().
		Required("audio", "").
		OneOf("voice", "robot", []string{"warm", "bright"}).
		Pattern("target_lang", "zh", lang).
		MaxLength("scenario", "短い", 5).
		Error()
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("err = %v", err)
	}
	if fields := appErr.Details["fields"].([]FieldError); len(fields) != 2 {
		t.Fatalf("fields = %+v", fields)
	}
	if !strings.Contains(appErr.Message, "voice must be one of: warm, bright") {
		t.Fatalf("message = %q", appErr.Message)
	}

	if err := New().OneOf("level", "", []string{"x"}).Error(); err != nil {
		t.Fatalf("empty optional value should pass: %v", err)
	}
}
