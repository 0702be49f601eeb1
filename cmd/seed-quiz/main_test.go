package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/doerhub/doerhub-backend/internal/scoring"
)

func TestLoadQuestions(t *testing.T) {
	input := `[
		{"prompt": "Can you reuse a client's essay?", "options": [{"id": 1, "label": "Yes"}, {"id": 2, "label": "No"}], "correct_option_ids": [2]},
		{"prompt": "Deadline missed?", "options": [{"id": 1, "label": "Tell the supervisor"}, {"id": 2, "label": "Stay quiet"}], "correct_option_ids": [1]}
	]`

	qs, err := loadQuestions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("loadQuestions: %v", err)
	}
	if len(qs) != 2 || qs[0].OrderNum != 1 || qs[1].OrderNum != 2 {
		t.Fatalf("unexpected questions %+v", qs)
	}
	if qs[0].ID == qs[1].ID {
		t.Fatal("question ids must be unique")
	}
}

func TestLoadQuestions_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty list", `[]`, nil},
		{"no prompt", `[{"prompt": " ", "options": [{"id":1,"label":"a"},{"id":2,"label":"b"}], "correct_option_ids": [1]}]`, nil},
		{"one option", `[{"prompt": "q", "options": [{"id":1,"label":"a"}], "correct_option_ids": [1]}]`, nil},
		{"duplicate option", `[{"prompt": "q", "options": [{"id":1,"label":"a"},{"id":1,"label":"b"}], "correct_option_ids": [1]}]`, nil},
		{"no correct option", `[{"prompt": "q", "options": [{"id":1,"label":"a"},{"id":2,"label":"b"}], "correct_option_ids": []}]`, scoring.ErrNoCorrectOptions},
		{"unknown correct option", `[{"prompt": "q", "options": [{"id":1,"label":"a"},{"id":2,"label":"b"}], "correct_option_ids": [3]}]`, scoring.ErrUnknownOption},
		{"unknown field", `[{"prompt": "q", "answer": 1}]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadQuestions(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
