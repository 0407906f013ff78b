package posts

import (
	"strings"
	"testing"
)

func TestCreateInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateInput
		wantErr bool
	}{
		{
			name:  "valid input",
			input: CreateInput{Title: "Healing after rhinoplasty", Body: "Week 3 update"},
		},
		{
			name:    "empty title",
			input:   CreateInput{Body: "no title"},
			wantErr: true,
		},
		{
			name:    "whitespace title",
			input:   CreateInput{Title: "   "},
			wantErr: true,
		},
		{
			name:    "title too long",
			input:   CreateInput{Title: strings.Repeat("x", 256)},
			wantErr: true,
		},
		{
			name:  "title at limit",
			input: CreateInput{Title: strings.Repeat("x", 255)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
