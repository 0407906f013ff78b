package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/highhandantidote/community/internal/utils"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{name: "not found", code: utils.ErrNotFound, expected: http.StatusNotFound},
		{name: "forbidden", code: utils.ErrForbidden, expected: http.StatusForbidden},
		{name: "invalid input", code: utils.ErrInvalidInput, expected: http.StatusBadRequest},
		{name: "conflict", code: utils.ErrConflict, expected: http.StatusConflict},
		{name: "database error", code: utils.ErrDatabase, expected: http.StatusInternalServerError},
		{name: "unknown code", code: "", expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := httpStatus(tt.code); got != tt.expected {
				t.Errorf("httpStatus(%q) = %d, want %d", tt.code, got, tt.expected)
			}
		})
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if code := utils.CodeOf(errors.New("boom")); code != "" {
		t.Errorf("CodeOf(plain error) = %q, want empty", code)
	}
}

func TestTargetRef(t *testing.T) {
	tests := []struct {
		name       string
		targetType string
		targetID   int64
		wantErr    bool
	}{
		{name: "post target", targetType: "post", targetID: 5},
		{name: "reply target", targetType: "reply", targetID: 9},
		{name: "unknown type", targetType: "comment", targetID: 5, wantErr: true},
		{name: "zero id", targetType: "post", targetID: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := targetRef(tt.targetType, tt.targetID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("targetRef() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if err := ref.Validate(); err != nil {
				t.Errorf("targetRef() produced invalid ref: %v", err)
			}
		})
	}
}
