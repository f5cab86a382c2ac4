package utils

import (
	"encoding/base64"
	"testing"

	"civic-report-service/apperrors"
)

func TestEncodeImageToBase64(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
		wantErr  bool
	}{
		{
			name:     "small payload",
			input:    []byte("fake-image-bytes"),
			expected: base64.StdEncoding.EncodeToString([]byte("fake-image-bytes")),
		},
		{
			name:    "empty payload",
			input:   []byte{},
			wantErr: true,
		},
		{
			name:    "nil payload",
			input:   nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeImageToBase64(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				if !apperrors.IsValidation(err) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestImageDataURL(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		mime     string
		expected string
	}{
		{
			name:     "png",
			data:     "AAAA",
			mime:     "image/png",
			expected: "data:image/png;base64,AAAA",
		},
		{
			name:     "empty mime defaults to jpeg",
			data:     "AAAA",
			mime:     "",
			expected: "data:image/jpeg;base64,AAAA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageDataURL(tt.data, tt.mime); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
