package validation

import (
	"strings"
	"testing"
)

func TestValidateContextPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
		errMsg  string
	}{
		// Valid cases
		{"plain file", "Dockerfile", "Dockerfile", false, ""},
		{"nested", "build/Dockerfile.prod", "build/Dockerfile.prod", false, ""},
		{"cleaned", "./build/../Dockerfile", "Dockerfile", false, ""},
		{"dots in name", "..Dockerfile", "..Dockerfile", false, ""},

		// Invalid cases
		{"empty", "", "", true, "cannot be empty"},
		{"absolute", "/etc/Dockerfile", "", true, "absolute paths not allowed"},
		{"parent", "..", "", true, "escapes the build context"},
		{"escapes", "../other/Dockerfile", "", true, "escapes the build context"},
		{"escapes after clean", "build/../../Dockerfile", "", true, "escapes the build context"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateContextPath(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateContextPath(%q) expected error", tt.input)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateContextPath(%q) error = %v, want containing %q", tt.input, err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateContextPath(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateContextPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateImageTag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{"name and tag", "simple-api:latest", false, ""},
		{"implicit latest", "simple-api", false, ""},
		{"registry and nested", "registry.example.com:5000/team/simple-api:1.2.3", false, ""},

		{"empty", "", true, "cannot be empty"},
		{"uppercase repository", "Simple-API:latest", true, "invalid image tag"},
		{"digest", "simple-api@sha256:3f3a6b5d4c8e1f2a9b0c7d6e5f4a3b2c1d0e9f8a7b6c5d4e3f2a1b0c9d8e7f6a", true, "digests cannot"},
		{"bad tag characters", "simple-api:v1!", true, "invalid image tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageTag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateImageTag(%q) expected error", tt.input)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateImageTag(%q) error = %v, want containing %q", tt.input, err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateImageTag(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}
