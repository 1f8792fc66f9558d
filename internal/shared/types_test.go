package shared

import (
	"strings"
	"testing"
)

func TestJSONMap_Value(t *testing.T) {
	tests := []struct {
		name     string
		m        JSONMap
		expected string
	}{
		{
			name:     "empty map",
			m:        JSONMap{},
			expected: "{}",
		},
		{
			name:     "nil map",
			m:        nil,
			expected: "{}",
		},
		{
			name:     "single key",
			m:        JSONMap{"sub": "12345"},
			expected: `{"sub":"12345"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.m.Value()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			str, ok := result.([]byte)
			if !ok {
				s, ok := result.(string)
				if !ok {
					t.Fatalf("expected string or []byte, got %T", result)
				}
				str = []byte(s)
			}
			if string(str) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, string(str))
			}
		})
	}
}

func TestJSONMap_Scan(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantKey string
		wantVal any
		wantNil bool
		wantErr bool
	}{
		{
			name:    "nil value",
			input:   nil,
			wantNil: true,
		},
		{
			name:    "byte slice",
			input:   []byte(`{"user_name":"octocat"}`),
			wantKey: "user_name",
			wantVal: "octocat",
		},
		{
			name:    "string",
			input:   `{"followers":42}`,
			wantKey: "followers",
			wantVal: float64(42),
		},
		{
			name:    "unsupported type",
			input:   12345,
			wantErr: true,
		},
		{
			name:    "malformed json",
			input:   `{"broken`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m JSONMap
			err := m.Scan(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if m != nil {
					t.Errorf("expected nil map, got %v", m)
				}
				return
			}
			if m[tt.wantKey] != tt.wantVal {
				t.Errorf("expected %s=%v, got %v", tt.wantKey, tt.wantVal, m[tt.wantKey])
			}
		})
	}
}

func TestNewID(t *testing.T) {
	id := NewID("usr_")
	if !strings.HasPrefix(id, "usr_") {
		t.Errorf("expected prefix 'usr_', got '%s'", id)
	}
	if len(id) != len("usr_")+32 {
		t.Errorf("expected 32 hex chars after prefix, got %d", len(id)-len("usr_"))
	}

	other := NewID("usr_")
	if id == other {
		t.Error("two generated IDs should not collide")
	}
}
