package http

import (
	"testing"
)

func TestValidatorHex32(t *testing.T) {
	type subject struct {
		ID string `validate:"required,hex32"`
	}
	v := NewValidator()

	cases := []struct {
		id string
		ok bool
	}{
		{"0123456789abcdef0123456789abcdef", true},
		{"0123456789ABCDEF0123456789ABCDEF", false}, // uppercase
		{"0123456789abcdef0123456789abcde", false},  // 31 chars
		{"0123456789abcdef0123456789abcdefg", false},
		{"", false},
	}
	for _, tc := range cases {
		err := v.Validate(&subject{ID: tc.id})
		if tc.ok && err != nil {
			t.Errorf("id %q: unexpected error %v", tc.id, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("id %q: want validation failure", tc.id)
		}
	}
}

func TestToFieldErrors(t *testing.T) {
	type subject struct {
		Name string `validate:"required,max=5"`
		Term int    `validate:"min=1"`
	}
	v := NewValidator()

	err := v.Validate(&subject{Name: "toolongname", Term: 0})
	if err == nil {
		t.Fatal("want validation errors")
	}
	fields := ToFieldErrors(err)
	if len(fields) != 2 {
		t.Fatalf("got %d field errors, want 2: %+v", len(fields), fields)
	}
	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	if byField["Name"] != "must be at most 5" {
		t.Errorf("Name message = %q", byField["Name"])
	}
	if byField["Term"] != "must be at least 1" {
		t.Errorf("Term message = %q", byField["Term"])
	}
}
