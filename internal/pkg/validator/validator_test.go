package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0190a6e2-1f4c-7cc3-98a4-df1c9285f4c1",
		"9b2d6a0e-4f1b-4c3d-8a4e-df1c9285f4c1",
	}
	invalid := []string{"", "not-a-uuid", "0190a6e21f4c7cc398a4df1c9285f4c1", "0190a6e2-1f4c-9cc3-98a4-df1c9285f4c1"}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"MONDAY", "TUESDAY"}
	if !IsInSlice("MONDAY", slice) {
		t.Error("IsInSlice(MONDAY) = false, want true")
	}
	if IsInSlice("FUNDAY", slice) {
		t.Error("IsInSlice(FUNDAY) = true, want false")
	}
}

func TestIsValidDeviceSerial(t *testing.T) {
	valid := []string{"ZK-4500_01", "SENSOR001"}
	invalid := []string{"ab", "has spaces", "bad!chars"}
	for _, s := range valid {
		if !IsValidDeviceSerial(s) {
			t.Errorf("IsValidDeviceSerial(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidDeviceSerial(s) {
			t.Errorf("IsValidDeviceSerial(%q) = true, want false", s)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "entrada", Message: "required"},
		{Field: "salida", Message: "bad format"},
	}
	m := errs.ToMap()
	if m["entrada"] != "required" || m["salida"] != "bad format" {
		t.Errorf("ToMap() = %v", m)
	}
	if errs.Error() != "entrada: required; salida: bad format" {
		t.Errorf("Error() = %q", errs.Error())
	}
}
