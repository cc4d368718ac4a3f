package model

import "testing"

func TestValidCustomerID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid", "cst_0f8fad5b-d9cb-469f-a165-70867728950e", true},
		{"empty", "", false},
		{"missing prefix", "0f8fad5b-d9cb-469f-a165-70867728950e", false},
		{"uppercase prefix", "CST_0f8fad5b-d9cb-469f-a165-70867728950e", false},
		{"uppercase uuid", "cst_0F8FAD5B-D9CB-469F-A165-70867728950E", false},
		{"not a uuid", "cst_hello-world", false},
		{"objectid hex", "665d2c3e8f1b2a0001a1b2c3", false},
		{"trailing garbage", "cst_0f8fad5b-d9cb-469f-a165-70867728950e ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCustomerID(tt.id); got != tt.want {
				t.Errorf("ValidCustomerID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
