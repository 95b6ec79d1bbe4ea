package center_test

import (
	"testing"

	"fjorlistinn/internal/domain/center"
)

// TestCenter_Validate tests validation of Center.
func TestCenter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       center.Center
		wantErr bool
	}{
		{
			name:    "valid center",
			c:       center.Center{ID: "AKURFELO", Name: "Fjör Akur", Color: "#EAB308", Schools: []string{"Akurskóli"}},
			wantErr: false,
		},
		{
			name:    "empty id",
			c:       center.Center{Name: "Fjör Akur", Schools: []string{"Akurskóli"}},
			wantErr: true,
		},
		{
			name:    "empty name",
			c:       center.Center{ID: "AKURFELO", Schools: []string{"Akurskóli"}},
			wantErr: true,
		},
		{
			name:    "no schools",
			c:       center.Center{ID: "AKURFELO", Name: "Fjör Akur"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestCenter_ServesSchool tests school affiliation lookup.
func TestCenter_ServesSchool(t *testing.T) {
	c := center.Center{ID: "HAFNOFELO", Name: "Fjör Hafnó", Schools: []string{"Myllubakkaskóli", "Holtaskóli"}}
	if !c.ServesSchool("Holtaskóli") {
		t.Error("expected Holtaskóli to be served")
	}
	if c.ServesSchool("Stapaskóli") {
		t.Error("did not expect Stapaskóli to be served")
	}
}

// TestDefaults sanity-checks the seeded reference data.
func TestDefaults(t *testing.T) {
	defaults := center.Defaults()
	if len(defaults) != 4 {
		t.Fatalf("expected 4 default centers, got %d", len(defaults))
	}
	for _, c := range defaults {
		if err := c.Validate(); err != nil {
			t.Errorf("default center %s invalid: %v", c.ID, err)
		}
	}
}
