package models

import "testing"

func TestLookupRegion(t *testing.T) {
	tests := []struct {
		in        string
		wantName  string
		wantParam string
		wantOK    bool
	}{
		{"", "All", "", true},
		{"All", "All", "", true},
		{"north", "North", "norte", true},
		{"Nordeste", "Northeast", "nordeste", true},
		{" centro-oeste ", "Central-West", "centro-oeste", true},
		{"SUL", "South", "sul", true},
		{"Mars", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := LookupRegion(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got.Name != tt.wantName || got.Param != tt.wantParam {
				t.Errorf("LookupRegion(%q) = %+v", tt.in, got)
			}
		})
	}
}

func TestRegions_OnlyAllIsUnrestricted(t *testing.T) {
	for _, r := range Regions {
		if (r.Param == "") != (r.Name == "All") {
			t.Errorf("region %q: param %q", r.Name, r.Param)
		}
	}
}

func TestFilter_AllPeriods(t *testing.T) {
	if !(Filter{}).AllPeriods() {
		t.Error("zero year must mean all periods")
	}
	if (Filter{Year: 2021}).AllPeriods() {
		t.Error("a set year must restrict the period")
	}
}
