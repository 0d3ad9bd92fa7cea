package domain

import "testing"

func TestNormalizeProductID(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "42", want: "42"},
		{in: " 42 ", want: "42"},
		{in: "007", want: "7"},
		{in: "0", want: "0"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "12a", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "3.5", wantErr: true},
	}
	for _, tc := range cases {
		got, err := NormalizeProductID(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NormalizeProductID(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeProductID(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeProductID(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}

func TestProductGraphIDRoundTrip(t *testing.T) {
	p := &Product{CatalogID: 17}
	if p.GraphID() != "17" {
		t.Fatalf("GraphID: want=%q got=%q", "17", p.GraphID())
	}
	n, err := ProductCatalogID(p.GraphID())
	if err != nil {
		t.Fatalf("ProductCatalogID: %v", err)
	}
	if n != 17 {
		t.Fatalf("ProductCatalogID: want=17 got=%d", n)
	}
}
