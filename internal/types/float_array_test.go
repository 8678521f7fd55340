package types

import "testing"

func TestParseFloatArray(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []float64
		wantErr bool
	}{
		{name: "pg_literal", in: "{1.5,2,-3.25}", want: []float64{1.5, 2, -3.25}},
		{name: "json_array", in: "[0.1,0.2]", want: []float64{0.1, 0.2}},
		{name: "empty_braces", in: "{}", want: []float64{}},
		{name: "blank", in: "", want: nil},
		{name: "null_element", in: "{1,NULL,3}", want: []float64{1, 0, 3}},
		{name: "garbage", in: "{a,b}", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFloatArray(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseFloatArray(%q): expected error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFloatArray(%q): %v", tc.in, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("len=%d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got[%d]=%v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestFloatArrayRoundTrip(t *testing.T) {
	in := FloatArray{1, 2.5, 3}
	v, err := in.Value()
	if err != nil {
		t.Fatal(err)
	}
	var out FloatArray
	if err := out.Scan(v); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[1] != 2.5 {
		t.Fatalf("round trip mismatch: %v", out)
	}
}
