package utils

import "testing"

func TestGetEnvAsInt(t *testing.T) {
	cases := []struct {
		name string
		set  bool
		val  string
		want int
	}{
		{name: "unset_uses_default", set: false, want: 42},
		{name: "valid_int", set: true, val: "7", want: 7},
		{name: "garbage_uses_default", set: true, val: "seven", want: 42},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.set {
				t.Setenv("ITM_TEST_INT", tc.val)
			}
			got := GetEnvAsInt("ITM_TEST_INT", 42, nil)
			if got != tc.want {
				t.Fatalf("GetEnvAsInt=%d, want %d", got, tc.want)
			}
		})
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("ITM_TEST_BOOL", "true")
	if !GetEnvAsBool("ITM_TEST_BOOL", false, nil) {
		t.Fatal("expected true")
	}
	t.Setenv("ITM_TEST_BOOL", "not-a-bool")
	if GetEnvAsBool("ITM_TEST_BOOL", false, nil) {
		t.Fatal("expected default false on parse failure")
	}
}
