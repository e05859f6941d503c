package raw

import "testing"

func TestGet_DefaultAndTrim(t *testing.T) {
	t.Setenv("RAWTEST_A", "  value  ")
	c := New().Prefix("RAWTEST_")
	if got := c.Get("A", "def"); got != "value" {
		t.Fatalf("Get trimmed = %q, want %q", got, "value")
	}
	if got := c.Get("MISSING", "def"); got != "def" {
		t.Fatalf("Get missing = %q, want default", got)
	}
}

func TestGetBool(t *testing.T) {
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"1", false, true},
		{"true", false, true},
		{"yes", false, true},
		{"TRUE", false, true},
		{"0", true, false},
		{"no", true, false},
		{"", true, true},
	}
	for _, c := range cases {
		t.Setenv("RAWTEST_B", c.val)
		if got := New().Prefix("RAWTEST_").GetBool("B", c.def); got != c.want {
			t.Fatalf("GetBool(%q, %v) = %v, want %v", c.val, c.def, got, c.want)
		}
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("RAWTEST_C", "42")
	c := New().Prefix("RAWTEST_")
	if got := c.GetInt("C", 7); got != 42 {
		t.Fatalf("GetInt = %d, want 42", got)
	}
	t.Setenv("RAWTEST_C", "nope")
	if got := c.GetInt("C", 7); got != 7 {
		t.Fatalf("GetInt invalid = %d, want default 7", got)
	}
	t.Setenv("RAWTEST_C", "")
	if got := c.GetInt("C", 7); got != 7 {
		t.Fatalf("GetInt empty = %d, want default 7", got)
	}
}
