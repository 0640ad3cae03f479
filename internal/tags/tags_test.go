package tags

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if len(c) < 2 {
		t.Fatalf("catalog too small: %v", c)
	}
	if c[len(c)-1] != Latest {
		t.Errorf("last tag = %q, want %q", c[len(c)-1], Latest)
	}
	if !c.Contains("ts2.8") {
		t.Error("expected catalog to contain ts2.8")
	}
	if c.Contains("bogus") {
		t.Error("catalog should not contain bogus")
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte("typescript_versions:\n  - \"4.0\"\n  - \"4.1\"\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := Catalog{"ts4.0", "ts4.1", "latest"}
	if len(c) != len(want) {
		t.Fatalf("catalog = %v, want %v", c, want)
	}
	for i := range want {
		if c[i] != want[i] {
			t.Errorf("c[%d] = %q, want %q", i, c[i], want[i])
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("typescript_versions: {{")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestPick(t *testing.T) {
	c := Catalog{"latest", "ts2.8"}
	dist := map[string]string{"latest": "1.0.0", "ts2.8": "0.9.0", "bogus": "x"}

	got := c.Pick(dist)
	want := Versions{{"latest", "1.0.0"}, {"ts2.8", "0.9.0"}}
	if len(got) != len(want) {
		t.Fatalf("Pick = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if _, ok := got.Get("bogus"); ok {
		t.Error("unrecognized tag should be dropped")
	}
}

func TestPick_NoMatches(t *testing.T) {
	got := Catalog{"latest"}.Pick(map[string]string{"next": "2.0.0-beta"})
	if len(got) != 0 {
		t.Errorf("expected no tags, got %v", got)
	}
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("empty versions marshal = %s, want {}", data)
	}
}

func TestUnknown(t *testing.T) {
	dist := map[string]string{"latest": "1", "next": "2", "beta": "3", "canary": "4", "rc": "5"}
	want := []string{"beta", "canary", "next", "rc"}
	for range 20 {
		got := Catalog{"latest"}.Unknown(dist)
		if !slices.Equal(got, want) {
			t.Fatalf("Unknown = %v, want %v", got, want)
		}
	}
}

func TestVersions_JSONKeepsOrder(t *testing.T) {
	vs := Versions{{"ts2.8", "0.9.0"}, {"latest", "1.0.0"}}
	data, err := json.Marshal(vs)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"ts2.8":"0.9.0","latest":"1.0.0"}` {
		t.Errorf("marshal = %s", data)
	}

	var back Versions
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 2 || back[0] != vs[0] || back[1] != vs[1] {
		t.Errorf("round trip = %v, want %v", back, vs)
	}
}

func TestVersions_UnmarshalRejectsNonObject(t *testing.T) {
	var vs Versions
	if err := json.Unmarshal([]byte(`["latest"]`), &vs); err == nil {
		t.Error("expected error for array input")
	}
	if err := json.Unmarshal([]byte(`{"latest": 1}`), &vs); err == nil {
		t.Error("expected error for non-string version")
	}
}
