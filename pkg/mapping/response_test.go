package mapping

import "testing"

func TestIsReservedResponseHeader(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Content-Length", true},
		{"content-length", true},
		{"Transfer-Encoding", true},
		{"Connection", true},
		{"X-Custom", false},
		{"Content-Type", false},
	}
	for _, c := range cases {
		if got := IsReservedResponseHeader(c.name); got != c.want {
			t.Errorf("IsReservedResponseHeader(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestFilterReservedHeaders_PreservesOrderOfSurvivors(t *testing.T) {
	in := []KV{
		{Key: "X-One", Value: "1"},
		{Key: "Content-Length", Value: "100"},
		{Key: "X-Two", Value: "2"},
		{Key: "Connection", Value: "close"},
	}
	out := FilterReservedHeaders(in)
	if len(out) != 2 || out[0].Key != "X-One" || out[1].Key != "X-Two" {
		t.Fatalf("FilterReservedHeaders = %+v", out)
	}
}

func TestNewResponseMessage_DefaultsTo200(t *testing.T) {
	resp := NewResponseMessage()
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.BodyKind != BodyNone {
		t.Errorf("BodyKind = %v, want BodyNone", resp.BodyKind)
	}
}
