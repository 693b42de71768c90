package state

import "testing"

func TestParsePayload(t *testing.T) {
	cases := []struct {
		payload string
		op      string
		key     string
		ok      bool
	}{
		{"set:cart", "set", "cart", true},
		{"del:checkoutCompleted", "del", "checkoutCompleted", true},
		{"set:", "", "", false},
		{"cart", "", "", false},
		{"upsert:cart", "", "", false},
	}
	for _, tc := range cases {
		op, key, ok := parsePayload(tc.payload)
		if op != tc.op || key != tc.key || ok != tc.ok {
			t.Fatalf("%q: got (%q, %q, %v)", tc.payload, op, key, ok)
		}
	}
}
