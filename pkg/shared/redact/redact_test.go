package redact

import (
	"encoding/json"
	"testing"
)

func TestHeaders(t *testing.T) {
	in := map[string]string{
		"Authorization":       "Bearer abc",
		"Proxy-Authorization": "Basic xyz",
		"Cookie":              "sid=1",
		"X-Api-Key":           "k",
		"X-Session-Id":        "s",
		"Content-Type":        "application/json",
	}
	out := Headers(in)
	for _, k := range []string{"Authorization", "Proxy-Authorization", "Cookie", "X-Api-Key", "X-Session-Id"} {
		if out[k] != "***" {
			t.Fatalf("header %s leaked: %+v", k, out)
		}
	}
	if out["Content-Type"] != "application/json" {
		t.Fatalf("plain headers must pass through: %+v", out)
	}
	if in["Authorization"] != "Bearer abc" {
		t.Fatalf("input map mutated")
	}
}

func TestJSON(t *testing.T) {
	out := JSON(`{"access_token":"abc","user":{"session":"s1","name":"jo"},"items":[{"refresh_token":"r"}]}`)
	var v map[string]any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output not JSON: %v", err)
	}
	if v["access_token"] != "***" {
		t.Fatalf("top level leaked: %s", out)
	}
	if v["user"].(map[string]any)["session"] != "***" {
		t.Fatalf("nested leaked: %s", out)
	}
	if v["user"].(map[string]any)["name"] != "jo" {
		t.Fatalf("plain field masked: %s", out)
	}
	if v["items"].([]any)[0].(map[string]any)["refresh_token"] != "***" {
		t.Fatalf("array element leaked: %s", out)
	}
}

func TestJSONPassThrough(t *testing.T) {
	for _, s := range []string{"not json", "<html>", ""} {
		if got := JSON(s); got != s {
			t.Fatalf("non-JSON input must pass through: %q -> %q", s, got)
		}
	}
}
