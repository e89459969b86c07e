package config

import "testing"

func TestParseBarePath(t *testing.T) {
	c, err := Parse("/var/lib/kv/db.snap")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Path != "/var/lib/kv/db.snap" {
		t.Fatalf("Path = %q, wanted the bare path", c.Path)
	}
}

func TestParseKeyValueBlob(t *testing.T) {
	c, err := Parse("path=/tmp/db.snap;verbose=true;testing=true")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Path != "/tmp/db.snap" || !c.Verbose || !c.IsTesting {
		t.Fatalf("Parse(key=value) = %+v, wanted path/verbose/testing all set", c)
	}
}

func TestParseJSON(t *testing.T) {
	c, err := Parse(`{"path": "/tmp/x.snap", "verbose": true}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Path != "/tmp/x.snap" || !c.Verbose {
		t.Fatalf("Parse(json) = %+v, wanted path/verbose set", c)
	}
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\"): %v", err)
	}
	if c != (Config{}) {
		t.Fatalf("Parse(\"\") = %+v, wanted zero value", c)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse("path=/tmp/x;garbage"); err == nil {
		t.Fatalf("Parse(malformed) = nil error, wanted BAD_ARG")
	}
}
