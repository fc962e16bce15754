package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"github.com/manx98/helperkit/issuemgr"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	*jsonOutput = false
	var out bytes.Buffer
	appCmd.SetOut(&out)
	appCmd.SetErr(&out)
	appCmd.SetIn(strings.NewReader(stdin))
	appCmd.SetArgs(args)
	err := appCmd.Execute()
	return out.String(), err
}

func TestUUIDCommand(t *testing.T) {
	out, err := run(t, "", "uuid", "-n", "3")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Fields(out)
	if len(lines) != 3 {
		t.Fatalf("got %d uuids, want 3: %q", len(lines), out)
	}
	pattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	for _, line := range lines {
		if !pattern.MatchString(line) {
			t.Errorf("bad uuid %q", line)
		}
	}
}

func TestCodeCommand(t *testing.T) {
	out, err := run(t, "", "code", "-l", "4")
	if err != nil {
		t.Fatal(err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		t.Fatal(err)
	}
	if v < 1000 || v > 9999 {
		t.Errorf("code %d does not have 4 digits", v)
	}
}

func TestPasswordCommand(t *testing.T) {
	out, err := run(t, "", "password", "-l", "16")
	if err != nil {
		t.Fatal(err)
	}
	if pwd := strings.TrimSpace(out); len(pwd) != 16 {
		t.Errorf("password %q is not 16 characters", pwd)
	}
	if _, err = run(t, "", "password", "-l", "0"); err == nil {
		t.Error("password of length 0 did not fail")
	}
}

func TestSniffCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{"strict string", `s:5:"hello";`, []string{"sniff"}, "true"},
		{"strict trailing", "i:42;garbage", []string{"sniff"}, "false"},
		{"loose trailing", "i:42;garbage", []string{"sniff", "--strict=false"}, "true"},
		{"plain", "hello", []string{"sniff", "-"}, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*sniffStrict = true
			out, err := run(t, tt.input, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("sniff %q = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestSniffAndGzipFile(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, _ = w.Write([]byte(`a:1:{i:0;s:1:"a";}`))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(t.TempDir(), "payload.gz")
	if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	*sniffStrict = true
	out, err := run(t, "", "sniff", file)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "true" {
		t.Errorf("sniff gzip file = %q, want true", out)
	}
	*gzipDecompress = false
	if out, err = run(t, "", "gzip", file); err != nil || strings.TrimSpace(out) != "true" {
		t.Errorf("gzip file = %q, %v", out, err)
	}
	out, err = run(t, "", "gzip", "-d", file)
	*gzipDecompress = false
	if err != nil {
		t.Fatal(err)
	}
	if out != `a:1:{i:0;s:1:"a";}` {
		t.Errorf("gzip -d = %q", out)
	}
	if out, err = run(t, "plain", "gzip"); err != nil || strings.TrimSpace(out) != "false" {
		t.Errorf("gzip plain = %q, %v", out, err)
	}
}

func TestIssueLookupList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")
	*issueLength = 0
	out, err := run(t, "", "--db", db, "issue", "id", "-c", "me", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var record issuemgr.Record
	if err = jsoniter.UnmarshalFromString(out, &record); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(record.Value) != 6 || record.CreatorName != "me" || record.Seq != 1 {
		t.Fatalf("unexpected record %+v", record)
	}
	out, err = run(t, "", "--db", db, "lookup", "id", record.Value)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, record.Value) {
		t.Errorf("lookup output %q misses %s", out, record.Value)
	}
	if _, err = run(t, "", "--db", db, "lookup", "id", "000"); err == nil {
		t.Error("lookup of unknown value did not fail")
	}
	out, err = run(t, "", "--db", db, "list", "id")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("list printed %d lines, want 1: %q", got, out)
	}
	if _, err = run(t, "", "--db", db, "issue", "password"); err == nil {
		t.Error("issue of unknown kind did not fail")
	}
}
