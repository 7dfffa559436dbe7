package outfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("json parse: %v (output: %q)", err, buf.String())
	}

	return m
}

func TestWriteSuccess(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, Success(map[string]string{"version": "dev"})); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m := decode(t, &buf)
	if m["status"] != "success" {
		t.Fatalf("status = %v", m["status"])
	}
	if _, ok := m["error"]; ok {
		t.Fatalf("success envelope must not carry an error field: %v", m)
	}

	data, ok := m["data"].(map[string]any)
	if !ok || data["version"] != "dev" {
		t.Fatalf("unexpected data: %v", m["data"])
	}
}

func TestWriteAuthRequired(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, AuthRequired("ABC-123", "https://microsoft.com/devicelogin")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m := decode(t, &buf)
	if m["status"] != "auth_required" {
		t.Fatalf("status = %v", m["status"])
	}
	if m["userCode"] != "ABC-123" {
		t.Fatalf("userCode = %v", m["userCode"])
	}
	if m["verificationUri"] != "https://microsoft.com/devicelogin" {
		t.Fatalf("verificationUri = %v", m["verificationUri"])
	}
	if _, ok := m["data"]; ok {
		t.Fatalf("auth_required envelope must not carry data: %v", m)
	}
}

func TestWriteAuthPending(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, AuthPending()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m := decode(t, &buf)
	if m["status"] != "auth_pending" {
		t.Fatalf("status = %v", m["status"])
	}
	if len(m) != 1 {
		t.Fatalf("auth_pending envelope should be status-only: %v", m)
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, Errorf("invalid date expression: %q", "yolo")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m := decode(t, &buf)
	if m["status"] != "error" {
		t.Fatalf("status = %v", m["status"])
	}
	if !strings.Contains(m["error"].(string), "yolo") {
		t.Fatalf("error = %v", m["error"])
	}
}

func TestWriteDoesNotEscapeHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, AuthRequired("X", "https://example.com/a?b=1&c=2")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if strings.Contains(buf.String(), `&`) {
		t.Fatalf("ampersand was escaped: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "b=1&c=2") {
		t.Fatalf("verification uri mangled: %q", buf.String())
	}
}

func TestWriteSingleObject(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, Success([]string{})); err != nil {
		t.Fatalf("Write: %v", err)
	}

	dec := json.NewDecoder(strings.NewReader(buf.String()))

	var first any
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("first object: %v", err)
	}
	if dec.More() {
		t.Fatalf("expected exactly one JSON value, got more: %q", buf.String())
	}
}
