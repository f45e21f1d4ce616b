package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

type record struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestJSON(t *testing.T) {
	records := []record{{ID: "1", Status: "PAID"}, {ID: "2", Status: "PENDING"}}
	doc := NewDocument("estatectl", "bookings", &Filter{Selected: map[string]string{"status": "PAID"}}, records)

	var buf bytes.Buffer
	if err := JSON(&buf, doc); err != nil {
		t.Fatalf("JSON() failed: %v", err)
	}

	var decoded Document[record]
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if decoded.Version != Version {
		t.Errorf("expected version %s, got %s", Version, decoded.Version)
	}
	if decoded.Resource != "bookings" || decoded.Source != "estatectl" {
		t.Errorf("unexpected resource/source: %s/%s", decoded.Resource, decoded.Source)
	}
	if decoded.Count != 2 || len(decoded.Records) != 2 {
		t.Errorf("expected 2 records, got count=%d len=%d", decoded.Count, len(decoded.Records))
	}
	if decoded.Filter == nil || decoded.Filter.Selected["status"] != "PAID" {
		t.Errorf("expected status filter to be recorded, got %+v", decoded.Filter)
	}
	if time.Since(decoded.ExportedAt) > time.Minute {
		t.Errorf("expected recent export time, got %v", decoded.ExportedAt)
	}
}

func TestNewDocument_EmptyInputs(t *testing.T) {
	doc := NewDocument[record]("estatectl", "contacts", &Filter{}, nil)

	if doc.Filter != nil {
		t.Errorf("expected empty filter to be omitted, got %+v", doc.Filter)
	}

	var buf bytes.Buffer
	if err := JSON(&buf, doc); err != nil {
		t.Fatalf("JSON() failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"records": []`)) {
		t.Errorf("expected empty records array, got %s", buf.String())
	}
}
