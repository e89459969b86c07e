package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecordersDoNotPanic(t *testing.T) {
	RecordRead()
	RecordWrite()
	RecordScan()
	RecordCommit()
	RecordConflict()
}

func TestWritePrometheusContainsCounters(t *testing.T) {
	RecordRead()
	RecordWrite()
	RecordScan()

	var buf bytes.Buffer
	WritePrometheus(&buf)
	out := buf.String()

	for _, name := range []string{"kv_reads_total", "kv_writes_total", "kv_scans_total"} {
		if !strings.Contains(out, name) {
			t.Fatalf("WritePrometheus output missing %q:\n%s", name, out)
		}
	}
}

func TestTrackYoungestSeqGauge(t *testing.T) {
	TrackYoungestSeq(func() uint64 { return 42 })

	var buf bytes.Buffer
	WritePrometheus(&buf)
	if !strings.Contains(buf.String(), "kv_youngest_seq") {
		t.Fatalf("WritePrometheus output missing kv_youngest_seq gauge:\n%s", buf.String())
	}
}
