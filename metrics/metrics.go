// Package metrics wraps github.com/VictoriaMetrics/metrics -- the metrics
// dependency ValentinKolb/dKV's go.mod carries but never calls directly
// (it only arrives transitively there) -- to expose real counters for the
// kernel's entry points, giving that dependency the concrete caller the
// "wire it or delete it" rule requires.
package metrics

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

var (
	reads        = metrics.NewCounter("kv_reads_total")
	writes       = metrics.NewCounter("kv_writes_total")
	scans        = metrics.NewCounter("kv_scans_total")
	txnCommits   = metrics.NewCounter("kv_txn_commits_total")
	txnConflicts = metrics.NewCounter("kv_txn_conflicts_total")
)

// RecordRead increments the reads counter.
func RecordRead() { reads.Inc() }

// RecordWrite increments the writes counter.
func RecordWrite() { writes.Inc() }

// RecordScan increments the scans counter.
func RecordScan() { scans.Inc() }

// RecordCommit increments the successful-commit counter.
func RecordCommit() { txnCommits.Inc() }

// RecordConflict increments the commit-conflict counter.
func RecordConflict() { txnConflicts.Inc() }

// TrackYoungestSeq registers a gauge that calls youngestSeq on demand --
// youngest_seq is DB state, not a counter this package owns, so it is
// exposed as a callback gauge rather than a value we'd need to keep synced.
// youngestSeq takes a plain func instead of a *kvstore.DB so this package
// never imports kvstore -- kvstore.Txn.Commit imports metrics to record
// commits/conflicts, and Go doesn't allow the reverse import too.
func TrackYoungestSeq(youngestSeq func() uint64) {
	metrics.GetOrCreateGauge("kv_youngest_seq", func() float64 {
		return float64(youngestSeq())
	})
}

// WritePrometheus writes every registered metric in Prometheus exposition
// format, the handler cmd/kvctl's serve subcommand mounts at /metrics.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
}
