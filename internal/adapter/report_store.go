package adapter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	m "faultline.dev/pkg/faultline/internal/model"
	"faultline.dev/pkg/faultline/pkg"
)

// Report file names under a run's output directory.
const (
	ResultsFile  = "results.csv"
	SummaryFile  = "summary.html"
	JournalFile  = "trials.msgpack"
	ManifestFile = "run.msgpack"
	MetricsFile  = "metrics.prom"
)

// previewLimit caps the base64 preview shown in the summary.
const previewLimit = 120

// ErrMalformedResults is returned when results.csv cannot be parsed back.
var ErrMalformedResults = errors.New("malformed results table")

// ReportStore persists and loads the reports of a run.
type ReportStore interface {
	SaveResults(dir m.Path, records []m.TrialRecord) error
	LoadRecords(dir m.Path) ([]m.TrialRecord, error)
	SaveSummary(dir m.Path, manifest m.RunManifest, summary m.Summary) error
	SaveJournal(dir m.Path, records []m.TrialRecord) error
	SaveManifest(dir m.Path, manifest m.RunManifest) error
	LoadJournal(dir m.Path) (m.RunManifest, []m.TrialRecord, error)
	SaveMetrics(dir m.Path, records []m.TrialRecord) error
}

type reportStore struct{}

// NewReportStore creates a ReportStore writing to the local filesystem.
func NewReportStore() ReportStore {
	return &reportStore{}
}

// SaveResults writes results.csv; the header row is always present.
func (s *reportStore) SaveResults(dir m.Path, records []m.TrialRecord) error {
	path := filepath.Join(string(dir), ResultsFile)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("Failed to close results file", "path", path, "error", err)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(m.RecordHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, record := range records {
		if err := writer.Write(record.Row()); err != nil {
			return fmt.Errorf("write row for seed %d: %w", record.Seed, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	slog.Debug("Saved results", "path", path, "rows", len(records))

	return nil
}

// LoadRecords reads results.csv back; Index is the row position.
func (s *reportStore) LoadRecords(dir m.Path) ([]m.TrialRecord, error) {
	path := filepath.Join(string(dir), ResultsFile)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(m.RecordHeader)

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("%w: missing header: %w", ErrMalformedResults, err)
	}

	records := []m.TrialRecord{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResults, err)
		}

		seed, err := strconv.ParseUint(row[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d seed %q: %w", ErrMalformedResults, len(records)+1, row[0], err)
		}

		records = append(records, m.TrialRecord{
			Index:      len(records),
			Seed:       uint32(seed),
			Spec:       row[1],
			Kind:       row[2],
			Outcome:    row[3],
			Output:     row[4],
			Baseline:   row[5],
			Exception:  row[6],
			MutatedB64: row[7],
		})
	}

	return records, nil
}

type summaryView struct {
	Manifest m.RunManifest
	Specs    []m.SpecSummary
	Totals   m.SpecSummary
}

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"preview": previewB64,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Fault injection summary</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
code { word-break: break-all; }
</style>
</head>
<body>
<h1>Fault injection summary</h1>
<p>Run {{.Manifest.RunID}} against {{.Manifest.Target}}, master seed {{.Manifest.MasterSeed}}, {{.Manifest.TrialsPerSpec}} trials per spec.</p>
<table>
<tr><th>Spec</th><th>Kind</th><th>Total</th><th>Pass</th><th>Incorrect</th><th>Exception</th></tr>
{{- range .Specs}}
<tr><td>{{.Name}}</td><td>{{.Kind}}</td><td>{{.Total}}</td><td>{{.Pass}}</td><td>{{.Incorrect}}</td><td>{{.Exception}}</td></tr>
{{- end}}
<tr><th>Total</th><th></th><th>{{.Totals.Total}}</th><th>{{.Totals.Pass}}</th><th>{{.Totals.Incorrect}}</th><th>{{.Totals.Exception}}</th></tr>
</table>
{{- range .Specs}}
{{- if .Examples}}
<h2>{{.Name}}</h2>
<ul>
{{- range .Examples}}
<li>seed {{.Seed}}: {{.Outcome}}{{if .Exception}} ({{.Exception}}){{end}}{{if .InputB64}} <code>{{preview .InputB64}}</code>{{end}}</li>
{{- end}}
</ul>
{{- end}}
{{- end}}
</body>
</html>
`))

func previewB64(encoded string) string {
	if len(encoded) <= previewLimit {
		return encoded
	}

	return encoded[:previewLimit] + "..."
}

// SaveSummary renders summary.html; every string is HTML-escaped by the template.
func (s *reportStore) SaveSummary(dir m.Path, manifest m.RunManifest, summary m.Summary) error {
	path := filepath.Join(string(dir), SummaryFile)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("Failed to close summary file", "path", path, "error", err)
		}
	}()

	view := summaryView{
		Manifest: manifest,
		Specs:    summary.Specs,
		Totals:   summary.Totals(),
	}

	if err := summaryTemplate.Execute(file, view); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	return nil
}

// SaveJournal writes every record to trials.msgpack.
func (s *reportStore) SaveJournal(dir m.Path, records []m.TrialRecord) error {
	spill, err := pkg.CreateFileSpill[m.TrialRecord](filepath.Join(string(dir), JournalFile))
	if err != nil {
		return err
	}

	if err := spill.AppendBatch(records); err != nil {
		_ = spill.Close()
		return fmt.Errorf("append journal: %w", err)
	}

	return spill.Close()
}

// SaveManifest writes run.msgpack through a temp file and rename.
func (s *reportStore) SaveManifest(dir m.Path, manifest m.RunManifest) error {
	data, err := msgpack.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	path := filepath.Join(string(dir), ManifestFile)

	tmp, err := os.CreateTemp(string(dir), ManifestFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("write manifest: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close manifest: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename manifest: %w", err)
	}

	return nil
}

// LoadJournal reads run.msgpack and trials.msgpack back.
func (s *reportStore) LoadJournal(dir m.Path) (m.RunManifest, []m.TrialRecord, error) {
	var manifest m.RunManifest

	manifestPath := filepath.Join(string(dir), ManifestFile)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return manifest, nil, fmt.Errorf("read %s: %w", manifestPath, err)
	}

	if err := msgpack.Unmarshal(data, &manifest); err != nil {
		return manifest, nil, fmt.Errorf("decode %s: %w", manifestPath, err)
	}

	spill, err := pkg.OpenFileSpill[m.TrialRecord](filepath.Join(string(dir), JournalFile))
	if err != nil {
		return manifest, nil, err
	}

	records := make([]m.TrialRecord, 0, spill.Len())

	err = spill.Range(func(_ uint64, record m.TrialRecord) error {
		records = append(records, record)
		return nil
	})
	if err != nil {
		return manifest, nil, fmt.Errorf("read journal: %w", err)
	}

	return manifest, records, nil
}
