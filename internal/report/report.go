package report

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"text/template"
	"time"

	"gsearch/internal/storage"
)

// Summary contains aggregated metrics about a search session's stored
// results.
type Summary struct {
	TotalResults   int
	WithPageText   int
	TotalTextBytes int64
	Queries        map[string]int
	Hosts          map[string]int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// GenerateSummary processes a slice of stored search results into summary
// metrics.
func GenerateSummary(records []*storage.Record) Summary {
	s := Summary{
		Queries: make(map[string]int),
		Hosts:   make(map[string]int),
	}

	if len(records) == 0 {
		return s
	}

	s.StartTime = records[0].CreatedAt
	s.EndTime = records[0].CreatedAt

	for _, r := range records {
		s.TotalResults++
		s.Queries[r.Query]++
		s.Hosts[hostOf(r.Href)]++

		if r.PageText != "" {
			s.WithPageText++
			s.TotalTextBytes += int64(len(r.PageText))
		}

		if r.CreatedAt.Before(s.StartTime) {
			s.StartTime = r.CreatedAt
		}
		if r.CreatedAt.After(s.EndTime) {
			s.EndTime = r.CreatedAt
		}
	}

	s.Duration = s.EndTime.Sub(s.StartTime)
	return s
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Hostname()
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	const textTmpl = `Search Session Summary
----------------------
Time:           {{.StartTime.Format "2006-01-02 15:04:05"}} - {{.EndTime.Format "2006-01-02 15:04:05"}}
Duration:       {{.Duration}}
Total Results:  {{.TotalResults}}
With Page Text: {{.WithPageText}} ({{.TotalTextBytes}} bytes)

Queries:
{{- range $q, $count := .Queries}}
  {{$q}}: {{$count}}
{{- else}}
  None
{{- end}}

Result Hosts:
{{- range $host, $count := .Hosts}}
  {{$host}}: {{$count}}
{{- else}}
  None
{{- end}}
`

	t, err := template.New("textReport").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	return nil
}
