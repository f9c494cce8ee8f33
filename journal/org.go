package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"
)

// FormatRecordOrg renders a Record as an Org-mode block. Structured facts
// go in a PROPERTIES drawer so they stay searchable.
func FormatRecordOrg(r Record) string {
	heading := fmt.Sprintf("** Calculation: %s (%s)", r.Kind, shortID(r.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", r.ID))
	b.WriteString(fmt.Sprintf(":KIND: %s\n", r.Kind))
	b.WriteString(fmt.Sprintf(":CREATED_AT: %s\n", r.CreatedAt.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":FOUND: %t\n", r.Found))

	keys := make([]string, 0, len(r.Inputs))
	for k := range r.Inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(":INPUT_%s: %s\n", strings.ToUpper(k), r.Inputs[k]))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")

	if r.Headline != "" {
		b.WriteString(r.Headline)
		b.WriteString("\n\n")
	}

	b.WriteString("#+begin_src json\n")
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, r.Result, "", "  "); err == nil {
		b.Write(pretty.Bytes())
	} else {
		b.WriteString(resultText(r.Result))
	}
	b.WriteString("\n#+end_src\n")

	return b.String()
}

// FormatRecordsOrg renders a summary heading followed by every record.
func FormatRecordsOrg(recs []Record, now time.Time) (string, error) {
	var b strings.Builder
	if err := summaryTmpl.Execute(&b, summarize(recs, now)); err != nil {
		return "", fmt.Errorf("render org summary: %w", err)
	}
	for _, r := range recs {
		b.WriteString("\n")
		b.WriteString(FormatRecordOrg(r))
	}
	return b.String(), nil
}

type kindCount struct {
	Kind  string
	Count int
}

type summary struct {
	Generated time.Time
	Count     int
	NotFound  int
	First     time.Time
	Last      time.Time
	Kinds     []kindCount
}

func summarize(recs []Record, now time.Time) summary {
	s := summary{Generated: now.UTC(), Count: len(recs)}
	counts := map[string]int{}
	for i, r := range recs {
		if !r.Found {
			s.NotFound++
		}
		counts[r.Kind]++
		if i == 0 || r.CreatedAt.Before(s.First) {
			s.First = r.CreatedAt
		}
		if r.CreatedAt.After(s.Last) {
			s.Last = r.CreatedAt
		}
	}
	for k, n := range counts {
		s.Kinds = append(s.Kinds, kindCount{Kind: k, Count: n})
	}
	sort.Slice(s.Kinds, func(i, k int) bool { return s.Kinds[i].Kind < s.Kinds[k].Kind })
	return s
}

var summaryTmpl = template.Must(template.New("summary").Parse(`* CALCULATIONS
:PROPERTIES:
:GENERATED:   [{{.Generated.Format "2006-01-02 Mon 15:04"}}]
:COUNT:       {{.Count}}
:NOT_FOUND:   {{.NotFound}}
{{- if .Count}}
:FIRST:       [{{.First.Format "2006-01-02 Mon 15:04"}}]
:LAST:        [{{.Last.Format "2006-01-02 Mon 15:04"}}]
{{- end}}
:END:
{{- if .Kinds}}

| Kind | Count |
|------+-------|
{{- range .Kinds}}
| {{.Kind}} | {{.Count}} |
{{- end}}
{{- end}}
`))

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
