package eureka

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// String produces a summary of the run: task counts, new concepts,
// elapsed time.
func (r *RunResult) String() string {
	return fmt.Sprintf("%s tasks run, %s failed, %s new units in %s",
		humanize.Comma(int64(r.TasksRun)),
		humanize.Comma(int64(r.TasksFailed)),
		humanize.Comma(int64(len(r.NewUnits))),
		r.Elapsed.Round(time.Millisecond))
}

// SummarizeTasks renders the agenda's executed history as a table:
// one row per task with its target, priority, status, and what it
// produced.
func (e *Engine) SummarizeTasks() string {
	tw := table.NewWriter()
	tw.SetTitle("\nTASK HISTORY\n")
	tw.AppendHeader(table.Row{"Task", "Unit", "Slot", "Prio.", "Status", "New\nUnits", "Modi-\nfied", "Reasons"})

	for _, t := range e.agenda.History() {
		tw.AppendRow(table.Row{
			shortID(t.ID),
			t.Unit,
			t.Slot,
			t.Priority,
			string(t.Results.Status),
			len(t.Results.NewUnits),
			len(t.Results.ModifiedUnits),
			strings.Join(t.Reasons, "; "),
		})
	}
	return render(tw)
}

// SummarizeHeuristics renders every heuristic's worth, effective
// scheduling weight, and per-phase records. Useful for telling
// relevant-but-unproductive heuristics apart from rarely relevant
// ones.
func (e *Engine) SummarizeHeuristics() string {
	tw := table.NewWriter()
	tw.SetTitle("\nHEURISTIC RECORDS\n")
	header := table.Row{"Heuristic", "Worth", "Eff.\nWorth", "Overall"}
	for _, p := range AllPhases {
		header = append(header, phaseAbbrev(p))
	}
	tw.AppendHeader(header)

	for _, h := range e.Heuristics() {
		row := table.Row{
			h.Name(),
			h.Worth(),
			fmt.Sprintf("%.1f", h.EffectiveWorth()),
			recordString(h.OverallRecord()),
		}
		for _, p := range AllPhases {
			row = append(row, recordString(h.RecordFor(p)))
		}
		tw.AppendRow(row)
	}
	return render(tw)
}

func render(tw table.Writer) string {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

func recordString(r Record) string {
	if r.Attempts == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", r.Successes, r.Attempts)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// phaseAbbrev shortens a phase name for a table header.
func phaseAbbrev(p Phase) string {
	s := string(p)
	s = strings.TrimPrefix(s, "if_")
	s = strings.TrimPrefix(s, "then_")
	parts := strings.Split(s, "_")
	for i, part := range parts {
		if len(part) > 4 {
			parts[i] = part[:4] + "."
		}
	}
	return strings.Join(parts, "\n")
}
