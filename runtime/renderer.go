package runtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/visionrun/workflow/types"
	"github.com/visionrun/workflow/utils"
)

func renderDOT(name string, snap *graphSnapshot, order [][]string, records map[string]*types.StepTraceRecord) (string, error) {
	renderer := newWaveRenderer()
	return renderer.generateDOT(name, snap, order, records)
}

func newWaveRenderer() *waveRenderer {
	return &waveRenderer{nil, &strings.Builder{}}
}

type waveRenderer struct {
	records map[string]*types.StepTraceRecord
	sb      *strings.Builder
}

func (d *waveRenderer) setRecords(records map[string]*types.StepTraceRecord) {
	if records == nil {
		records = make(map[string]*types.StepTraceRecord)
	}
	d.records = records
}

func (d *waveRenderer) generateDOT(name string, snap *graphSnapshot, order [][]string, records map[string]*types.StepTraceRecord) (string, error) {
	d.setRecords(records)

	d.write("digraph D {")
	d.write("rankdir=TB")
	for waveIndex, wave := range order {
		d.write("subgraph cluster_wave_%d {", waveIndex)
		d.write("style=filled")
		d.write("color=lightgrey")
		d.write("rank=same")
		for _, step := range wave {
			d.drawStep(step, snap.executionBranches(step))
		}
		d.write("label=%s", quoteString(fmt.Sprintf("wave %d", waveIndex)))
		d.write("}")
	}
	for _, node := range utils.SortedKeys(snap.category) {
		if !snap.isStep(node) {
			d.drawData(node)
		}
	}
	d.drawEdges(snap)
	d.write("label=%s", quoteString(name))
	d.write("}")
	return d.sb.String(), nil
}

func packToComment(r *types.StepTraceRecord) string {
	s, _ := json.Marshal(r)
	return formatNL(addSlashes(string(s)))
}

func (d *waveRenderer) calcAttr(step string) string {
	record, exists := d.records[step]
	if !exists {
		return ""
	}

	color := ""
	switch {
	case record.StartTime.IsZero():
		color = "white"
	case record.EndTime.IsZero():
		color = "yellow"
	case record.Error != "":
		color = "red"
	default:
		color = "green"
	}
	return fmt.Sprintf(" style=\"filled\" color=\"%s\" comment=\"%s\"", color, packToComment(record))
}

func (d *waveRenderer) drawStep(step string, branches []string) {
	label := step
	if len(branches) > 0 {
		label = fmt.Sprintf("%s\\n[%s]", step, strings.Join(branches, ","))
	}
	d.write("%s [label=%s shape=\"record\"%s]", idString(step), quoteString(label), d.calcAttr(step))
}

func (d *waveRenderer) drawData(node string) {
	d.write("%s [label=%s shape=\"ellipse\"]", idString(node), quoteString(node))
}

func (d *waveRenderer) drawEdges(snap *graphSnapshot) {
	for _, from := range utils.SortedKeys(snap.succ) {
		for _, to := range snap.successors(from) {
			d.write("%s -> %s", idString(from), idString(to))
		}
	}
}

func (d *waveRenderer) write(format string, s ...any) {
	d.sb.WriteString(fmt.Sprintf(format+"\n", s...))
}

var (
	slashesToken = []string{"\\", "\"", "'", " "}
)

func addSlashes(s string) string {
	for _, token := range slashesToken {
		s = strings.ReplaceAll(s, token, "\\"+token)
	}
	return s
}

func formatNL(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func quoteString(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

var idleChars = []string{" ", "'", "\"", "(", ")", "*", "&", "^", "%", "$", "#", "@", "!", "?", "<", ">", "[", "]", "{", "}", "."}

func idString(s string) string {
	for _, ch := range idleChars {
		s = strings.ReplaceAll(s, ch, "_")
	}
	return s
}
