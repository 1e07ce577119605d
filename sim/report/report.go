// Package report writes simulation histories in formats consumed by plotting
// and analysis tools: one CSV row per day, or a single JSON document.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/inference-sim/compartment-sim/sim"
)

// Columns returns the CSV header: day, one column per compartment, total.
func Columns() []string {
	cols := make([]string, 0, sim.NumCompartments+2)
	cols = append(cols, "day")
	for _, c := range sim.AllCompartments() {
		cols = append(cols, c.String())
	}
	return append(cols, "total")
}

// WriteCSV writes the simulator's history, one row per recorded day.
func WriteCSV(w io.Writer, s *sim.Simulator) error {
	return WriteHistoryCSV(w, s.History().All())
}

// WriteHistoryCSV writes any (day, population) sequence in the CSV layout of
// WriteCSV. Values use the shortest representation that round-trips.
func WriteHistoryCSV(w io.Writer, days iter.Seq2[int, sim.Population]) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	row := make([]string, sim.NumCompartments+2)
	for day, p := range days {
		row[0] = strconv.Itoa(day)
		for c, v := range p {
			row[c+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		row[len(row)-1] = strconv.FormatFloat(p.Total(), 'f', -1, 64)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for day %d: %w", day, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV parses a history written by WriteCSV. Rows must be in day order
// starting at 0; the total column is ignored.
func ReadCSV(r io.Reader) ([]sim.Population, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = sim.NumCompartments + 2

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	var days []sim.Population
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		day, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("parsing day %q: %w", row[0], err)
		}
		if day != len(days) {
			return nil, fmt.Errorf("row for day %d out of order, expected day %d", day, len(days))
		}
		var p sim.Population
		for c := range p {
			v, err := strconv.ParseFloat(row[c+1], 64)
			if err != nil {
				return nil, fmt.Errorf("day %d %s: %w", day, sim.Compartment(c), err)
			}
			p[c] = v
		}
		days = append(days, p)
	}
	return days, nil
}

// Document is the JSON form of a finished run.
type Document struct {
	Label         string               `json:"label"`
	HaltReason    sim.HaltReason       `json:"halt_reason"`
	Horizon       int                  `json:"horizon"`
	DaysSimulated int                  `json:"days_simulated"`
	Transitions   sim.TransitionConfig `json:"transitions"`
	Compartments  []string             `json:"compartments"`
	History       []sim.Population     `json:"history"`
}

// NewDocument captures the simulator's current history.
func NewDocument(s *sim.Simulator) *Document {
	doc := &Document{
		Label:         s.Label(),
		HaltReason:    s.HaltReason(),
		Horizon:       s.Horizon(),
		DaysSimulated: s.DaysSimulated(),
		Transitions:   s.Config(),
		History:       make([]sim.Population, 0, s.History().Len()),
	}
	for _, c := range sim.AllCompartments() {
		doc.Compartments = append(doc.Compartments, c.String())
	}
	for _, p := range s.History().All() {
		doc.History = append(doc.History, p)
	}
	return doc
}

// WriteJSON writes NewDocument(s) as indented JSON.
func WriteJSON(w io.Writer, s *sim.Simulator) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(s)); err != nil {
		return fmt.Errorf("encoding run %q: %w", s.Label(), err)
	}
	return nil
}
