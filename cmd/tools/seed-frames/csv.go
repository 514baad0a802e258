// cmd/tools/seed-frames/csv.go
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cockpit-fit-workers/internal/models"
)

var requiredColumns = []string{"brand", "model", "size_label", "stack_mm", "reach_mm"}

// parseFrames reads a frame catalog CSV. Columns are matched by header name;
// optional geometry columns may be missing or blank.
func parseFrames(r io.Reader) ([]models.Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var frames []models.Frame
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		row := csvRow{cols: cols, record: record}
		frame := models.Frame{
			Brand:     row.text("brand"),
			Model:     row.text("model"),
			SizeLabel: row.text("size_label"),
		}
		if frame.Brand == "" || frame.Model == "" || frame.SizeLabel == "" {
			return nil, fmt.Errorf("line %d: brand, model and size_label are required", line)
		}

		stack, err := row.number("stack_mm")
		if err != nil || stack == nil {
			return nil, fmt.Errorf("line %d: stack_mm: %v", line, orMissing(err))
		}
		reach, err := row.number("reach_mm")
		if err != nil || reach == nil {
			return nil, fmt.Errorf("line %d: reach_mm: %v", line, orMissing(err))
		}
		frame.StackMm, frame.ReachMm = *stack, *reach

		optional := map[string]**float64{
			"seat_tube_angle_deg": &frame.SeatTubeAngleDeg,
			"head_tube_angle_deg": &frame.HeadTubeAngleDeg,
			"head_tube_length_mm": &frame.HeadTubeLengthMm,
			"wheelbase_mm":        &frame.WheelbaseMm,
		}
		for name, dst := range optional {
			v, err := row.number(name)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
			}
			*dst = v
		}

		frames = append(frames, frame)
	}
	return frames, nil
}

type csvRow struct {
	cols   map[string]int
	record []string
}

func (r csvRow) text(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// number returns nil for a missing or blank cell.
func (r csvRow) number(name string) (*float64, error) {
	s := r.text(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func orMissing(err error) error {
	if err != nil {
		return err
	}
	return errors.New("value is required")
}
