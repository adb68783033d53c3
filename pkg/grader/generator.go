package grader

import (
	"math/rand"
	"time"

	"github.com/m5grader/gas-tester/pkg/types"
)

// TimestampLayout is the wall clock format the device firmware stamps on records
const TimestampLayout = "2006/01/02 15:04:05"

// WeightJitter is the maximum deviation in grams applied around a grade's reference weight
const WeightJitter = 10

// grades mirrors the grading table flashed on the device, ordered largest to smallest.
// Label and reference weight always travel together so a fabricated weight is
// plausible for its label.
var grades = []types.Grade{
	{Label: "6L", ReferenceWeight: 380},
	{Label: "5L", ReferenceWeight: 340},
	{Label: "4L", ReferenceWeight: 310},
	{Label: "3L", ReferenceWeight: 280},
	{Label: "2L", ReferenceWeight: 240},
	{Label: "L", ReferenceWeight: 200},
	{Label: "M", ReferenceWeight: 170},
	{Label: "S", ReferenceWeight: 140},
	{Label: "2S", ReferenceWeight: 110},
	{Label: "3S", ReferenceWeight: 80},
}

// Generator fabricates measurement records the way a real grader reports them
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

// GeneratorFactory creates a generator. A nil source seeds from the current time;
// tests pass a fixed source for deterministic output.
func GeneratorFactory(source rand.Source) *Generator {
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{
		rnd: rand.New(source),
		now: time.Now,
	}
}

// NewRecord returns one synthetic measurement for the given device.
// The grade is picked uniformly from the grading table and the weight is the
// grade's reference weight shifted by a uniform offset in [-WeightJitter, +WeightJitter].
func (g *Generator) NewRecord(deviceID int) types.MeasurementRecord {
	grade := grades[g.rnd.Intn(len(grades))]
	weight := grade.ReferenceWeight + g.rnd.Intn(2*WeightJitter+1) - WeightJitter

	return types.MeasurementRecord{
		Size:      grade.Label,
		Weight:    weight,
		Timestamp: g.now().Format(TimestampLayout),
		DeviceID:  deviceID,
	}
}

// LookupGrade returns the grade for a label, or false if the label is not on the scale
func LookupGrade(label string) (types.Grade, bool) {
	for _, grade := range grades {
		if grade.Label == label {
			return grade, true
		}
	}
	return types.Grade{}, false
}

// Grades returns a copy of the grading table
func Grades() []types.Grade {
	result := make([]types.Grade, len(grades))
	copy(result, grades)
	return result
}
