package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/mitosis/systems"
)

// DivisionRecord is one row of divisions.csv.
type DivisionRecord struct {
	Frame         int32   `csv:"frame"`
	Substep       int     `csv:"substep"`
	ParentID      uint32  `csv:"parent_id"`
	Daughter1ID   uint32  `csv:"daughter1_id"`
	Daughter2ID   uint32  `csv:"daughter2_id"`
	ParentMass    float32 `csv:"parent_mass"`
	Daughter1Mass float32 `csv:"daughter1_mass"`
	Daughter2Mass float32 `csv:"daughter2_mass"`
	Fraction      float32 `csv:"fraction"`
	X             float32 `csv:"x"`
	Y             float32 `csv:"y"`
	Z             float32 `csv:"z"`
	Population    int     `csv:"population"`
}

// NewDivisionRecord flattens a division event for CSV output.
func NewDivisionRecord(frame int32, substep int, ev systems.DivisionEvent) DivisionRecord {
	return DivisionRecord{
		Frame:         frame,
		Substep:       substep,
		ParentID:      ev.ParentID,
		Daughter1ID:   ev.Daughter1ID,
		Daughter2ID:   ev.Daughter2ID,
		ParentMass:    ev.ParentMass,
		Daughter1Mass: ev.Daughter1Mass,
		Daughter2Mass: ev.Daughter2Mass,
		Fraction:      ev.Fraction,
		X:             ev.Position[0],
		Y:             ev.Position[1],
		Z:             ev.Position[2],
		Population:    ev.Population,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (r DivisionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", int(r.Frame)),
		slog.Int("substep", r.Substep),
		slog.Any("parent", r.ParentID),
		slog.Any("daughters", [2]uint32{r.Daughter1ID, r.Daughter2ID}),
		slog.Float64("fraction", float64(r.Fraction)),
		slog.Int("population", r.Population),
	)
}
