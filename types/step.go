package types

import "time"

type StepTraceRecord struct {
	Step string
	Wave int

	StartTime time.Time
	EndTime   time.Time
	Error     string

	Input  Data
	Output Data
}

type StepHandler func(ctx Context, input Data) (Data, error)
type BranchHandler func(ctx Context, input Data) (Mask, error)
