package runtime

import (
	"context"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/visionrun/workflow/store"
	"github.com/visionrun/workflow/types"
	"github.com/visionrun/workflow/utils"
)

const (
	TraceRecordPath = "/trace/"
)

var (
	_ types.Context = &runContext{}
)

func traceSavePath(requestID string) string {
	return TraceRecordPath + requestID
}

type runContext struct {
	context.Context

	store     store.Store
	requestID string

	batchGated    bool
	activeIndices types.BatchIndexSet
}

func newRunContext(ctx context.Context, store store.Store, requestID string) *runContext {
	return &runContext{Context: ctx, store: store, requestID: requestID}
}

func (c *runContext) GetRequestID() string {
	return c.requestID
}

func (c *runContext) ActiveBatchIndices() (types.BatchIndexSet, bool) {
	if !c.batchGated {
		return nil, false
	}
	return c.activeIndices, true
}

// withActiveIndices derives a step-scoped context carrying the element
// subset the step may process.
func (c *runContext) withActiveIndices(indices types.BatchIndexSet) *runContext {
	derived := *c
	derived.batchGated = true
	derived.activeIndices = indices
	return &derived
}

// Trace persistence is observability only; a failed save is logged and
// never fails the step.
func (c *runContext) saveTraceRecord(record *types.StepTraceRecord) {
	b, err := utils.Serialize(record)
	if err != nil {
		log.Errorf("%s failed to serialize trace record for %s: %v", c.requestID, record.Step, err)
		return
	}
	if err := c.store.Set(c.Context, traceSavePath(c.requestID), record.Step, b); err != nil {
		log.Errorf("%s failed to save trace record for %s: %v", c.requestID, record.Step, err)
	}
}

func loadTraceRecords(ctx context.Context, s store.Store, requestID string) (map[string]*types.StepTraceRecord, error) {
	records := make(map[string]*types.StepTraceRecord)
	recordPath := traceSavePath(requestID)
	err := s.List(ctx, recordPath, func(step string) bool {
		b, err := s.Get(ctx, recordPath, step)
		if err != nil {
			log.Errorf("load %s %s from store failed: %v", recordPath, step, err)
			return true
		}
		record := &types.StepTraceRecord{}
		if err := utils.Unserialize(b, record); err != nil {
			log.Errorf("unserialize %s %s failed: %v", recordPath, step, err)
			return true
		}
		records[step] = record
		return true
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return records, nil
}
