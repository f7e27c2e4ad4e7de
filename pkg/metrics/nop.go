package metrics

// Nop is a no-op recorder for tests and wiring where metrics are disabled.
type Nop struct{}

func (Nop) RecordAnalyzed(string)              {}
func (Nop) RecordSkipped(string)               {}
func (Nop) RecordQualified(string)             {}
func (Nop) RecordSignal(string)                {}
func (Nop) RecordBatchDuration(float64)        {}
func (Nop) RecordStageLatency(string, float64) {}
