// Package agent implements the scheduling workflow.
//
// One user request drives one pass through a fixed step graph:
//
//	parse ──(intent=query)──> query ───────────────┐
//	  └───(otherwise)──────> fetch                 │
//	                           ├─(summarize)─> summarize ─> write ─> end
//	                           └─(otherwise)─> resolve ──────┘
//
// Each step receives the full run state and returns a partial update; the
// orchestrator merges updates between transitions. A step failure aborts the
// run. The only external side effect, booking an event, happens outside the
// graph: the write step merely raises the booking flag for the presentation
// layer.
package agent
