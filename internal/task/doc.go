// Package task defines the structured task record produced by the
// natural-language parser and consumed by the workflow.
//
// A Task captures what the user asked for: a title, a target date, optional
// start/end times, a scheduling category, the calendar account it belongs to,
// and the classified intent (create, query or summarize). The intent drives
// routing inside the workflow, so it is a closed enum rather than a free
// string.
package task
