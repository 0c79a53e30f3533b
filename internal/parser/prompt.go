package parser

import (
	"encoding/json"
	"fmt"
	"time"
)

// taskSchema is the JSON response schema sent with every parser call. It
// mirrors the task record so the model returns exactly one well-typed object.
var taskSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "title": {"type": "string", "description": "Name of the task"},
    "date": {"type": "string", "description": "Date in YYYY-MM-DD format"},
    "start_time": {"type": "string", "description": "Start time in HH:MM (24h) if mentioned, else omit"},
    "end_time": {"type": "string", "description": "End time in HH:MM (24h). If not mentioned but start exists, assume +1 hour"},
    "category": {"type": "string", "enum": ["fixed", "floating"]},
    "account_id": {"type": "string", "enum": ["personal", "work"]},
    "intent": {"type": "string", "enum": ["create", "query", "summarize"]}
  },
  "required": ["title", "date", "category", "account_id", "intent"]
}`)

// systemPrompt carries the classification directions plus the current date,
// which the model needs to resolve relative dates.
func systemPrompt(ref time.Time) string {
	return fmt.Sprintf(`Today is %s.

You are a highly efficient scheduling assistant. Your goal is to parse user intent into a structured format.

DIRECTIONS:
1. CATEGORY:
   - 'fixed': Tasks that require a specific time or involve other people (meetings, appointments, flights).
   - 'floating': Flexible tasks that can be done anytime (chores, habits, errands).

2. ACCOUNT_ID:
   - Categorize the task into 'work' or 'personal' based on the context of the input.
   - If it sounds professional, academic, or corporate, use 'work'.
   - If it sounds like home life, health, or social, use 'personal'.

3. You must strictly categorize the user's INTENT:
   - 'query': Use this ONLY if the user is asking about the PAST or future occurrence of an event.
     Example: "When was the last time I did laundry?", "When did I meet Sumitro?"
   - 'create': Use this if the user is seeking a suggestion for a time or scheduling a task.
     Example: "When can I do laundry?", "Find a time for a meeting", "Schedule gym."
   - 'summarize': If the user asks for a briefing, an agenda, or "what does my day look like".

4. DATES/TIMES:
   - Always output dates in YYYY-MM-DD.
   - If no time is mentioned for a 'fixed' task, leave start_time unset.`,
		ref.Format("Monday, Jan 02, 2006"))
}
