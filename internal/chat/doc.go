// Package chat is the interactive front end. It reads free-text requests,
// runs each one through the workflow agent, prints the decision and, when
// the request was a booking, walks the user through a short confirmation
// form before writing the event.
package chat
