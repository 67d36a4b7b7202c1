package design

// Responses buffers the output of one command run until it is flushed.
type Responses struct {
	responses []string
	failures  []string
}

func (r *Responses) Add(text string)  { r.responses = append(r.responses, text) }
func (r *Responses) Fail(text string) { r.failures = append(r.failures, text) }

func (r *Responses) Len() int { return len(r.responses) + len(r.failures) }

// Flush delivers buffered responses to the operator, or to the persistent log
// when toLog is set. Failures always go to the log.
func (r *Responses) Flush(h Host, toLog bool) {
	for _, text := range r.responses {
		if toLog {
			h.WriteLog(LogResponse, text)
		} else {
			h.SendMessage(text)
		}
	}
	for _, text := range r.failures {
		h.WriteLog(LogFailure, text)
	}
	r.responses = r.responses[:0]
	r.failures = r.failures[:0]
}
