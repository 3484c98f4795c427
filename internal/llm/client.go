package llm

import (
	"context"
	"fmt"
)

type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeAuthError
	OutcomeTransportError
	OutcomeMalformed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeAuthError:
		return "auth_error"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the tagged result of one remote generation attempt.
// An OK outcome may carry empty Text when the response had no generated text.
type Outcome struct {
	Kind   OutcomeKind
	Text   string
	Status int
	Err    error
}

func (o Outcome) OK() bool { return o.Kind == OutcomeOK }

func OK(text string) Outcome { return Outcome{Kind: OutcomeOK, Text: text} }

func AuthError(status int, err error) Outcome {
	return Outcome{Kind: OutcomeAuthError, Status: status, Err: err}
}

func TransportError(status int, err error) Outcome {
	return Outcome{Kind: OutcomeTransportError, Status: status, Err: err}
}

func Malformed(err error) Outcome { return Outcome{Kind: OutcomeMalformed, Err: err} }

// Generator produces text for a single prompt. Implementations report every failure
// through the Outcome; they never panic on bad responses.
type Generator interface {
	Generate(ctx context.Context, credential, prompt string) Outcome
}
