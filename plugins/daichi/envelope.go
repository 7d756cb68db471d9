package daichi

import (
	"encoding/json"

	"github.com/joshp123/gohome-daichi/internal/shape"
)

// Envelope is a validated API reply. Exactly one of Data (Done) or Failure
// (!Done) is meaningful.
type Envelope[T any] struct {
	Done           bool
	UpdateRequired bool
	Data           T
	Failure        *ServerError
}

// Result returns the payload, or the server failure when Done is false.
func (e Envelope[T]) Result() (T, error) {
	if !e.Done {
		var zero T
		if e.Failure == nil {
			return zero, &ServerError{Message: "request failed"}
		}
		return zero, e.Failure
	}
	return e.Data, nil
}

func envelopeShape(data shape.Shape) shape.Shape {
	return shape.Discriminated("done",
		shape.Object(
			shape.F("done", shape.Literal(true)),
			shape.F("errors", shape.Null()),
			shape.F("updateRequired", shape.Bool()),
			shape.F("data", data),
		),
		shape.Object(
			shape.F("done", shape.Literal(false)),
			shape.F("updateRequired", shape.Bool()),
			shape.F("errors", shape.Object(shape.F("id", shape.String()))),
			shape.F("message", shape.String()),
			shape.F("data", shape.Null()),
		),
	)
}

type wireEnvelope[T any] struct {
	Done           bool `json:"done"`
	UpdateRequired bool `json:"updateRequired"`
	Errors         *struct {
		ID string `json:"id"`
	} `json:"errors"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// decodeEnvelope validates body against a compiled envelope schema before
// decoding it into T.
func decodeEnvelope[T any](endpoint string, body []byte, schema *shape.Schema) (Envelope[T], error) {
	if err := schema.Validate(body); err != nil {
		envelopeFailures.WithLabelValues(endpoint, "validation").Inc()
		return Envelope[T]{}, &ValidationError{Endpoint: endpoint, Err: err}
	}

	var wire wireEnvelope[T]
	if err := json.Unmarshal(body, &wire); err != nil {
		envelopeFailures.WithLabelValues(endpoint, "validation").Inc()
		return Envelope[T]{}, &ValidationError{Endpoint: endpoint, Err: err}
	}

	if !wire.Done {
		envelopeFailures.WithLabelValues(endpoint, "server").Inc()
		failure := &ServerError{Endpoint: endpoint, Message: wire.Message}
		if wire.Errors != nil {
			failure.ErrorID = wire.Errors.ID
		}
		return Envelope[T]{UpdateRequired: wire.UpdateRequired, Failure: failure}, nil
	}

	return Envelope[T]{
		Done:           true,
		UpdateRequired: wire.UpdateRequired,
		Data:           wire.Data,
	}, nil
}
