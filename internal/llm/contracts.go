// Package llm abstracts text generation backends behind a single
// completion interface and classifies their failures for retry decisions.
package llm

import "context"

// Generator is the interface the extraction engine depends on. A prompt
// goes in, the model's raw text comes out.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}
