package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

// Extractor implements domain.Extractor on top of the Gemini Files API and
// the client's model ladder.
type Extractor struct {
	client  *Client
	prompts Prompts
}

// NewExtractor wires an extractor to a client. Empty prompt templates use
// the package defaults.
func NewExtractor(client *Client, prompts Prompts) *Extractor {
	return &Extractor{client: client, prompts: prompts.WithDefaults()}
}

// Extract uploads the document, prompts the model and decodes its output.
// The result is either a single raw record or a slice of them; decoding
// tolerates both shapes because comparison documents carry several
// quotations.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document) (any, error) {
	name := doc.Name
	if name == "" {
		name = doc.Path
	}
	f, err := e.client.UploadDocument(ctx, doc.Path, UniqueDisplayName(name))
	if err != nil {
		return nil, err
	}
	defer e.client.DeleteDocument(ctx, f)

	text, err := e.client.Generate(ctx,
		genai.Text(e.prompts.Extraction),
		genai.FileData{URI: f.URI, MIMEType: f.MIMEType},
	)
	if err != nil {
		return nil, err
	}
	return decodeRaw(text)
}

// Revise asks the model to repair an extracted record. Best effort: any
// failure returns the input unchanged.
func (e *Extractor) Revise(ctx context.Context, rec domain.RawRecord) domain.RawRecord {
	encoded, err := json.Marshal(rec)
	if err != nil {
		return rec
	}
	text, err := e.client.Generate(ctx, genai.Text(e.prompts.Revision+string(encoded)))
	if err != nil {
		e.client.log.Warn().Err(err).Msg("revision pass failed, keeping original record")
		return rec
	}
	raw, err := ExtractJSON(text)
	if err != nil {
		return rec
	}
	var revised domain.RawRecord
	if err := json.Unmarshal([]byte(raw), &revised); err != nil || len(revised) == 0 {
		return rec
	}
	return revised
}

// decodeRaw parses model output into a raw record or a slice of them.
func decodeRaw(text string) (any, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var obj domain.RawRecord
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj, nil
	}

	var list []domain.RawRecord
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		out := make([]any, len(list))
		for i, r := range list {
			out[i] = r
		}
		return out, nil
	}

	return nil, domain.ExtractionError(fmt.Sprintf("model output is not a record or record list (%d bytes)", len(raw)), nil)
}
