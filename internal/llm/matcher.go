package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

// Matcher implements domain.Matcher by asking the model to pair a supplier's
// items with products already on the sheet. Any failure degrades to an
// everything-unique result, matcher problems must never sink a run.
type Matcher struct {
	client  *Client
	prompts Prompts
}

// NewMatcher wires a model-backed matcher to a client.
func NewMatcher(client *Client, prompts Prompts) *Matcher {
	return &Matcher{client: client, prompts: prompts.WithDefaults()}
}

type matchReply struct {
	Matched []struct {
		New      string `json:"new"`
		Existing string `json:"existing"`
	} `json:"matched"`
	Unique []string `json:"unique"`
}

// Match partitions targets against references using the model's judgement.
func (m *Matcher) Match(ctx context.Context, targets []domain.LineItem, references []string) domain.MatchResult {
	if len(targets) == 0 {
		return domain.MatchResult{}
	}
	if len(references) == 0 {
		return domain.MatchResult{Unique: targets}
	}

	reply, err := m.ask(ctx, targets, references)
	if err != nil {
		m.client.log.Warn().Err(err).Msg("model matching failed, treating all products as unique")
		return domain.MatchResult{Unique: targets}
	}
	return m.partition(targets, references, reply)
}

func (m *Matcher) ask(ctx context.Context, targets []domain.LineItem, references []string) (*matchReply, error) {
	var sb strings.Builder
	sb.WriteString(m.prompts.Matching)
	sb.WriteString("\n\nNEW products:\n")
	for _, t := range targets {
		fmt.Fprintf(&sb, "- %s\n", t.Name)
	}
	sb.WriteString("\nEXISTING products:\n")
	for _, r := range references {
		fmt.Fprintf(&sb, "- %s\n", r)
	}

	text, err := m.client.Generate(ctx, genai.Text(sb.String()))
	if err != nil {
		return nil, err
	}
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var reply matchReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, domain.MatchError("decode match reply", err)
	}
	return &reply, nil
}

// partition validates the reply against the real inputs: pairs referring to
// unknown names are ignored, each reference is consumed at most once, and
// targets the model forgot fall through to unique.
func (m *Matcher) partition(targets []domain.LineItem, references []string, reply *matchReply) domain.MatchResult {
	refSet := make(map[string]bool, len(references))
	for _, r := range references {
		refSet[r] = true
	}
	pair := make(map[string]string, len(reply.Matched))
	consumed := make(map[string]bool, len(reply.Matched))
	for _, p := range reply.Matched {
		if refSet[p.Existing] && !consumed[p.Existing] {
			if _, dup := pair[p.New]; !dup {
				pair[p.New] = p.Existing
				consumed[p.Existing] = true
			}
		}
	}

	var result domain.MatchResult
	for _, t := range targets {
		if existing, ok := pair[t.Name]; ok {
			it := t
			it.Name = existing
			result.Matched = append(result.Matched, it)
			continue
		}
		result.Unique = append(result.Unique, t)
	}
	return result
}
