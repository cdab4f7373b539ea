package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

func TestPartitionValidatesModelReply(t *testing.T) {
	m := &Matcher{}
	targets := []domain.LineItem{
		{Name: "Widget 100x50", Quantity: 2},
		{Name: "Gasket", Quantity: 5},
		{Name: "Bolt M8", Quantity: 10},
	}
	references := []string{"Widget 100 x 50 mm", "Hinge"}

	reply := &matchReply{}
	reply.Matched = []struct {
		New      string `json:"new"`
		Existing string `json:"existing"`
	}{
		{New: "Widget 100x50", Existing: "Widget 100 x 50 mm"},
		// hallucinated reference, must be dropped
		{New: "Gasket", Existing: "Gasket XL"},
		// reference already consumed, must be dropped
		{New: "Bolt M8", Existing: "Widget 100 x 50 mm"},
	}

	result := m.partition(targets, references, reply)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "Widget 100 x 50 mm", result.Matched[0].Name)
	assert.Equal(t, 2.0, result.Matched[0].Quantity)

	// forgotten and rejected targets fall through to unique
	require.Len(t, result.Unique, 2)
	assert.Equal(t, "Gasket", result.Unique[0].Name)
	assert.Equal(t, "Bolt M8", result.Unique[1].Name)
}
