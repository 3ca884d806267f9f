package api

import (
	"deltakey/internal/dataset"
	"deltakey/internal/delta"
	"deltakey/internal/engine"
	"deltakey/internal/session"
)

// FromCharacter converts a parsed character to its DTO, stripping display
// markup from descriptions.
func FromCharacter(c *delta.Character) CharacterSummary {
	out := CharacterSummary{
		Number:      c.Number,
		Type:        string(c.Type),
		TypeLabel:   c.Type.Label(),
		Description: delta.StripMarkup(c.Description),
		Units:       c.Units,
		Mandatory:   c.Mandatory,
		OmitFromKey: c.OmitFromKey,
	}
	for _, s := range c.States {
		out.States = append(out.States, StateSummary{
			Number:      s.Number,
			Description: delta.StripMarkup(s.Description),
		})
	}
	return out
}

// FromItem converts a parsed item to its DTO.
func FromItem(it *delta.Item) ItemSummary {
	return ItemSummary{
		Number:  it.Number,
		Name:    delta.StripMarkup(it.Name),
		Comment: it.Comment,
	}
}

// FromValueCounts converts engine value breakdowns to DTOs.
func FromValueCounts(values []engine.ValueCount) []ValueOption {
	out := make([]ValueOption, 0, len(values))
	for _, vc := range values {
		out = append(out, ValueOption{Value: vc.Value.String(), Count: vc.Count})
	}
	return out
}

// FromProposal converts an engine proposal to its DTO. A nil proposal
// becomes the explicit no-candidate response.
func FromProposal(p *engine.Proposal) ProposalResponse {
	if p == nil {
		return ProposalResponse{NoCandidate: true}
	}
	return ProposalResponse{
		Proposal: &Proposal{
			Character:        FromCharacter(p.Character),
			DistinctValues:   p.DistinctValues,
			SelectivityScore: p.Selectivity,
			RemainingItems:   p.RemainingItems,
			Values:           FromValueCounts(p.Values),
		},
	}
}

// FromFilters converts a session history to DTO entries.
func FromFilters(filters []session.Filter) []FilterEntry {
	out := make([]FilterEntry, 0, len(filters))
	for _, f := range filters {
		out = append(out, FilterEntry{Character: f.Character, Value: f.Value})
	}
	return out
}

// FromStats converts dataset counts to the stats DTO.
func FromStats(s dataset.Stats) StatsResponse {
	return StatsResponse{
		Characters:   s.Characters,
		States:       s.States,
		Items:        s.Items,
		Attributes:   s.Attributes,
		Dependencies: s.Dependencies,
	}
}

func itemSummaries(idx *dataset.Index, numbers []int) []ItemSummary {
	out := make([]ItemSummary, 0, len(numbers))
	for _, n := range numbers {
		if it, ok := idx.Item(n); ok {
			out = append(out, FromItem(it))
		}
	}
	return out
}
