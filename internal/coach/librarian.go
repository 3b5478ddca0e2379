package coach

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smolblud/forge/internal/domain/models"
	"github.com/smolblud/forge/internal/domain/services"
)

// dimensionQueries maps each critique dimension to its canonical search
// query. Unknown dimensions fall back to a templated query.
var dimensionQueries = map[string]string{
	"Pacing":          "how to fix slow pacing",
	"Dialogue":        "how to improve dialogue",
	"Show-Don't-Tell": "how to show not tell",
}

// Librarian retrieves at most one advice snippet per critique dimension from
// the semantic index, in the plan's declared dimension order.
type Librarian struct {
	index    services.SemanticIndex
	minScore float64
	logger   *slog.Logger
}

// NewLibrarian creates a Librarian. minScore of 0 keeps every top-1 hit
// regardless of relevance.
func NewLibrarian(index services.SemanticIndex, minScore float64, logger *slog.Logger) *Librarian {
	return &Librarian{
		index:    index,
		minScore: minScore,
		logger:   logger,
	}
}

// DimensionQuery returns the canonical query string for a dimension.
func DimensionQuery(dimension string) string {
	if q, ok := dimensionQueries[dimension]; ok {
		return q
	}
	return fmt.Sprintf("writing advice about %s", dimension)
}

// RetrieveTips fetches the top-ranked advice passage for each dimension.
// Index failure is surfaced to the caller, never swallowed; the orchestrator
// decides whether the turn proceeds without tips.
func (l *Librarian) RetrieveTips(ctx context.Context, dimensions []string) ([]models.AdviceSnippet, error) {
	var tips []models.AdviceSnippet

	for _, dim := range dimensions {
		query := DimensionQuery(dim)

		hits, err := l.index.Search(ctx, query, 1)
		if err != nil {
			return nil, fmt.Errorf("retrieve %q tips: %w", dim, err)
		}
		if len(hits) == 0 {
			continue
		}

		top := hits[0]
		if l.minScore > 0 && top.Score < l.minScore {
			l.logger.Debug("dropping low-relevance advice hit",
				"dimension", dim,
				"score", top.Score,
				"min_score", l.minScore,
			)
			continue
		}

		tips = append(tips, models.AdviceSnippet{Title: top.Title, Content: top.Text})
	}

	return tips, nil
}
