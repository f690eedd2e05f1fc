package eurlex

import (
	"context"
	"time"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/tools"
)

// Source is the cache partition label for EUR-Lex tools.
const Source = "eurlex"

// Tools returns the EUR-Lex tool set backed by the given client.
// Results are cached under the eurlex partition with the given TTL.
func Tools(c *Client, ttl time.Duration) []tools.Tool {
	return []tools.Tool{
		{
			Name:        "eurlex.search_title",
			Description: "Search EU legal documents whose title contains the given text.",
			Source:      Source,
			TTL:         ttl,
			Cacheable:   true,
			Tags:        []string{"eu", "law", "search"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				text, err := tools.StringArg(args, "q")
				if err != nil {
					return nil, err
				}
				limit, err := tools.IntArg(args, "limit", 20)
				if err != nil {
					return nil, err
				}
				return c.Select(ctx, SearchByTitleQuery(text, limit))
			},
		},
		{
			Name:        "eurlex.document",
			Description: "Resolve one EU legal document by its CELEX number.",
			Source:      Source,
			TTL:         ttl,
			Cacheable:   true,
			Tags:        []string{"eu", "law", "lookup"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				celex, err := tools.StringArg(args, "celex")
				if err != nil {
					return nil, err
				}
				return c.Select(ctx, ByCELEXQuery(celex))
			},
		},
		{
			Name:        "eurlex.in_force",
			Description: "List EU legal acts in force on a date (YYYY-MM-DD).",
			Source:      Source,
			TTL:         ttl,
			Cacheable:   true,
			Tags:        []string{"eu", "law", "search"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				date, err := tools.StringArg(args, "date")
				if err != nil {
					return nil, err
				}
				limit, err := tools.IntArg(args, "limit", 20)
				if err != nil {
					return nil, err
				}
				return c.Select(ctx, InForceQuery(date, limit))
			},
		},
	}
}
