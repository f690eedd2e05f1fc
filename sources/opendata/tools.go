package opendata

import (
	"context"
	"time"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/tools"
)

// Source is the cache partition label for open-data tools.
const Source = "opendata"

// Tools returns the open-data catalog tool set backed by the given
// client.
func Tools(c *Client, ttl time.Duration) []tools.Tool {
	return []tools.Tool{
		{
			Name:        "opendata.search",
			Description: "Search datasets in the configured open-data catalog.",
			Source:      Source,
			TTL:         ttl,
			Cacheable:   true,
			Tags:        []string{"opendata", "search"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				q, err := tools.StringArg(args, "q")
				if err != nil {
					return nil, err
				}
				rows, err := tools.IntArg(args, "rows", 10)
				if err != nil {
					return nil, err
				}
				return c.PackageSearch(ctx, q, rows)
			},
		},
		{
			Name:        "opendata.dataset",
			Description: "Fetch one dataset by name or id from the catalog.",
			Source:      Source,
			TTL:         ttl,
			Cacheable:   true,
			Tags:        []string{"opendata", "lookup"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := tools.StringArg(args, "id")
				if err != nil {
					return nil, err
				}
				return c.PackageShow(ctx, id)
			},
		},
	}
}
