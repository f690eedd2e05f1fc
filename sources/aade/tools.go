package aade

import (
	"context"
	"time"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/tools"
)

// Source is the cache partition label for AADE tools.
const Source = "aade"

// Tools returns the AADE tool set backed by the given client.
func Tools(c *Client, ttl time.Duration) []tools.Tool {
	return []tools.Tool{
		{
			Name:        "aade.vat_info",
			Description: "Look up registry information for a Greek tax number (AFM).",
			Source:      Source,
			TTL:         ttl,
			Cacheable:   true,
			Tags:        []string{"greece", "tax", "lookup"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				afm, err := tools.StringArg(args, "afm")
				if err != nil {
					return nil, err
				}
				return c.VATInfo(ctx, afm)
			},
		},
	}
}
