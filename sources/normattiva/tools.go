package normattiva

import (
	"context"
	"time"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/tools"
)

// Source is the cache partition label for Normattiva tools.
const Source = "normattiva"

// Tools returns the Normattiva tool set backed by the given client.
func Tools(c *Client, ttl time.Duration) []tools.Tool {
	return []tools.Tool{
		{
			Name:        "normattiva.act",
			Description: "Fetch an Italian state act by type, date (YYYY-MM-DD), and number.",
			Source:      Source,
			TTL:         ttl,
			Cacheable:   true,
			Tags:        []string{"italy", "law", "lookup"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				actType, err := tools.StringArg(args, "type")
				if err != nil {
					return nil, err
				}
				date, err := tools.StringArg(args, "date")
				if err != nil {
					return nil, err
				}
				number, err := tools.StringArg(args, "number")
				if err != nil {
					return nil, err
				}
				urn, err := BuildURN(actType, date, number)
				if err != nil {
					return nil, err
				}
				return c.FetchAct(ctx, urn)
			},
		},
		{
			Name:        "normattiva.act_by_urn",
			Description: "Fetch an Italian act by its URN-NIR identifier.",
			Source:      Source,
			TTL:         ttl,
			Cacheable:   true,
			Tags:        []string{"italy", "law", "lookup"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urn, err := tools.StringArg(args, "urn")
				if err != nil {
					return nil, err
				}
				return c.FetchAct(ctx, urn)
			},
		},
	}
}
