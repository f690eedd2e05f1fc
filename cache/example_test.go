package cache_test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/cache"
)

func Example() {
	dir, _ := os.MkdirTemp("", "cache-example")
	defer os.RemoveAll(dir)

	c, _ := cache.New(cache.Config{
		Enabled:      true,
		Dir:          dir,
		TTLDefault:   time.Hour,
		MaxSizeBytes: 1 << 20,
	})
	ctx := context.Background()

	key := cache.GenerateKey("eurlex.search_title", map[string]any{"q": "data protection"})
	_ = c.Set(ctx, key, map[string]any{"hits": 3}, 0, "eurlex")

	value, ok := c.Get(ctx, key)
	fmt.Println("hit:", ok)
	fmt.Println("value:", string(value))

	stats, _ := c.Stats(ctx)
	fmt.Println("entries:", stats.TotalEntries)
	// Output:
	// hit: true
	// value: {"hits":3}
	// entries: 1
}
