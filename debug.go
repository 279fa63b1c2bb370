package loom

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

type ContainerInfo struct {
	Cached    []string
	Overrides []OverrideInfo
	Frozen    bool
	Disposers int
}

type OverrideInfo struct {
	Original    string
	Replacement string
}

// Info returns a structured snapshot of this container's cache and override
// state, parents excluded.
func (c *Container) Info() ContainerInfo {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()

	cached := make([]string, 0, len(c.state.cache))
	for f := range c.state.cache {
		cached = append(cached, displayName(f))
	}
	sort.Strings(cached)

	overrides := make([]OverrideInfo, 0, len(c.state.overrides))
	for original, replacement := range c.state.overrides {
		overrides = append(
			overrides, OverrideInfo{
				Original:    displayName(original),
				Replacement: displayName(replacement),
			},
		)
	}
	sort.Slice(
		overrides, func(i, j int) bool {
			return overrides[i].Original < overrides[j].Original
		},
	)

	return ContainerInfo{
		Cached:    cached,
		Overrides: overrides,
		Frozen:    c.state.frozen,
		Disposers: len(c.state.disposers),
	}
}

func (c *Container) Print() {
	c.Fprint(os.Stdout)
}

func (c *Container) Fprint(w io.Writer) {
	info := c.Info()

	if len(info.Cached) == 0 && len(info.Overrides) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, name := range info.Cached {
		_, _ = fmt.Fprintf(w, "● %s\n", name)
	}
	for _, o := range info.Overrides {
		_, _ = fmt.Fprintf(w, "↷ %s → %s\n", o.Original, o.Replacement)
	}
}

func (c *Container) Sprint() string {
	var sb strings.Builder
	c.Fprint(&sb)
	return sb.String()
}
