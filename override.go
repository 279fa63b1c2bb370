package loom

// Override substitutes replacement for original in this container. The
// original factory's body is never invoked while the override is in place,
// and the result is cached under the original's identity so Has and child
// lookups keep working. Overrides are container-local: children created
// before or after do not inherit them.
func Override[T any](c *Container, original, replacement *Factory[T]) {
	c.state.mu.Lock()
	c.state.overrides[original] = replacement
	c.state.mu.Unlock()

	c.state.fireOnOverride(original, replacement)
}
