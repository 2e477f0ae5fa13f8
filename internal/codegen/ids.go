package codegen

import "fmt"

// idGenerator hands out opaque, monotonically increasing, prefixed IDs
// for blocks, variables, lists, procedure arguments, and broadcasts —
// the project.json format only requires that IDs be unique strings.
type idGenerator struct {
	counter int
}

func (g *idGenerator) next(prefix string) string {
	g.counter++
	return fmt.Sprintf("%s_%d", prefix, g.counter)
}

func (g *idGenerator) block() string {
	return g.next("block")
}
