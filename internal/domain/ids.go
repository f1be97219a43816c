package domain

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out record identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator returns random v4 identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator derives stable identifiers from a namespace and a counter,
// so fixtures and tests produce the same IDs on every run.
type SequenceGenerator struct {
	mu        sync.Mutex
	namespace uuid.UUID
	next      int
}

func NewSequenceGenerator(namespace string) *SequenceGenerator {
	return &SequenceGenerator{
		namespace: uuid.NewSHA1(uuid.NameSpaceOID, []byte(namespace)),
	}
}

func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	return uuid.NewSHA1(g.namespace, []byte(strconv.Itoa(g.next))).String()
}
