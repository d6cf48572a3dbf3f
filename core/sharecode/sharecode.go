package sharecode

import (
	"crypto/rand"
	"math/big"
	"strings"

	"studyhub/core/models"
)

const (
	// Alphabet omits 0/O and 1/I, which are easy to mistype from a whiteboard.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// Length is the number of characters in a code.
	Length = 6
)

// Generator issues share codes.
type Generator struct {
	draw func() string
}

// NewGenerator returns a generator drawing from crypto/rand.
func NewGenerator() *Generator {
	return &Generator{draw: randomCode}
}

// NewGeneratorWithSource returns a generator drawing candidates from draw.
// Tests use it to force collisions.
func NewGeneratorWithSource(draw func() string) *Generator {
	return &Generator{draw: draw}
}

// Generate returns a code absent from existing. It redraws on every collision
// until one is free; the code space makes more than a couple of draws rare.
// The caller records the result in its set of issued codes.
func (g *Generator) Generate(existing map[string]struct{}) string {
	for {
		code := g.draw()
		if _, taken := existing[code]; !taken {
			return code
		}
	}
}

// Regenerate returns a replacement code for group. The old code is already in
// existing, so it is never handed back; once replaced it stops working.
func (g *Generator) Regenerate(group models.Group, existing map[string]struct{}) string {
	if _, ok := existing[group.ShareCode]; !ok && group.ShareCode != "" {
		existing = withCode(existing, group.ShareCode)
	}
	return g.Generate(existing)
}

// Normalize returns the canonical (upper case, trimmed) form of a typed code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code is a well-formed canonical code.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}

func withCode(existing map[string]struct{}, code string) map[string]struct{} {
	out := make(map[string]struct{}, len(existing)+1)
	for c := range existing {
		out[c] = struct{}{}
	}
	out[code] = struct{}{}
	return out
}

func randomCode() string {
	max := big.NewInt(int64(len(Alphabet)))
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b)
}
