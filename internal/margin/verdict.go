package margin

import (
	"fmt"

	"github.com/coder-muller/calculadora-bacen/internal/rate"
)

// Claim is the outcome of a contract-revision claim. It is the inverse of a
// plain "rate is valid" flag: a rate above the limit makes the claim
// well-founded.
type Claim int

const (
	// ClaimUnfounded means the charged rate is within the margin.
	ClaimUnfounded Claim = iota
	// ClaimWellFounded means the charged rate is above the margin.
	ClaimWellFounded
)

func (c Claim) String() string {
	if c == ClaimWellFounded {
		return "procedente"
	}
	return "improcedente"
}

// Verdict is the user-facing reading of a Result.
type Verdict struct {
	Claim    Claim  `json:"claim"`
	Headline string `json:"headline"`
	Detail   string `json:"detail"`
}

// MarshalText encodes the claim as its Portuguese legal term.
func (c Claim) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Verdict maps the comparison onto the revision-claim outcome.
func (r Result) Verdict() Verdict {
	if !r.Exceeds {
		return Verdict{
			Claim:    ClaimUnfounded,
			Headline: "Revisional " + ClaimUnfounded.String(),
			Detail:   "Dentro do limite permitido",
		}
	}
	return Verdict{
		Claim:    ClaimWellFounded,
		Headline: "Revisional " + ClaimWellFounded.String(),
		Detail:   fmt.Sprintf("Acima do limite de %s", r.marginText()),
	}
}

func (r Result) marginText() string {
	return rate.Compact(r.Margin) + "%"
}
