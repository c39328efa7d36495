package middleware

import (
	"context"
	"strconv"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
)

// suffixReserve is runes reserved for the truncation notice.
const suffixReserve = 80

// TruncatingExecutor caps tool output at maxRunes before it reaches the
// model (0 = no cap). Truncated JSON may be invalid; the model sees the
// notice and can narrow its request.
type TruncatingExecutor struct {
	next     core.ToolExecutor
	maxRunes int
}

var _ core.ToolExecutor = (*TruncatingExecutor)(nil)

// NewTruncatingExecutor wraps next with an output cap of maxRunes (0 = off).
func NewTruncatingExecutor(next core.ToolExecutor, maxRunes int) *TruncatingExecutor {
	return &TruncatingExecutor{next: next, maxRunes: maxRunes}
}

// Execute runs the inner executor and caps the result before returning.
func (t *TruncatingExecutor) Execute(ctx context.Context, name, argsJSON string) (string, error) {
	result, err := t.next.Execute(ctx, name, argsJSON)
	if err != nil {
		return "", err
	}
	return capRunes(result, t.maxRunes), nil
}

// capRunes truncates s to maxRunes runes, preserving the start and appending
// a notice with the original rune count.
func capRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	keep := maxRunes - suffixReserve
	if keep <= 0 {
		keep = 1
	}
	return string(r[:keep]) + "\n...[output truncated, total " + strconv.Itoa(len(r)) + " runes]"
}
