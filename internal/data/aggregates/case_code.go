package aggregates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/intervention-backend/internal/data/repos"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
)

// CaseCodeGenerator issues NNNN-YYYY codes, sequential within a calendar year.
type CaseCodeGenerator struct {
	Cases       repos.CaseRepo
	MaxAttempts int
	Now         func() time.Time
	// OnCollision is called for each candidate that is already taken.
	OnCollision func()
}

// Next returns the first free code after the latest one issued this year.
// Deleted cases keep their codes. The loop is bounded; running out of
// attempts returns an exhaustion error.
func (g CaseCodeGenerator) Next(dbc dbctx.Context) (string, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = defaultCodeMaxAttempts
	}
	year := now().UTC().Year()
	suffix := fmt.Sprintf("-%d", year)

	floor := 0
	for attempt := 0; attempt < attempts; attempt++ {
		latest, err := g.Cases.LatestByCodeSuffix(dbc, suffix)
		if err != nil {
			return "", err
		}
		seq := 1
		if latest != nil {
			n, err := parseCaseCodeSeq(latest.Code, suffix)
			if err != nil {
				return "", err
			}
			seq = n + 1
		}
		if seq <= floor {
			seq = floor + 1
		}
		candidate := FormatCaseCode(seq, year)

		existing, err := g.Cases.GetByCode(dbc, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		if g.OnCollision != nil {
			g.OnCollision()
		}
		floor = seq
	}
	return "", ExhaustedError(fmt.Sprintf("no free case code for %d after %d attempts", year, attempts))
}

func FormatCaseCode(seq, year int) string {
	return fmt.Sprintf("%04d-%d", seq, year)
}

func parseCaseCodeSeq(code, suffix string) (int, error) {
	prefix := strings.TrimSuffix(strings.TrimSpace(code), suffix)
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 0 {
		return 0, InvariantError(fmt.Sprintf("stored case code %q has no numeric prefix", code))
	}
	return n, nil
}
