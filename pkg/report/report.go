// Package report renders a ranked report set into chat-channel text.
// Formatting only: no scoring or ranking decisions are made here.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/oddscout/oddscout/pkg/provider"
	"github.com/oddscout/oddscout/pkg/ranking"
	"github.com/oddscout/oddscout/pkg/scoring"
)

// MaxMessageLength is the hard per-message limit of the notification
// channel.
const MaxMessageLength = 2000

// Formatter renders report sets into bounded message chunks.
type Formatter struct {
	limit         int
	picksPerSport int
}

// NewFormatter creates a formatter. limit <= 0 selects the channel
// default; picksPerSport bounds how many lines each sport section shows.
func NewFormatter(limit, picksPerSport int) *Formatter {
	if limit <= 0 {
		limit = MaxMessageLength
	}
	if picksPerSport <= 0 {
		picksPerSport = 8
	}
	return &Formatter{limit: limit, picksPerSport: picksPerSport}
}

// Format renders the full report as chunks, each within the channel
// limit. Empty report sets produce a single "no recommendations" chunk.
func (f *Formatter) Format(set *ranking.ReportSet) []string {
	var b strings.Builder

	fmt.Fprintf(&b, "BETTING ANALYSIS UPDATE\n%s\n\n",
		set.GeneratedAt.Format("01/02/2006 03:04 PM"))

	if len(set.Games) == 0 && len(set.Props) == 0 {
		b.WriteString("No recommendations this run.\n")
		return f.Split(b.String())
	}

	if len(set.Games) > 0 {
		fmt.Fprintf(&b, "TOP GAME PICKS (%d)\n", len(set.Games))
		f.writeSections(&b, set.Games, f.formatGameLine)
		b.WriteString("\n")
	}

	if len(set.Props) > 0 {
		fmt.Fprintf(&b, "PLAYER PROPS (%d)\n", len(set.Props))
		f.writeSections(&b, set.Props, f.formatPropLine)
	}

	return f.Split(b.String())
}

// writeSections groups recommendations by sport, preserving the ranked
// order, and writes up to picksPerSport lines per sport.
func (f *Formatter) writeSections(b *strings.Builder, recs []scoring.Recommendation, line func(scoring.Recommendation) string) {
	var order []provider.Sport
	grouped := make(map[provider.Sport][]scoring.Recommendation)
	for _, rec := range recs {
		if _, ok := grouped[rec.Sport]; !ok {
			order = append(order, rec.Sport)
		}
		grouped[rec.Sport] = append(grouped[rec.Sport], rec)
	}

	for _, sport := range order {
		group := grouped[sport]
		fmt.Fprintf(b, "\n**%s** (%d picks)\n", sport, len(group))
		shown := group
		if len(shown) > f.picksPerSport {
			shown = shown[:f.picksPerSport]
		}
		for _, rec := range shown {
			b.WriteString(line(rec))
		}
		if rest := len(group) - len(shown); rest > 0 {
			fmt.Fprintf(b, "... and %d more %s picks\n", rest, sport)
		}
	}
}

func (f *Formatter) formatGameLine(rec scoring.Recommendation) string {
	return fmt.Sprintf("• %s: **%s** (%+d) — %.1f/10 | edge %.1f%%\n",
		rec.Market, rec.Pick, rec.Odds, rec.Confidence, rec.ValueEdge*100)
}

func (f *Formatter) formatPropLine(rec scoring.Recommendation) string {
	return fmt.Sprintf("• **%s** — %.1f/10\n", rec.Pick, rec.Confidence)
}

// Summary renders the one-line run summary body.
func (f *Formatter) Summary(games, props int, elapsed time.Duration) string {
	return fmt.Sprintf("Scan complete: %d game picks, %d props in %.1fs",
		games, props, elapsed.Seconds())
}

// Split breaks a message into chunks within the channel limit, splitting
// only at line boundaries whenever one exists. A single line longer than
// the limit is truncated as a last resort.
func (f *Formatter) Split(message string) []string {
	if len(message) <= f.limit {
		return []string{message}
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.Split(message, "\n") {
		needed := len(line)
		if current.Len() > 0 {
			needed++ // joining newline
		}
		if current.Len()+needed > f.limit {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			if len(line) > f.limit {
				chunks = append(chunks, line[:f.limit-3]+"...")
				continue
			}
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
