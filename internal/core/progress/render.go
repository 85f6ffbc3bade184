package progress

import "github.com/kirillkom/framework-progress/internal/core/domain"

// Progress-bar thresholds. Product-decision constants pending confirmation
// from the domain owners; do not re-derive.
const (
	toneRedBelow    = 30
	toneOrangeBelow = 60
	toneYellowBelow = 85
)

// ToneFor buckets a completion percentage into a progress-bar color.
// 100% is the terminal check-mark state.
func ToneFor(pct int) domain.Tone {
	pct = clampPercent(pct)
	tone := domain.Tone{Complete: pct == 100}
	switch {
	case pct < toneRedBelow:
		tone.Color = domain.ToneRed
	case pct < toneOrangeBelow:
		tone.Color = domain.ToneOrange
	case pct < toneYellowBelow:
		tone.Color = domain.ToneYellow
	default:
		tone.Color = domain.ToneGreen
	}
	return tone
}

// StateOf resolves the card lifecycle once every fetch has settled.
func StateOf(p domain.AggregatedProgress, attempted, failed int) domain.CardState {
	switch {
	case attempted > 0 && failed >= attempted:
		return domain.CardErrored
	case p.IsEmpty():
		return domain.CardEmpty
	default:
		return domain.CardPopulated
	}
}

// BuildCard is a pure function of the aggregate and its state.
func BuildCard(p domain.AggregatedProgress, state domain.CardState) domain.FrameworkCard {
	return domain.FrameworkCard{
		Progress:    p,
		Terminology: TerminologyFor(p.Family),
		ClauseTone:  ToneFor(p.ClauseRatios.CompletionPct),
		AnnexTone:   ToneFor(p.AnnexRatios.CompletionPct),
		State:       state.Rendered(),
	}
}
