package domain

import "time"

// CardState is the lifecycle of a dashboard card for one framework.
type CardState string

const (
	CardLoading   CardState = "loading"
	CardPopulated CardState = "populated"
	CardEmpty     CardState = "empty"
	CardErrored   CardState = "errored"
)

// Rendered folds Errored into Empty; the distinction only survives in logs.
func (s CardState) Rendered() CardState {
	if s == CardErrored {
		return CardEmpty
	}
	return s
}

type ToneColor string

const (
	ToneRed    ToneColor = "red"
	ToneOrange ToneColor = "orange"
	ToneYellow ToneColor = "yellow"
	ToneGreen  ToneColor = "green"
)

// Tone is the percentage-to-color bucket of a progress bar.
type Tone struct {
	Color    ToneColor `json:"color"`
	Complete bool      `json:"complete"`
}

type FrameworkCard struct {
	Progress    AggregatedProgress `json:"progress"`
	Terminology Terminology        `json:"terminology"`
	ClauseTone  Tone               `json:"clause_tone"`
	AnnexTone   Tone               `json:"annex_tone"`
	State       CardState          `json:"state"`
}

type Dashboard struct {
	ProjectID   int             `json:"project_id"`
	Cards       []FrameworkCard `json:"cards"`
	GeneratedAt time.Time       `json:"generated_at"`
}
