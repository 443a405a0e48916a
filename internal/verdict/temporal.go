package verdict

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/verifact/verifact/internal/llm"
	"github.com/verifact/verifact/internal/model"
)

// nowFunc can be overridden in tests
var nowFunc = time.Now

const cutoffNotice = llm.TimeWindowMarker + "The claim appears to depend on events after the model's training cutoff, and no strong external evidence was found. Treat this as NEEDS_REVIEW rather than a confirmed fact."

const outdatedWarning = llm.TimeWindowMarker + `This explanation appears to rely on outdated model knowledge (for example, treating a past election as if it is still in the future). The model's training data likely stops before this event. Treat this as: "The model cannot reliably verify this claim with its current training window."`

// applyTemporalOverride enforces the training-window contract on a temporal
// claim that lacks strong evidence: the verdict cannot stay OK, the flags
// must say why, and the first reason must carry the time-window marker.
// Pseudo-sources injected by the degradation fallback are links to run a
// search, not evidence, so they do not count as strong here.
func applyTemporalOverride(proof *model.Proof, temporal bool) {
	if !temporal || hasStrongSource(proof.Sources) {
		return
	}

	proof.Flags.FutureEvent = true
	proof.Flags.OutdatedModel = true

	if len(proof.Reasons) == 0 {
		proof.Reasons = []string{cutoffNotice}
	} else if !strings.HasPrefix(proof.Reasons[0], llm.TimeWindowMarker) {
		proof.Reasons = append([]string{cutoffNotice}, proof.Reasons...)
	}

	if proof.Verdict == "" || proof.Verdict == model.VerdictOK {
		proof.Verdict = model.VerdictNeedsReview
	}
	if proof.Confidence > 0.9 {
		proof.Confidence = 0.85
	}
}

func hasStrongSource(sources []model.EvidenceSource) bool {
	for _, s := range sources {
		if s.Type != model.SourceFallback {
			return true
		}
	}
	return false
}

var reasonYearRe = regexp.MustCompile(`20\d{2}`)

// futurePhrases mark reasoning that treats an event as still pending
var futurePhrases = []string{
	"has not yet occurred",
	"has not yet happened",
	"hasn't happened yet",
	"will take place",
	"is scheduled to take place",
	"is expected to occur",
	"upcoming election",
}

// patchOutdatedReasons catches the classic stale-model failure: a reason
// names a past year but phrases the event as still in the future. The
// verdict is forced to NEEDS_REVIEW with an abstain and a prepended caveat.
func patchOutdatedReasons(proof *model.Proof) {
	outdated := false
	for _, reason := range proof.Reasons {
		m := reasonYearRe.FindString(reason)
		if m == "" {
			continue
		}
		year, err := strconv.Atoi(m)
		if err != nil || year >= nowFunc().Year() {
			continue
		}

		lower := strings.ToLower(reason)
		for _, phrase := range futurePhrases {
			if strings.Contains(lower, phrase) {
				outdated = true
				break
			}
		}
		if outdated {
			break
		}
	}

	if !outdated {
		return
	}

	proof.Abstain = true
	proof.Verdict = model.VerdictNeedsReview
	proof.Flags.OutdatedModel = true
	proof.Reasons = append([]string{outdatedWarning}, proof.Reasons...)
}
