package verification

import (
	"strings"
	"unicode/utf8"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/verification"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/vision"
)

const (
	// ConfidenceThreshold is the minimum averaged label score for a
	// photo to pass, on top of a keyword match.
	ConfidenceThreshold = 0.6

	// confidenceLabelCount is how many of the top labels feed the
	// averaged confidence.
	confidenceLabelCount = 5

	maxStoredAnnotations = 10
	maxStoredTextLength  = 2000
)

// constructionKeywords mark a label or object as construction related.
// Matching is a case-insensitive substring check, so "construction
// worker" matches "worker".
var constructionKeywords = []string{
	"construction",
	"building",
	"architecture",
	"road",
	"bridge",
	"worker",
	"worksite",
	"crane",
	"excavator",
	"concrete",
	"scaffold",
}

// Classification is the outcome of the plausibility heuristic over one
// vision annotation.
type Classification struct {
	Pass          bool
	Status        verification.Status
	Confidence    float64
	Labels        []string
	Objects       []string
	ExtractedText string
}

// Classify applies the plausibility heuristic: the photo passes when at
// least one label or object matches a construction keyword and the
// averaged top-label confidence clears the threshold.
func Classify(annotation *vision.Annotation) Classification {
	matched := false
	for _, label := range annotation.Labels {
		if matchesKeyword(label.Description) {
			matched = true
			break
		}
	}
	if !matched {
		for _, obj := range annotation.Objects {
			if matchesKeyword(obj.Name) {
				matched = true
				break
			}
		}
	}

	confidence := averageTopLabelScore(annotation.Labels)
	pass := matched && confidence >= ConfidenceThreshold

	status := verification.StatusHighRisk
	if pass {
		status = verification.StatusOnTrack
	}

	return Classification{
		Pass:          pass,
		Status:        status,
		Confidence:    confidence,
		Labels:        labelDescriptions(annotation.Labels),
		Objects:       objectNames(annotation.Objects),
		ExtractedText: truncate(annotation.FullText, maxStoredTextLength),
	}
}

func matchesKeyword(s string) bool {
	lowered := strings.ToLower(s)
	for _, keyword := range constructionKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// averageTopLabelScore averages the scores of the first labels in the
// order the vision service returned them, clamped to [0, 1].
func averageTopLabelScore(labels []vision.Label) float64 {
	top := labels
	if len(top) > confidenceLabelCount {
		top = top[:confidenceLabelCount]
	}
	if len(top) == 0 {
		return 0
	}

	var sum float64
	for _, label := range top {
		sum += label.Score
	}
	avg := sum / float64(len(top))

	if avg < 0 {
		return 0
	}
	if avg > 1 {
		return 1
	}
	return avg
}

func labelDescriptions(labels []vision.Label) []string {
	out := []string{}
	for _, label := range labels {
		if len(out) == maxStoredAnnotations {
			break
		}
		out = append(out, label.Description)
	}
	return out
}

func objectNames(objects []vision.Object) []string {
	out := []string{}
	for _, obj := range objects {
		if len(out) == maxStoredAnnotations {
			break
		}
		out = append(out, obj.Name)
	}
	return out
}

// truncate cuts on a rune boundary so OCR text with multi-byte
// characters never becomes invalid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
