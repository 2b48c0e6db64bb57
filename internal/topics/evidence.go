package topics

import (
	"strings"

	"github.com/creatorlens/topic-engine/internal/core/domain"
)

const (
	// evidenceExcerptMaxChars bounds the stored excerpt per evidence entry.
	evidenceExcerptMaxChars = 150

	// fallbackEvidenceLimit caps the naive-split scan when no sentence
	// timestamps are available.
	fallbackEvidenceLimit = 5
)

// FindEvidence collects every sentence whose normalized text contains the
// phrase as a substring. When no timestamped sentence list exists the
// transcript is split naively on '.' and evidence entries carry 0.0 sentinel
// timestamps; such evidence still counts as evidence, only its timing is
// unknown.
func FindEvidence(phrase string, sentences []domain.TranscriptSentence, transcript string) []domain.TopicEvidence {
	needle := NormalizePhrase(phrase)
	if needle == "" {
		return nil
	}

	if len(sentences) > 0 {
		evidence := make([]domain.TopicEvidence, 0, 4)

		for i, sent := range sentences {
			if !containsPhrase(sent.Text, needle) {
				continue
			}

			idx := sent.Index
			if idx == 0 && i > 0 {
				idx = i
			}

			evidence = append(evidence, domain.TopicEvidence{
				SentenceIndex: idx,
				StartTime:     sent.StartTime,
				EndTime:       sent.EndTime,
				Text:          truncateExcerpt(sent.Text),
			})
		}

		return evidence
	}

	if transcript == "" {
		return nil
	}

	evidence := make([]domain.TopicEvidence, 0, fallbackEvidenceLimit)

	for idx, raw := range strings.Split(transcript, ".") {
		sent := strings.TrimSpace(raw)
		if sent == "" || !containsPhrase(sent, needle) {
			continue
		}

		evidence = append(evidence, domain.TopicEvidence{
			SentenceIndex: idx,
			StartTime:     0.0, // timing unknown without sentence timestamps
			EndTime:       0.0,
			Text:          truncateExcerpt(sent),
		})

		if len(evidence) >= fallbackEvidenceLimit {
			break
		}
	}

	return evidence
}

// containsPhrase matches by substring over normalized text. Inflection
// mismatches between phrase and sentence are not bridged; see the calibrator
// notes before changing this, since matching semantics feed evidence counts
// and therefore confidence.
func containsPhrase(sentence, normalizedPhrase string) bool {
	return strings.Contains(NormalizePhrase(sentence), normalizedPhrase)
}

// truncateExcerpt caps the excerpt at evidenceExcerptMaxChars characters.
// Counting runes, not bytes, so a multibyte sentence never gets cut mid-rune.
func truncateExcerpt(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= evidenceExcerptMaxChars {
		return text
	}

	runes := []rune(text)
	if len(runes) <= evidenceExcerptMaxChars {
		return text
	}

	return string(runes[:evidenceExcerptMaxChars])
}
