package topics

// stopWords is the shared single-word stoplist used to clean noun-phrase
// chunks and to filter umbrella label candidates. It covers function words
// plus filler vocabulary common in short-form video speech.
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "from", "by", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "must", "can", "this", "that",
		"these", "those", "i", "you", "he", "she", "it", "we", "they",
		"my", "your", "his", "her", "its", "our", "their", "me", "him", "them",
		"what", "which", "who", "whom", "about", "into", "through", "during",
		"before", "after", "above", "below", "up", "down", "out", "off",
		"over", "under", "again", "further", "then", "once", "not", "no",
		"just", "like", "really", "very", "too", "so", "such", "make",
		"get", "got", "going", "go", "thing", "things", "people", "person",
		"video", "videos", "watching", "watch", "thank", "thanks",
	}

	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether a single lower-cased word is on the stoplist.
// Exported because umbrella labeling shares the same stoplist.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
