package service

import "strings"

const readingWordsPerMinute = 200

// EstimateReadingTime returns the estimated minutes needed to read body.
// Words are the non-empty tokens produced by splitting on whitespace runs;
// the result is the word count divided by 200, rounded up. An empty body
// estimates to zero minutes; a single word already costs one minute.
func EstimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	return (words + readingWordsPerMinute - 1) / readingWordsPerMinute
}
