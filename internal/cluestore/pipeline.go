// Package cluestore turns raw trivia records into playable question sets.
package cluestore

import (
	"encoding/json"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/models"
)

const (
	// CluesPerSet is the number of clues in a playable category
	CluesPerSet = 5
	// ValueStep is the normalized value of the first clue; clue i is worth (i+1)*ValueStep
	ValueStep = 200
)

var htmlTag = regexp.MustCompile(`<[^<]+?>`)

// LoadCorpus decodes a JSON array of clue records
func LoadCorpus(r io.Reader) ([]models.ClueRecord, error) {
	var records []models.ClueRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "malformed corpus")
	}
	return records, nil
}

// Curate runs the full pipeline over records: parse values, clean question
// text, group by (category, air date), stable sort by raw value, normalize
// values and drop every group that is not exactly CluesPerSet long.
// records is not modified.
//
// Sorting by historical value only approximates difficulty; Daily Double
// wagers are stored as the clue value and can land out of place.
func Curate(records []models.ClueRecord) ([]models.QuestionSet, error) {
	clues := make([]models.Clue, len(records))
	for i, rec := range records {
		raw, err := ParseValue(rec.Value)
		if err != nil {
			return nil, errors.MalformedValuef("record %d (%s, %s): unparsable value %q", i, rec.Category, rec.AirDate, rec.Value)
		}
		rec.Question = CleanQuestion(rec.Question)
		clues[i] = models.Clue{ClueRecord: rec, RawValue: raw}
	}

	sets := groupByCategoryAndDate(clues)

	curated := sets[:0]
	for _, set := range sets {
		sort.SliceStable(set, func(i, j int) bool { return set[i].RawValue < set[j].RawValue })
		normalize(set)
		if len(set) == CluesPerSet {
			curated = append(curated, set)
		}
	}
	return curated, nil
}

// ParseValue converts a dollar string such as "$1,000" into an integer.
// The empty string (unanswered Daily Doubles, Final Jeopardy) parses as 0.
func ParseValue(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	digits := strings.NewReplacer("$", "", ",", "").Replace(value)
	return strconv.Atoi(digits)
}

// CleanQuestion strips one enclosing single quote on each side, unescapes
// \' and removes HTML tags.
func CleanQuestion(question string) string {
	question = strings.TrimPrefix(question, "'")
	question = strings.TrimSuffix(question, "'")
	question = strings.ReplaceAll(question, `\'`, "'")
	return htmlTag.ReplaceAllString(question, "")
}

type groupKey struct {
	category string
	airDate  string
}

// groupByCategoryAndDate keeps source order inside each group and orders
// groups by first appearance.
func groupByCategoryAndDate(clues []models.Clue) []models.QuestionSet {
	index := make(map[groupKey]int)
	var sets []models.QuestionSet
	for _, clue := range clues {
		key := groupKey{category: clue.Category, airDate: clue.AirDate}
		i, ok := index[key]
		if !ok {
			i = len(sets)
			index[key] = i
			sets = append(sets, nil)
		}
		sets[i] = append(sets[i], clue)
	}
	return sets
}

func normalize(set models.QuestionSet) {
	for i := range set {
		set[i].NormalizedValue = (i + 1) * ValueStep
	}
}
