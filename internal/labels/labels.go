// Package labels maps DailyDialog integer codes to their names.
package labels

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrUnknownCode is returned when a code is not part of a label table.
var ErrUnknownCode = errors.New("unknown label code")

var topics = map[string]string{
	"1":  "Ordinary Life",
	"2":  "School Life",
	"3":  "Culture_Education",
	"4":  "Attitude_Emotion",
	"5":  "Relationship",
	"6":  "Tourism",
	"7":  "Health",
	"8":  "Work",
	"9":  "Politics",
	"10": "Finance",
}

var actions = map[string]string{
	"1": "inform",
	"2": "question",
	"3": "directive",
	"4": "commissive",
}

var emotions = map[int]string{
	0: "no emotion",
	1: "anger",
	2: "disgust",
	3: "fear",
	4: "happiness",
	5: "sadness",
	6: "surprise",
}

// Entry is one code/name pair of a label table.
type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ConvertTopic returns the topic name for a code "1".."10".
func ConvertTopic(code string) (string, error) {
	name, ok := topics[code]
	if !ok {
		return "", fmt.Errorf("topic %q: %w", code, ErrUnknownCode)
	}
	return name, nil
}

// ConvertAction returns the dialogue-act name for a code "1".."4".
func ConvertAction(code string) (string, error) {
	name, ok := actions[code]
	if !ok {
		return "", fmt.Errorf("act %q: %w", code, ErrUnknownCode)
	}
	return name, nil
}

// EmotionName returns the emotion name for a code 0..6.
func EmotionName(code int) (string, error) {
	name, ok := emotions[code]
	if !ok {
		return "", fmt.Errorf("emotion %d: %w", code, ErrUnknownCode)
	}
	return name, nil
}

// Topics lists the topic table ordered by numeric code.
func Topics() []Entry {
	return entries(topics)
}

// Actions lists the act table ordered by numeric code.
func Actions() []Entry {
	return entries(actions)
}

// Emotions lists the emotion table ordered by code.
func Emotions() []Entry {
	out := make([]Entry, 0, len(emotions))
	for code, name := range emotions {
		out = append(out, Entry{Code: strconv.Itoa(code), Name: name})
	}
	sortByCode(out)
	return out
}

func entries(table map[string]string) []Entry {
	out := make([]Entry, 0, len(table))
	for code, name := range table {
		out = append(out, Entry{Code: code, Name: name})
	}
	sortByCode(out)
	return out
}

// Codes are numeric strings, so "10" sorts after "9".
func sortByCode(es []Entry) {
	sort.Slice(es, func(i, j int) bool {
		a, _ := strconv.Atoi(es[i].Code)
		b, _ := strconv.Atoi(es[j].Code)
		return a < b
	})
}
