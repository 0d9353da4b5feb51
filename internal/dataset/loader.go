// Package dataset reads DailyDialog splits into aligned dialogue records.
package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rcliao/dialogshift/internal/model"
)

// TurnDelimiter separates utterances on a dialogue line.
const TurnDelimiter = "__eou__"

// ValidSplits are the dataset partitions that can be loaded.
var ValidSplits = map[string]bool{
	"train":      true,
	"validation": true,
	"test":       true,
}

var (
	ErrUnknownSplit  = errors.New("unknown split")
	ErrMalformedLine = errors.New("malformed label line")
	ErrUnevenFiles   = errors.New("split files have different line counts")
)

const maxLineSize = 1 << 20

// Options configures loading.
type Options struct {
	BaseDir string
	// Strict turns a file-level line count mismatch into ErrUnevenFiles.
	Strict bool
	Logger *slog.Logger
}

// Paths holds the three files of a split.
type Paths struct {
	Dialogues string `json:"dialogues"`
	Emotions  string `json:"emotions"`
	Actions   string `json:"actions"`
}

// Rejection records a dialogue dropped because its sequences disagree in length.
type Rejection struct {
	Line       int `json:"line"`
	Utterances int `json:"utterances"`
	Emotions   int `json:"emotions"`
	Actions    int `json:"actions"`
}

// Truncation reports lines left unread after the shortest file ended.
type Truncation struct {
	Dialogues int `json:"dialogues"`
	Emotions  int `json:"emotions"`
	Actions   int `json:"actions"`
}

// Result is the output of Load.
type Result struct {
	Split     string           `json:"split"`
	Paths     Paths            `json:"paths"`
	Lines     int              `json:"lines"`
	Dialogues []model.Dialogue `json:"dialogues"`
	Rejected  []Rejection      `json:"rejected,omitempty"`
	Truncated *Truncation      `json:"truncated,omitempty"`
}

// SplitPaths returns the file paths of split under baseDir.
func SplitPaths(baseDir, split string) (Paths, error) {
	if !ValidSplits[split] {
		return Paths{}, fmt.Errorf("%w %q (valid: train, validation, test)", ErrUnknownSplit, split)
	}
	dir := filepath.Join(baseDir, split)
	return Paths{
		Dialogues: filepath.Join(dir, "dialogues_"+split+".txt"),
		Emotions:  filepath.Join(dir, "dialogues_emotion_"+split+".txt"),
		Actions:   filepath.Join(dir, "dialogues_act_"+split+".txt"),
	}, nil
}

// Load reads the three files of split in lockstep and builds one record per line.
// Lines whose utterance, emotion and act counts disagree are left out of
// Result.Dialogues and listed in Result.Rejected.
func Load(ctx context.Context, opts Options, split string) (*Result, error) {
	paths, err := SplitPaths(opts.BaseDir, split)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dial, err := os.Open(paths.Dialogues)
	if err != nil {
		return nil, fmt.Errorf("open dialogues: %w", err)
	}
	defer dial.Close()
	emo, err := os.Open(paths.Emotions)
	if err != nil {
		return nil, fmt.Errorf("open emotions: %w", err)
	}
	defer emo.Close()
	act, err := os.Open(paths.Actions)
	if err != nil {
		return nil, fmt.Errorf("open actions: %w", err)
	}
	defer act.Close()

	dialSc, emoSc, actSc := newScanner(dial), newScanner(emo), newScanner(act)
	res := &Result{Split: split, Paths: paths, Dialogues: []model.Dialogue{}}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		okD, okE, okA := dialSc.Scan(), emoSc.Scan(), actSc.Scan()
		if !okD || !okE || !okA {
			if err := firstErr(dialSc.Err(), emoSc.Err(), actSc.Err()); err != nil {
				return nil, fmt.Errorf("read %s: %w", split, err)
			}
			if okD || okE || okA {
				trunc, err := drain(dialSc, emoSc, actSc, okD, okE, okA)
				if err != nil {
					return nil, fmt.Errorf("read %s: %w", split, err)
				}
				res.Truncated = trunc
			}
			break
		}
		res.Lines++

		utterances := SplitTurns(dialSc.Text())
		emotions, err := parseCodes(emoSc.Text())
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(paths.Emotions), res.Lines, err)
		}
		actions, err := parseCodes(actSc.Text())
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(paths.Actions), res.Lines, err)
		}

		d := model.Dialogue{Utterances: utterances, Emotions: emotions, Actions: actions}
		if !d.Aligned() {
			res.Rejected = append(res.Rejected, Rejection{
				Line:       res.Lines,
				Utterances: len(utterances),
				Emotions:   len(emotions),
				Actions:    len(actions),
			})
			continue
		}
		res.Dialogues = append(res.Dialogues, d)
	}

	if len(res.Rejected) > 0 {
		logger.Info("dropped misaligned dialogues", "split", split, "count", len(res.Rejected))
	}
	if res.Truncated != nil {
		logger.Warn("split files have different line counts; stopped at the shortest",
			"split", split, "lines", res.Lines,
			"extra_dialogues", res.Truncated.Dialogues,
			"extra_emotions", res.Truncated.Emotions,
			"extra_actions", res.Truncated.Actions)
		if opts.Strict {
			return nil, fmt.Errorf("%s: %w (read %d lines)", split, ErrUnevenFiles, res.Lines)
		}
	}
	return res, nil
}

// SplitTurns splits a dialogue line on TurnDelimiter and drops the trailing segment.
func SplitTurns(line string) []string {
	parts := strings.Split(line, TurnDelimiter)
	parts = parts[:len(parts)-1]
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func parseCodes(line string) ([]int, error) {
	fields := strings.Fields(line)
	codes := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d %q", ErrMalformedLine, i+1, f)
		}
		codes[i] = n
	}
	return codes, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return sc
}

// drain counts the lines remaining in the scanners that still had input.
func drain(dial, emo, act *bufio.Scanner, okD, okE, okA bool) (*Truncation, error) {
	count := func(sc *bufio.Scanner, had bool) (int, error) {
		if !had {
			return 0, nil
		}
		n := 1
		for sc.Scan() {
			n++
		}
		return n, sc.Err()
	}
	var t Truncation
	var err error
	if t.Dialogues, err = count(dial, okD); err != nil {
		return nil, err
	}
	if t.Emotions, err = count(emo, okE); err != nil {
		return nil, err
	}
	if t.Actions, err = count(act, okA); err != nil {
		return nil, err
	}
	return &t, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
