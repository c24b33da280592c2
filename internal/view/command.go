package view

import (
	"bufio"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

type Action int

const (
	ActionNone Action = iota
	ActionAdvance
	ActionRetreat
	ActionSelect
	ActionQuit
)

// Command is one parsed navigation event.
type Command struct {
	Action Action
	View   ID
}

// ParseCommand maps a key name or word to a command. Digits select by
// position; other words resolve to a view id by exact match, then by fuzzy
// match on ids. Words that resolve to nothing still produce a
// select command so the machine reports the invalid selection.
func ParseCommand(input string, catalogue []Definition) Command {
	word := strings.ToLower(strings.TrimSpace(input))
	switch word {
	case "":
		return Command{Action: ActionNone}
	case "left", "a", "p", "prev":
		return Command{Action: ActionRetreat}
	case "right", "d", "n", "next":
		return Command{Action: ActionAdvance}
	case "q", "escape", "esc", "quit":
		return Command{Action: ActionQuit}
	}

	if pos, err := strconv.Atoi(word); err == nil {
		if pos >= 1 && pos <= len(catalogue) {
			return Command{Action: ActionSelect, View: catalogue[pos-1].ID}
		}
		return Command{Action: ActionSelect, View: ID(word)}
	}

	return Command{Action: ActionSelect, View: resolve(word, catalogue)}
}

func resolve(word string, catalogue []Definition) ID {
	for _, def := range catalogue {
		if string(def.ID) == word {
			return def.ID
		}
	}

	// Titles share words like "Execution" and "Node", so only ids are
	// matched or nearly any word would resolve.
	targets := make([]string, 0, len(catalogue))
	for _, def := range catalogue {
		targets = append(targets, string(def.ID))
	}
	ranks := fuzzy.RankFindFold(word, targets)
	if ranks.Len() == 0 {
		return ID(word)
	}
	sort.Stable(ranks)
	return catalogue[ranks[0].OriginalIndex].ID
}

// Dispatch applies a command and reports whether the user asked to quit.
func (m *Machine) Dispatch(cmd Command) (bool, error) {
	switch cmd.Action {
	case ActionAdvance:
		return false, m.Advance()
	case ActionRetreat:
		return false, m.Retreat()
	case ActionSelect:
		return false, m.Select(cmd.View)
	case ActionQuit:
		return true, nil
	}
	return false, nil
}

// Run renders the current view, then processes one command per input line
// until quit or end of input. Invalid selections are logged and skipped;
// renderer failures stop the loop.
func (m *Machine) Run(r io.Reader, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := m.Start(); err != nil {
		return errors.Trace(err)
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		quit, err := m.Dispatch(ParseCommand(scanner.Text(), m.catalogue))
		if errors.Is(err, ErrInvalidViewSelection) {
			logger.Warn("ignoring selection", "error", err, "current", m.Current().ID)
			continue
		}
		if err != nil {
			return errors.Trace(err)
		}
		if quit {
			return nil
		}
	}
	return errors.Trace(scanner.Err())
}
