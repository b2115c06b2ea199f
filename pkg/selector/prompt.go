package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// ErrNotTerminal is returned when the prompt cannot talk to a user.
var ErrNotTerminal = errors.New("interactive selection requires a terminal")

// MaxShown caps the number of ranked matches listed by the prompt.
const MaxShown = 30

// PromptSelector is a line-based fallback for when fzf is unavailable. The user
// types a fuzzy query, then picks from the ranked matches by number.
type PromptSelector struct {
	In         io.Reader
	Out        io.Writer
	IsTerminal func() bool
}

func (s *PromptSelector) Select(ctx context.Context, candidates []string) ([]string, error) {
	if s.IsTerminal != nil && !s.IsTerminal() {
		return nil, ErrNotTerminal
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	r := bufio.NewReader(s.In)
	fmt.Fprintf(s.Out, "%d files. Filter (blank for all): ", len(candidates))
	query, err := readLine(ctx, r)
	if err != nil {
		return nil, err
	}

	matches := rank(query, candidates)
	if len(matches) == 0 {
		fmt.Fprintln(s.Out, "No matches.")
		return nil, nil
	}

	shown := matches
	if len(shown) > MaxShown {
		shown = shown[:MaxShown]
	}
	for i, m := range shown {
		fmt.Fprintf(s.Out, "%3d  %s\n", i+1, m)
	}
	if len(matches) > len(shown) {
		fmt.Fprintf(s.Out, "     ... and %d more\n", len(matches)-len(shown))
	}
	fmt.Fprint(s.Out, "Select (e.g. 1 3 5-7, a for all matches, blank to cancel): ")

	answer, err := readLine(ctx, r)
	if err != nil {
		return nil, err
	}
	return choose(answer, matches, len(shown))
}

// rank orders candidates by fuzzy score. A blank query keeps every candidate in
// its original order.
func rank(query string, candidates []string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]string(nil), candidates...)
	}
	return lo.Map(fuzzy.Find(query, candidates), func(m fuzzy.Match, _ int) string {
		return m.Str
	})
}

// choose parses a selection answer. Numbers refer to the first shown matches.
func choose(answer string, matches []string, shown int) ([]string, error) {
	answer = strings.TrimSpace(answer)
	switch answer {
	case "":
		return nil, nil
	case "a", "A", "all":
		return matches, nil
	}

	var picked []int
	for _, field := range strings.FieldsFunc(answer, func(r rune) bool { return r == ' ' || r == ',' }) {
		start, end, err := parseRange(field)
		if err != nil {
			return nil, err
		}
		if start < 1 || end > shown || start > end {
			return nil, fmt.Errorf("selection %q out of range 1-%d", field, shown)
		}
		for i := start; i <= end; i++ {
			picked = append(picked, i-1)
		}
	}

	return lo.Map(lo.Uniq(picked), func(i int, _ int) string { return matches[i] }), nil
}

func parseRange(field string) (int, int, error) {
	from, to, isRange := strings.Cut(field, "-")
	start, err := strconv.Atoi(from)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection %q", field)
	}
	if !isRange {
		return start, start, nil
	}
	end, err := strconv.Atoi(to)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection %q", field)
	}
	return start, end, nil
}

// readLine reads one line, giving up when ctx is done. The reading goroutine is
// abandoned in that case; it ends when the input is closed.
func readLine(ctx context.Context, r *bufio.Reader) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := r.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return "", res.err
		}
		return strings.TrimRight(res.line, "\r\n"), nil
	}
}
