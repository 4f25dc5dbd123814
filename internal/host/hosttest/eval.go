package hosttest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	existsPattern = regexp.MustCompile(`^exists\('([^']+)'\)$`)
	searchPattern = regexp.MustCompile(`^search\('((?:[^']|'')*)', '([wWb]+)'(?:, (\d+))?\)$`)
	expandPattern = regexp.MustCompile(`^expand\('((?:[^']|'')*)'\)$`)
	buflistedPat  = regexp.MustCompile(`^buflisted\((\d+)\)$`)
	bufwinnrPat   = regexp.MustCompile(`^bufwinnr\((\d+)\)$`)
	winbufnrPat   = regexp.MustCompile(`^winbufnr\((\d+)\)$`)
	getbuflinePat = regexp.MustCompile(`^join\(getbufline\((\d+), 1, '\$'\), "\\n"\)$`)
	inputPattern  = regexp.MustCompile(`^input\('((?:[^']|'')*)'\)$`)
)

// Eval evaluates the expression forms the bridge emits.
func (h *Host) Eval(expr string) (string, error) {
	if err, ok := h.FailOn[expr]; ok {
		return "", err
	}
	h.Evals = append(h.Evals, expr)

	switch {
	case expr == "mode(1)":
		return h.ModeStr, nil

	case expr == "mapleader":
		val, ok := h.Vars["g:mapleader"]
		if !ok {
			return "", fmt.Errorf("E121: undefined variable: mapleader")
		}
		return val, nil

	case expr == "line('.')":
		return strconv.Itoa(h.Cursor.Row), nil

	case expr == "line('$')":
		return strconv.Itoa(len(h.CurrentBuf().Lines)), nil

	case expr == "getpos('.')":
		return fmt.Sprintf("[0, %d, %d, 0]", h.Cursor.Row, h.Cursor.Col), nil

	case expr == "getpos('v')":
		return fmt.Sprintf("[0, %d, %d, 0]", h.selStart.Row, h.selStart.Col), nil

	case expr == "bufnr('%')":
		return strconv.Itoa(h.CurrentBuf().Num), nil

	case expr == "bufnr('$')":
		max := 0
		for _, b := range h.buffers {
			if b.Num > max {
				max = b.Num
			}
		}
		return strconv.Itoa(max), nil

	case expr == "winnr()":
		return strconv.Itoa(h.currentWin + 1), nil

	case expr == "winnr('$')":
		return strconv.Itoa(len(h.windows)), nil

	case strings.HasPrefix(expr, "@"):
		return h.Registers[strings.TrimPrefix(expr, "@")], nil

	case strings.HasPrefix(expr, "&"):
		name := strings.TrimPrefix(expr, "&")
		if val, ok := h.LocalOptions[name]; ok {
			return val, nil
		}
		return h.Options[name], nil

	case strings.HasPrefix(expr, "g:"), strings.HasPrefix(expr, "b:"):
		val, ok := h.Vars[expr]
		if !ok {
			return "", fmt.Errorf("E121: undefined variable: %s", expr)
		}
		return val, nil
	}

	if m := existsPattern.FindStringSubmatch(expr); m != nil {
		if _, ok := h.Vars[m[1]]; ok {
			return "1", nil
		}
		return "0", nil
	}
	if m := searchPattern.FindStringSubmatch(expr); m != nil {
		stopline := 0
		if m[3] != "" {
			stopline, _ = strconv.Atoi(m[3])
		}
		return h.search(unescapeSingle(m[1]), m[2], stopline), nil
	}
	if m := expandPattern.FindStringSubmatch(expr); m != nil {
		return h.Expansions[unescapeSingle(m[1])], nil
	}
	if m := buflistedPat.FindStringSubmatch(expr); m != nil {
		num, _ := strconv.Atoi(m[1])
		if b := h.bufferByNum(num); b != nil && b.Listed {
			return "1", nil
		}
		return "0", nil
	}
	if m := bufwinnrPat.FindStringSubmatch(expr); m != nil {
		num, _ := strconv.Atoi(m[1])
		for i, b := range h.windows {
			if b == num {
				return strconv.Itoa(i + 1), nil
			}
		}
		return "-1", nil
	}
	if m := winbufnrPat.FindStringSubmatch(expr); m != nil {
		win, _ := strconv.Atoi(m[1])
		if win < 1 || win > len(h.windows) {
			return "-1", nil
		}
		return strconv.Itoa(h.windows[win-1]), nil
	}
	if m := getbuflinePat.FindStringSubmatch(expr); m != nil {
		num, _ := strconv.Atoi(m[1])
		b := h.bufferByNum(num)
		if b == nil {
			return "", nil
		}
		return strings.Join(b.Lines, "\n"), nil
	}
	if inputPattern.MatchString(expr) {
		return h.InputResponse, nil
	}

	return "", fmt.Errorf("hosttest: unsupported expression %q", expr)
}

// search scans the current buffer for a plain-text occurrence of pat,
// honoring the flag subset the bridge uses: w/W wrap, b backwards. A
// non-zero stopline limits the scan to that line. Returns the matching line
// number as text, "0" for no match; the cursor moves to the match.
func (h *Host) search(pat, flags string, stopline int) string {
	lines := h.CurrentBuf().Lines
	wrap := strings.Contains(flags, "w")
	backward := strings.Contains(flags, "b")

	match := func(row int, fromCol int) (int, bool) {
		if row < 1 || row > len(lines) {
			return 0, false
		}
		line := lines[row-1]
		if fromCol > 0 {
			if fromCol > len(line) {
				return 0, false
			}
			idx := strings.Index(line[fromCol:], pat)
			if idx < 0 {
				return 0, false
			}
			return fromCol + idx + 1, true
		}
		idx := strings.Index(line, pat)
		if idx < 0 {
			return 0, false
		}
		return idx + 1, true
	}

	if stopline > 0 {
		if col, ok := match(h.Cursor.Row, h.Cursor.Col); ok {
			h.Cursor = Pos{Row: h.Cursor.Row, Col: col}
			return strconv.Itoa(h.Cursor.Row)
		}
		return "0"
	}

	rows := searchOrder(h.Cursor.Row, len(lines), backward, wrap)
	for i, row := range rows {
		fromCol := 0
		if i == 0 && !backward {
			fromCol = h.Cursor.Col
		}
		if col, ok := match(row, fromCol); ok {
			h.Cursor = Pos{Row: row, Col: col}
			return strconv.Itoa(row)
		}
	}
	return "0"
}

// searchOrder yields the row visit order for a search starting at row.
func searchOrder(start, total int, backward, wrap bool) []int {
	var rows []int
	if backward {
		for r := start - 1; r >= 1; r-- {
			rows = append(rows, r)
		}
		if wrap {
			for r := total; r >= start; r-- {
				rows = append(rows, r)
			}
		}
		return rows
	}
	for r := start; r <= total; r++ {
		rows = append(rows, r)
	}
	if wrap {
		for r := 1; r < start; r++ {
			rows = append(rows, r)
		}
	}
	return rows
}

func unescapeSingle(s string) string {
	return strings.ReplaceAll(s, "''", "'")
}
