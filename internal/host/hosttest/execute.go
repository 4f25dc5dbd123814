package hosttest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	letRegisterPat = regexp.MustCompile(`^let @(.) = "((?:[^"\\]|\\.)*)"$`)
	letVarPat      = regexp.MustCompile(`^let ([gb]:[A-Za-z0-9_]+)=(.*)$`)
	chOpenPat      = regexp.MustCompile(`^let ([gb]:[A-Za-z0-9_]+) = ch_open\('([^']+)', \{'mode': 'json'\}\)$`)
	setposPat      = regexp.MustCompile(`^call setpos\('\.', \[0, (\d+), (\d+), 0\]\)$`)
	normalPat      = regexp.MustCompile(`^execute "(normal!?) (.*)"$`)
	bufferPat      = regexp.MustCompile(`^buffer (\d+)$`)
	splitPat       = regexp.MustCompile(`^(\d*)(v?split)$`)
	setlinePat     = regexp.MustCompile(`^call setline\(1, \[(.*)\]\)$`)
	mapCmdPat      = regexp.MustCompile(`^[a-z]*(?:nore)?map\b`)
	listItemPat    = regexp.MustCompile(`'((?:[^']|'')*)'`)
)

// Execute runs the ex command forms the bridge emits.
func (h *Host) Execute(cmd string) error {
	if err, ok := h.FailOn[cmd]; ok {
		return err
	}
	h.Transcript = append(h.Transcript, cmd)

	switch {
	case cmd == "new":
		b := &Buffer{Num: h.nextBufNum, Name: "[No Name]", Listed: true, Lines: []string{""}}
		h.nextBufNum++
		h.buffers = append(h.buffers, b)
		h.altBuf = h.CurrentBuf().Num
		h.currentBuf = len(h.buffers) - 1
		h.windows = append(h.windows, b.Num)
		h.currentWin = len(h.windows) - 1
		return nil

	case cmd == "%delete _":
		h.CurrentBuf().Lines = nil
		return nil

	case cmd == "autocmd!", cmd == "augroup END":
		h.AutoCmds = append(h.AutoCmds, cmd)
		return nil

	case cmd == "redraw!":
		return nil

	case cmd == "call inputsave()":
		h.inputDepth++
		return nil

	case cmd == "call inputrestore()":
		if h.inputDepth == 0 {
			return fmt.Errorf("E787: inputrestore() called more often than inputsave()")
		}
		h.inputDepth--
		return nil
	}

	if m := letRegisterPat.FindStringSubmatch(cmd); m != nil {
		h.setRegister(m[1], unescapeDouble(m[2]))
		return nil
	}
	if m := letVarPat.FindStringSubmatch(cmd); m != nil {
		h.Vars[m[1]] = parseVarValue(m[2])
		return nil
	}
	if m := chOpenPat.FindStringSubmatch(cmd); m != nil {
		// The channel handle has no textual value; record the address the
		// daemon asked Vim to dial.
		h.Vars[m[1]] = m[2]
		return nil
	}
	if m := setposPat.FindStringSubmatch(cmd); m != nil {
		row, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		h.Cursor = Pos{Row: row, Col: col}
		return nil
	}
	if m := normalPat.FindStringSubmatch(cmd); m != nil {
		h.normal(unescapeDouble(m[2]))
		return nil
	}
	if m := bufferPat.FindStringSubmatch(cmd); m != nil {
		num, _ := strconv.Atoi(m[1])
		return h.switchBuffer(num)
	}
	if m := splitPat.FindStringSubmatch(cmd); m != nil {
		h.windows = append(h.windows, h.CurrentBuf().Num)
		h.currentWin = len(h.windows) - 1
		return nil
	}
	if m := setlinePat.FindStringSubmatch(cmd); m != nil {
		var lines []string
		for _, item := range listItemPat.FindAllStringSubmatch(m[1], -1) {
			lines = append(lines, unescapeSingle(item[1]))
		}
		h.CurrentBuf().Lines = lines
		return nil
	}

	if rest, ok := strings.CutPrefix(cmd, "file "); ok {
		h.CurrentBuf().Name = strings.ReplaceAll(rest, `\ `, " ")
		return nil
	}
	if rest, ok := strings.CutPrefix(cmd, "set "); ok {
		h.applyOption(h.Options, rest)
		return nil
	}
	if rest, ok := strings.CutPrefix(cmd, "setlocal "); ok {
		h.applyOption(h.LocalOptions, rest)
		return nil
	}
	if rest, ok := strings.CutPrefix(cmd, "echom "); ok {
		h.Messages = append(h.Messages, unescapeSingle(strings.Trim(rest, "'")))
		return nil
	}
	if rest, ok := strings.CutPrefix(cmd, "echo "); ok {
		h.Messages = append(h.Messages, unescapeSingle(strings.Trim(rest, "'")))
		return nil
	}
	if strings.HasPrefix(cmd, "iabbrev ") {
		h.Abbrevs = append(h.Abbrevs, cmd)
		return nil
	}
	if strings.HasPrefix(cmd, "augroup ") || strings.HasPrefix(cmd, "autocmd ") || strings.HasPrefix(cmd, "au ") {
		h.AutoCmds = append(h.AutoCmds, cmd)
		return nil
	}
	if mapCmdPat.MatchString(cmd) {
		h.Mappings = append(h.Mappings, cmd)
		return nil
	}

	return fmt.Errorf("hosttest: unsupported command %q", cmd)
}

// applyOption interprets the :set argument grammar subset the bridge emits:
// name=value, name, noname, name!, name&.
func (h *Host) applyOption(opts map[string]string, arg string) {
	switch {
	case strings.Contains(arg, "="):
		name, value, _ := strings.Cut(arg, "=")
		opts[name] = value
	case strings.HasSuffix(arg, "!"):
		name := strings.TrimSuffix(arg, "!")
		if opts[name] == "1" {
			opts[name] = "0"
		} else {
			opts[name] = "1"
		}
	case strings.HasSuffix(arg, "&"):
		delete(opts, strings.TrimSuffix(arg, "&"))
	case strings.HasPrefix(arg, "no"):
		opts[strings.TrimPrefix(arg, "no")] = "0"
	default:
		opts[arg] = "1"
	}
}

// parseVarValue decodes the right-hand side of a :let, either a
// single-quoted string or a bare number.
func parseVarValue(s string) string {
	if strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") && len(s) >= 2 {
		return unescapeSingle(s[1 : len(s)-1])
	}
	return s
}

func unescapeDouble(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}
