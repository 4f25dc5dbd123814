package hosttest

// normal interprets the normal-mode key sequences the bridge feeds. Unknown
// sequences are ignored; the transcript still records the command that
// carried them.
func (h *Host) normal(keys string) {
	switch keys {
	case "v":
		h.enterVisual("v")
	case "V":
		h.enterVisual("V")
	case "gv":
		h.reselect()
	case `\<esc>`:
		h.escape()
	case `\<esc>gv`:
		h.escape()
		h.reselect()
	case `\<esc>gvy`:
		h.escape()
		h.reselect()
		h.setRegister("0", h.VisualText)
		h.escapeToNormal()
	case `"0yiw`:
		h.setRegister("0", h.CurrentWord)
	case `"0diw`:
		h.setRegister("0", h.CurrentWord)
		h.CurrentWord = ""
	case `viw"0p`:
		h.CurrentWord = h.Registers["0"]
	case `yi"`:
		h.setRegister("0", h.DoubleQuoted)
	case `yi'`:
		h.setRegister("0", h.SingleQuoted)
	case "gvd":
		h.reselect()
		h.setRegister(`"`, h.VisualText)
		h.VisualText = ""
		h.escapeToNormal()
	case `"aP`:
		h.VisualText = h.Registers["a"]
	case "`>":
		h.Cursor = h.lastSelEnd
	}
}

func (h *Host) enterVisual(mode string) {
	h.ModeStr = mode
	h.selStart = h.Cursor
	h.selEnd = h.Cursor
}

// reselect re-enters the last visual mode with the last selection, the gv
// behavior.
func (h *Host) reselect() {
	mode := h.lastVisualMode
	if mode == "" {
		mode = "v"
	}
	h.ModeStr = mode
	h.selStart = h.lastSelStart
	h.selEnd = h.lastSelEnd
}

// escape leaves visual mode, remembering the selection for gv.
func (h *Host) escape() {
	if h.ModeStr == "v" || h.ModeStr == "V" || h.ModeStr == "\x16" {
		h.lastVisualMode = h.ModeStr
		h.lastSelStart = h.selStart
		h.lastSelEnd = h.selEnd
	}
	h.ModeStr = "n"
}

// escapeToNormal leaves visual mode without updating the gv selection; used
// for operators like y and d that drop back to normal mode themselves.
func (h *Host) escapeToNormal() {
	h.ModeStr = "n"
}
