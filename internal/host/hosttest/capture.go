package hosttest

import (
	"fmt"
	"strings"
)

// CaptureOutput runs a command and returns its printed output. Only the
// commands the bridge captures are supported.
func (h *Host) CaptureOutput(cmd string) (string, error) {
	if err, ok := h.FailOn[cmd]; ok {
		return "", err
	}
	h.Transcript = append(h.Transcript, cmd)

	if cmd == "ls" {
		return h.listBuffers(), nil
	}
	return "", fmt.Errorf("hosttest: unsupported capture command %q", cmd)
}

// listBuffers renders :ls output for the listed buffers.
func (h *Host) listBuffers() string {
	var sb strings.Builder
	for _, b := range h.buffers {
		if !b.Listed {
			continue
		}

		var flags string
		switch {
		case b.Num == h.CurrentBuf().Num:
			flags = "%a"
		case b.Num == h.altBuf:
			flags = "# "
		default:
			flags = "h "
		}

		fmt.Fprintf(&sb, "  %d %s   \"%s\"                    line 1\n", b.Num, flags, b.Name)
	}
	return sb.String()
}
