package label

import "strings"

// ApplyModelQuirks patches an already-generated command string with
// vendor-specific workarounds, matched by model name substring. The command
// is rewritten as text; quirks never inspect protocol structure.
func ApplyModelQuirks(model string, cmd string) string {
	m := strings.ToLower(model)

	// MUNBYN ITPP941 ignores the first GAP after power-on unless it is
	// repeated before PRINT.
	if strings.Contains(m, "itpp941") {
		if idx := strings.LastIndex(cmd, "PRINT "); idx >= 0 {
			cmd = cmd[:idx] + "GAP 3 mm,0 mm\n" + cmd[idx:]
		}
	}

	// Generic thermal printers stop with the last label under the head;
	// feed past the tear bar.
	if strings.Contains(m, "thermal") || strings.Contains(m, "generic") {
		cmd += "FEED 80\n"
	}

	return cmd
}
