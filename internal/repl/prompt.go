package repl

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// confirmPrompt asks a yes/no question on the terminal, defaulting to
// "no" on Ctrl+C or any prompt error. Non-interactive sessions (`-i`)
// always answer yes so scripted input isn't blocked on a prompt that
// will never be answered.
func confirmPrompt(r *REPL, label string) bool {
	if !r.Options.Interactive {
		return true
	}
	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [y/N]", label),
		IsConfirm: true,
	}
	result, err := p.Run()
	if err != nil {
		return false
	}
	return result == "y" || result == "Y" || result == "yes"
}
