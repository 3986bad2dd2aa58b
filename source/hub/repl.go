package hub

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/lmorg/readline"

	"github.com/ElementialCoder/fmath/source/lexer"
	"github.com/ElementialCoder/fmath/source/text"
	"github.com/ElementialCoder/fmath/source/token"
)

// StartHub runs the REPL until the user quits or the input runs out. On the terminal we use
// readline; anything else is read a line at a time without a prompt.
func StartHub(hub *Hub) {
	if hub.in != os.Stdin {
		scanner := bufio.NewScanner(hub.in)
		for scanner.Scan() {
			if hub.Do(scanner.Text()) {
				return
			}
		}
		return
	}
	rline := readline.NewInstance()
	rline.TabCompleter = hub.TabCompleter
	for {
		rline.SetPrompt(makePrompt(hub))
		line, e := rline.Readline()
		if e != nil {
			hub.quit()
			return
		}
		if hub.Do(line) {
			return
		}
	}
}

func makePrompt(hub *Hub) string {
	promptText := text.PROMPT
	if hub.sv.IsStrict() {
		promptText = "strict " + promptText
	}
	if hub.broken {
		promptText = text.Red(promptText)
	}
	return promptText
}

var hubVerbs = []string{"errors", "functions", "help", "history", "list", "load", "peek",
	"quit", "reset", "run", "runs", "save", "strict", "vars", "why"}

// TabCompleter completes the word before the cursor: after 'hub' it offers the verbs, and
// otherwise the special functions, the keywords, and the session's functions and variables.
func (hub *Hub) TabCompleter(line []rune, pos int, dtx readline.DelayedTabContext) (string, []string, map[string]string, readline.TabDisplayType) {
	start := pos
	for start > 0 && lexer.IsIdentifierRune(line[start-1]) {
		start--
	}
	word := string(line[start:pos])
	before := strings.Fields(string(line[:start]))
	suggestions := []string{}
	for _, candidate := range hub.candidates(len(before) == 1 && before[0] == "hub") {
		if strings.HasPrefix(candidate, word) {
			suggestions = append(suggestions, candidate[len(word):])
		}
	}
	return word, suggestions, nil, readline.TabDisplayGrid
}

func (hub *Hub) candidates(afterHub bool) []string {
	if afterHub {
		return hubVerbs
	}
	result := append(token.FunctionNames(), token.Keywords()...)
	result = append(result, "hub")
	result = append(result, hub.sv.Functions().Names()...)
	names, _ := hub.sv.Variables()
	result = append(result, names...)
	sort.Strings(result)
	return result
}
