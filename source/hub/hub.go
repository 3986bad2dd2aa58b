package hub

import (
	_ "embed"
	"io"
	"sort"
	"strconv"
	"strings"

	"fortio.org/log"
	"src.elv.sh/pkg/persistent/vector"

	"github.com/ElementialCoder/fmath/source/database"
	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/fm"
	"github.com/ElementialCoder/fmath/source/lexer"
	"github.com/ElementialCoder/fmath/source/settings"
	"github.com/ElementialCoder/fmath/source/text"
	"github.com/ElementialCoder/fmath/source/vm"
)

var (
	MARGIN = 84
)

const HISTORY_LENGTH = 20 // How many runs 'hub runs' shows.

type Hub struct {
	hubFilepath string
	cfg         *settings.Config
	sv          *fm.Service
	ers         err.Errors
	peek        bool
	broken      bool // Whether the last line failed, for the benefit of the prompt.
	in          io.Reader
	out         io.Writer
	history     vector.Vector // The values of the lines, oldest first.
	script      []string      // What the session has run successfully, for 'hub save'.
	saveable    int           // How much of the script precedes the last line with a value.
	lastLine    string        // The last line that had a value.
	Db          *database.Store
}

func New(in io.Reader, out io.Writer) *Hub {
	hub := Hub{
		cfg:     settings.DefaultConfig(),
		sv:      fm.NewService(),
		in:      in,
		out:     out,
		history: vector.Empty,
	}
	return &hub
}

// Configure applies the hub file at the given path. A missing file leaves the defaults.
func (hub *Hub) Configure(hubFilepath string) error {
	cfg, e := settings.LoadConfig(hubFilepath)
	if e != nil {
		return e
	}
	hub.hubFilepath = hubFilepath
	hub.cfg = cfg
	hub.sv.SetStrict(cfg.StrictLexer)
	return nil
}

// This takes the input from the REPL, interprets it as a hub command if it begins with 'hub',
// and as fmath to be run in the session otherwise. It returns true if the user wants to quit.
func (hub *Hub) Do(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}

	// We may be talking to the hub itself.

	hubWords := strings.Fields(line)
	if hubWords[0] == "hub" {
		if len(hubWords) == 1 {
			hub.WriteError("you need to say what you want the hub to do.")
			return false
		}
		return hub.DoHubCommand(hubWords[1], hubWords[2:])
	}

	// If hub peek is turned on, this will show us the wheels going round.
	if hub.peek {
		hub.peekAt(line)
	}

	v, ok, e := hub.sv.Do(line)
	if e != nil {
		hub.broken = true
		hub.ers = hub.sv.GetErrors()
		if len(hub.ers) == 0 {
			hub.WriteError(e.Error())
			return false
		}
		hub.WritePretty(err.GetList(hub.ers))
		return false
	}
	hub.broken = false
	if !ok {
		hub.script = append(hub.script, line)
		hub.WriteString(text.OK + "\n")
		return false
	}
	hub.lastLine = line
	hub.saveable = len(hub.script)
	hub.script = append(hub.script, "var "+settings.ANSWER+" = "+line)
	hub.sv.SetVariable(settings.ANSWER, v)
	hub.history = hub.history.Conj(v)
	hub.WriteString(fm.Format(v) + "\n")
	return false
}

func (hub *Hub) peekAt(line string) {
	lines, _ := lexer.Tokenize("REPL input", line, hub.sv.IsStrict())
	for _, l := range lines {
		for _, tok := range l {
			hub.WriteString(text.BULLET + text.DescribeTok(&tok) + "\n")
		}
	}
	node, program, e := hub.sv.Compile(line)
	if e != nil {
		return
	}
	hub.WriteString("\n" + node.String() + "\n\n")
	hub.WriteString(vm.Describe(program) + "\n")
}

func (hub *Hub) DoHubCommand(verb string, args []string) bool {
	log.LogVf("hub command %s %v", verb, args)
	switch verb {
	case "errors":
		if len(hub.ers) == 0 {
			hub.WritePretty("There are no recent errors.")
			return false
		}
		hub.WritePretty(err.GetList(hub.ers))
		return false
	case "functions":
		functions := hub.sv.Functions()
		if len(functions) == 0 {
			hub.WriteString("You haven't defined any functions.\n")
			return false
		}
		hub.WriteString("\n")
		for _, name := range functions.Names() {
			hub.WriteString(text.BULLET + functions.Describe(name) + "\n")
		}
		hub.WriteString("\n")
		return false
	case "help":
		topic := "hub"
		if len(args) > 0 {
			topic = args[0]
		}
		if helpMessage, ok := helpStrings[topic]; ok {
			hub.WritePretty(helpMessage + "\n")
			return false
		}
		hub.WriteError("the 'hub help' command doesn't accept " +
			"'" + topic + "' as a parameter.")
		return false
	case "history":
		if hub.history.Len() == 0 {
			hub.WriteString("There's no history yet.\n")
			return false
		}
		hub.WriteString("\n")
		for i := 0; i < hub.history.Len(); i++ {
			v, _ := hub.history.Index(i)
			hub.WriteString("  [" + strconv.Itoa(i) + "] " + fm.Format(v.(float64)) + "\n")
		}
		hub.WriteString("\n")
		return false
	case "list":
		if !hub.hasDatabase() {
			return false
		}
		names, e := database.ListPrograms(hub.Db)
		if e != nil {
			hub.WriteError(e.Error())
			return false
		}
		if len(names) == 0 {
			hub.WriteString("There are no saved programs.\n")
			return false
		}
		hub.WriteString("\n")
		for _, name := range names {
			hub.WriteString(text.BULLET + name + "\n")
		}
		hub.WriteString("\n")
		return false
	case "load":
		if !hub.needsArgs(verb, args, 1) {
			return false
		}
		if e := hub.sv.InitializeFromFilepath(args[0]); e != nil {
			hub.ers = hub.sv.GetErrors()
			if len(hub.ers) == 0 {
				hub.WriteError(e.Error())
				return false
			}
			hub.WritePretty(err.GetList(hub.ers))
			return false
		}
		hub.script = append(hub.script, hub.sv.GetSource())
		hub.WriteString(text.OK + "\n")
		return false
	case "peek":
		hub.setSwitch(verb, args, &hub.peek)
		return false
	case "quit":
		hub.quit()
		return true
	case "reset":
		hub.sv.Reset()
		hub.history = vector.Empty
		hub.script = nil
		hub.saveable = 0
		hub.lastLine = ""
		hub.ers = nil
		hub.WriteString(text.OK + "\n")
		return false
	case "run":
		if !hub.needsArgs(verb, args, 1) || !hub.hasDatabase() {
			return false
		}
		hub.runSaved(args[0])
		return false
	case "runs":
		if !hub.needsArgs(verb, args, 1) || !hub.hasDatabase() {
			return false
		}
		runs, e := database.RunHistory(hub.Db, args[0], HISTORY_LENGTH)
		if e != nil {
			hub.WriteError(e.Error())
			return false
		}
		if len(runs) == 0 {
			hub.WriteString(text.Emph(args[0]) + " has never been run.\n")
			return false
		}
		hub.WriteString("\n")
		for _, run := range runs {
			bullet, outcome := text.GOOD_BULLET, fm.Format(run.Result)
			if run.Error != "" {
				bullet, outcome = text.BROKEN, text.Red(run.Error)
			}
			hub.WriteString(bullet + run.Created.Format("2006-01-02 15:04:05") + " : " + outcome + "\n")
		}
		hub.WriteString("\n")
		return false
	case "save":
		if !hub.needsArgs(verb, args, 1) || !hub.hasDatabase() {
			return false
		}
		hub.save(args[0])
		return false
	case "strict":
		var strict bool
		if hub.setSwitch(verb, args, &strict) {
			return false
		}
		hub.sv.SetStrict(strict)
		hub.cfg.StrictLexer = strict
		return false
	case "vars":
		names, values := hub.sv.Variables()
		if len(names) == 0 {
			hub.WriteString("There are no variables.\n")
			return false
		}
		hub.WriteString("\n")
		for i, name := range names {
			if name == settings.SCRATCH {
				continue
			}
			hub.WriteString(text.BULLET + name + " = " + fm.Format(values[i]) + "\n")
		}
		hub.WriteString("\n")
		return false
	case "why":
		num := 0
		if len(args) > 0 {
			var e error
			num, e = strconv.Atoi(args[0])
			if e != nil {
				hub.WriteError("the 'why' keyword takes the number of an error as a parameter.")
				return false
			}
		}
		if num < 0 || num >= len(hub.ers) {
			hub.WriteError("there aren't that many errors.")
			return false
		}
		explanation := err.Explain(hub.ers, num)
		hub.WritePretty("\n" + text.ERROR + hub.ers[num].Message + ".\n\n" + explanation + "\n")
		refLine := "Error has reference '" + hub.ers[num].ErrorId + "'."
		refLine = "\n" + strings.Repeat(" ", max(MARGIN-len(refLine)-2, 0)) + refLine
		hub.WritePretty(refLine)
		hub.WriteString("\n")
		return false
	}
	hub.WriteError("the hub doesn't know what " + text.Emph(verb) + " means. Try 'hub help'.")
	return false
}

// setSwitch handles the 'on' and 'off' of a verb like 'peek'. It returns true if it failed.
func (hub *Hub) setSwitch(verb string, args []string, b *bool) bool {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		hub.WriteError("'hub " + verb + "' should be followed by 'on' or 'off'.")
		return true
	}
	*b = args[0] == "on"
	hub.WriteString(text.OK + "\n")
	return false
}

func (hub *Hub) needsArgs(verb string, args []string, n int) bool {
	if len(args) != n {
		hub.WriteError("'hub " + verb + "' takes " + strconv.Itoa(n) + " parameter.")
		return false
	}
	return true
}

// Opens the database named in the hub file the first time it's needed.
func (hub *Hub) hasDatabase() bool {
	if hub.Db != nil {
		return true
	}
	db, e := database.Open(hub.cfg.Database)
	if e != nil {
		hub.WriteError("can't open the database: " + e.Error())
		return false
	}
	if e := database.Migrate(db); e != nil {
		db.Close()
		hub.WriteError(e.Error())
		return false
	}
	hub.Db = db
	return true
}

// The saved program is everything the session ran successfully up to the last line that had a
// value, which comes last. Earlier lines with values are kept as assignments to 'ans', so that
// lines using it mean the same thing.
func (hub *Hub) save(name string) {
	if hub.lastLine == "" {
		hub.WriteError("there's nothing to save: evaluate an expression first.")
		return
	}
	source := strings.Join(append(append([]string{}, hub.script[:hub.saveable]...), hub.lastLine), "\n")
	program, _, e := fm.Compile(source)
	if e != nil {
		hub.WriteError("can't compile the program to save: " + e.Error())
		return
	}
	if e := database.SaveProgram(hub.Db, name, source, program); e != nil {
		hub.WriteError(e.Error())
		return
	}
	hub.WriteString(text.OK + "\n")
}

func (hub *Hub) runSaved(name string) {
	source, program, e := database.LoadProgram(hub.Db, name)
	if e != nil {
		hub.WriteError(e.Error())
		return
	}
	functions, e := fm.ParseFunctions(source)
	if e != nil {
		hub.WriteError(e.Error())
		return
	}
	v, runErr := fm.Execute(program, functions)
	if e := database.RecordRun(hub.Db, name, v, runErr); e != nil {
		log.Warnf("Couldn't record run of %s: %v", name, e)
	}
	if runErr != nil {
		hub.WritePretty("\n" + text.RT_ERROR + runErr.Error() + "\n")
		return
	}
	hub.WriteString(fm.Format(v) + "\n")
}

func (hub *Hub) quit() {
	if hub.hubFilepath != "" {
		if e := settings.SaveConfig(hub.hubFilepath, hub.cfg); e != nil {
			log.Warnf("Couldn't save hub file: %v", e)
		}
	}
	if hub.Db != nil {
		hub.Db.Close()
	}
	hub.WriteString(text.OK + "\n" + text.Logo() + "Thank you for using fmath. Have a nice day!\n\n")
}

func (hub *Hub) WritePretty(s string) {
	hub.WriteString(text.Pretty(s, 0, hub.cfg.Width))
}

func (hub *Hub) WriteError(s string) {
	hub.WritePretty("\n" + text.HUB_ERROR + s)
	hub.WriteString("\n")
}

func (hub *Hub) WriteString(s string) {
	io.WriteString(hub.out, s)
}

//go:embed helpfile.txt
var helpfile string

var helpStrings = map[string]string{}

var helpTopics = []string{}

func init() {
	var helpMessage []string
	for _, v := range strings.Split(helpfile+"\n***", "\n") {
		v = strings.TrimRight(v, " \r")
		if v == "***" {
			if len(helpMessage) > 0 {
				helpTopics = append(helpTopics, strings.TrimSpace(helpMessage[0]))
				helpStrings[strings.TrimSpace(helpMessage[0])] = strings.Join(helpMessage[1:], "\n")
			}
			helpMessage = []string{}
		} else {
			helpMessage = append(helpMessage, v)
		}
	}
	helpStrings["database"] = helpStrings["database"] + "\n" + database.GetDriverOptions()
	sort.Strings(helpTopics)
	helpStringForHelp := "\nYou can get help on a subject by typing 'hub help <topic name>' into the REPL.\n\n" +
		"Help topics are: \n\n"
	for _, v := range helpTopics {
		helpStringForHelp = helpStringForHelp + text.BULLET + v + "\n"
	}
	helpStrings["topics"] = helpStringForHelp
}
