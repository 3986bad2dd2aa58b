package fm

import (
	"errors"
	"os"

	pkgerrors "github.com/pkg/errors"

	"github.com/ElementialCoder/fmath/source/ast"
	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/lexer"
	"github.com/ElementialCoder/fmath/source/parser"
	"github.com/ElementialCoder/fmath/source/vm"
)

// A Service is a session: a vm whose variables and functions persist from one line to the
// next. This is what the hub talks to, and what the tests use.
type Service struct {
	vm       *vm.Vm
	strict   bool
	filepath string
	source   string     // The code the service was last initialized from.
	errors   err.Errors // Those produced by the last thing the service did.
	lastNode ast.Node
	lastCode vm.Program
}

// Returns a new service.
func NewService() *Service {
	return &Service{vm: vm.New(parser.FunctionTable{}), errors: []*err.Error{}}
}

// In strict mode the lexer doesn't skip over things it doesn't understand.
func (sv *Service) SetStrict(strict bool) {
	sv.strict = strict
}

func (sv *Service) IsStrict() bool {
	return sv.strict
}

// Initializes the service with the source code supplied in the string: the functions are
// defined and the statements, if any, are run.
func (sv *Service) InitializeFromCode(code string) error {
	return sv.initialize("", code)
}

// Initializes the service with the source code supplied in the file indicated by the filepath.
func (sv *Service) InitializeFromFilepath(scriptFilepath string) error {
	sv.errors = []*err.Error{}
	sourcecode, e := GetSourceCode(scriptFilepath)
	if e != nil {
		return e
	}
	sv.filepath = scriptFilepath
	return sv.initialize(scriptFilepath, sourcecode)
}

func (sv *Service) initialize(sourceName, code string) error {
	_, _, e := sv.do(sourceName, code)
	if e == nil {
		sv.source = code
	}
	return e
}

// GetSource returns the code the service was last successfully initialized from.
func (sv *Service) GetSource() string {
	return sv.source
}

func GetSourceCode(scriptFilepath string) (string, error) {
	code, e := os.ReadFile(scriptFilepath)
	if e != nil {
		return "", pkgerrors.Wrapf(e, "can't read source file %s", scriptFilepath)
	}
	return string(code), nil
}

// Once the service is initialized, will interpret the string supplied as though it had
// been entered into the hub. A line with no value, such as a definition or an assignment,
// returns false. Both syntax and run-time errors are returned, and kept for GetErrorReport.
func (sv *Service) Do(line string) (float64, bool, error) {
	return sv.do("REPL input", line)
}

func (sv *Service) do(sourceName, code string) (float64, bool, error) {
	sv.errors = []*err.Error{}
	node, program, functions, ers := sv.compile(sourceName, code)
	if len(ers) > 0 {
		sv.errors = ers
		return 0, false, ers
	}
	sv.vm.Define(functions)
	v, ok, e := sv.vm.Do(program)
	if e != nil {
		var rtErr *err.Error
		if errors.As(e, &rtErr) {
			sv.errors = err.Errors{rtErr}
		}
		return 0, false, e
	}
	sv.lastNode, sv.lastCode = node, program
	return v, ok, nil
}

// The parser works on a copy of the session's function table, so that definitions only
// become part of the session if the whole of the code compiles.
func (sv *Service) compile(sourceName, code string) (ast.Node, vm.Program, parser.FunctionTable, err.Errors) {
	lines, ers := lexer.Tokenize(sourceName, code, sv.strict)
	if len(ers) > 0 {
		return nil, nil, nil, ers
	}
	scratch := parser.FunctionTable{}
	for k, v := range sv.vm.Functions() {
		scratch[k] = v
	}
	p := parser.NewWithFunctions(scratch)
	node := p.ParseLines(lines)
	if p.ErrorsExist() {
		return nil, nil, nil, p.Errors
	}
	program, ers := vm.Compile(node, scratch)
	if len(ers) > 0 {
		return nil, nil, nil, ers
	}
	return node, program, scratch, nil
}

// Compile compiles the line without running it or keeping any definitions it makes.
func (sv *Service) Compile(line string) (ast.Node, vm.Program, error) {
	node, program, _, ers := sv.compile("REPL input", line)
	if len(ers) > 0 {
		return nil, nil, ers
	}
	return node, program, nil
}

// Returns the tree and the code of the last line that ran successfully.
func (sv *Service) Last() (ast.Node, vm.Program) {
	return sv.lastNode, sv.lastCode
}

// Gets the value of a variable given its name.
func (sv *Service) GetVariable(vname string) (float64, bool) {
	return sv.vm.Get(vname)
}

func (sv *Service) SetVariable(vname string, v float64) {
	sv.vm.Set(vname, v)
}

func (sv *Service) Variables() ([]string, []float64) {
	return sv.vm.Vars()
}

func (sv *Service) Functions() parser.FunctionTable {
	return sv.vm.Functions()
}

// Forgets the variables and the functions.
func (sv *Service) Reset() {
	sv.vm = vm.New(parser.FunctionTable{})
	sv.errors = []*err.Error{}
	sv.lastNode, sv.lastCode = nil, nil
}

// Returns `true` if the last thing the service did produced errors, whether runtime
// or compile time.
func (sv *Service) ErrorsExist() bool {
	return len(sv.errors) > 0
}

func (sv *Service) GetErrors() err.Errors {
	return sv.errors
}

// Gets a summary of the errors produced by the last thing the service did, in the form of a
// string that can be passed to text.Pretty for highlighting.
func (sv *Service) GetErrorReport() string {
	return err.GetList(sv.errors)
}

// Provides the answer to `hub why <n>`.
func (sv *Service) ExplainError(i int) (string, error) {
	if i < 0 || i >= len(sv.errors) {
		return "", pkgerrors.Errorf("there is no error number %d", i)
	}
	return err.Explain(sv.errors, i), nil
}

// GetFilepath to the file the service was initialized from, if any.
func (sv *Service) GetFilepath() string {
	return sv.filepath
}
