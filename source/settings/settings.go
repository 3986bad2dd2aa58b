// All this does is contain in one place the constants controlling which bits of the inner workings of the
// lexer/parser/compiler/vm are displayed for debugging purposes. In a release the SHOW_* flags must all be
// set to false.

package settings

const (
	// These do what it sounds like.
	SHOW_LEXER    = false
	SHOW_PARSER   = false
	SHOW_COMPILER = false
	SHOW_RUNTIME  = false // Logs each instruction at the verbose level as it executes.

	SHOW_TESTS = false // Says whether the tests should say what is being tested, useful if one of them crashes and we don't know which.
)

const (
	SOURCE_EXTENSION   = ".mth"
	COMPILED_EXTENSION = ".mthc"

	// The scratch variable into which a statement's unwanted value is discarded.
	SCRATCH = "_tmp"

	// The name the hub binds the last result to.
	ANSWER = "ans"

	CACHE_BUCKET = "programs"
)

// The most iterations a 'sum' or 'product' may perform. A variable so that tests can lower it.
var MAX_LOOP_ITERATIONS = 10_000_000
