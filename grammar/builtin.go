package grammar

// BuiltinTerminals are the terminals every grammar may reference without
// redeclaring them: three user-visible named terminals (integer,
// identifier, real) plus the implicit single-character-class terminals.
// A user terminal of the same name, appended later
// by Load, shadows the corresponding entry here because FindTerminal
// searches the table from the end backwards.
var BuiltinTerminals = []TerminalRule{
	{Name: "integer", Pattern: `[-|+]?\d+`},
	{Name: "identifier", Pattern: `[_a-zA-Z][_a-zA-Z0-9]*`},
	{Name: "real", Pattern: `[+|-]?\d+(\.\d+)?`},

	{Name: "alnum", Pattern: `[a-zA-Z0-9]`},
	{Name: "digit", Pattern: `[0-9]`},
	{Name: "alpha", Pattern: `[a-zA-Z]`},
	{Name: "space", Pattern: `\s`},
	{Name: "hexDigit", Pattern: `[0-9a-fA-F]`},
	{Name: "octDigit", Pattern: `[0-7]`},
	{Name: "eof", Pattern: `$`},
	{Name: "newLine", Pattern: `\n`},
	{Name: "any", Pattern: `(?s).`},
}
