package analyzer

// Symbol is the dense integer stand-in for one categorical feature value.
// IDs are only meaningful inside the corpus that assigned them.
type Symbol int32

// SymbolTable interns the values of a single feature channel.
// IDs are handed out in first-seen order starting at 0 and are never
// reassigned or removed.
type SymbolTable struct {
	ids    map[string]Symbol
	values []string
}

// NewSymbolTable creates an empty symbol table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		ids: make(map[string]Symbol),
	}
}

// Intern returns the symbol for value, assigning the next ID if unseen
func (t *SymbolTable) Intern(value string) Symbol {
	if id, ok := t.ids[value]; ok {
		return id
	}
	id := Symbol(len(t.values))
	t.ids[value] = id
	t.values = append(t.values, value)
	return id
}

// Lookup returns the symbol for value without inserting it
func (t *SymbolTable) Lookup(value string) (Symbol, bool) {
	id, ok := t.ids[value]
	return id, ok
}

// Value returns the original string for a symbol
func (t *SymbolTable) Value(id Symbol) (string, bool) {
	if id < 0 || int(id) >= len(t.values) {
		return "", false
	}
	return t.values[id], true
}

// Len returns the number of distinct values seen so far
func (t *SymbolTable) Len() int {
	return len(t.values)
}
