package output

// GenerateOutput is the JSON form of a generate run.
type GenerateOutput struct {
	Mode        string       `json:"mode"`
	Files       []string     `json:"files"`
	FuncName    string       `json:"func_name,omitempty"`
	Entities    int          `json:"entities,omitempty"`
	Included    int          `json:"included,omitempty"`
	Skipped     int          `json:"skipped,omitempty"`
	Groups      int          `json:"groups,omitempty"`
	EnumEntries int          `json:"enum_entries,omitempty"`
	Warnings    []Diagnostic `json:"warnings"`
	DurationMS  int64        `json:"duration_ms"`
}

// Diagnostic is one warning with its JSON pointer.
type Diagnostic struct {
	Pointer string `json:"pointer"`
	Message string `json:"message"`
}

// InspectOutput is the JSON form of an inspect run.
type InspectOutput struct {
	Included   int             `json:"included"`
	Filtered   int             `json:"filtered"`
	Signatures []SignatureInfo `json:"signatures"`
	Skipped    []SkippedInfo   `json:"skipped"`
	Enums      []EnumEntryInfo `json:"enums,omitempty"`
}

// SignatureInfo is one signature class.
type SignatureInfo struct {
	Signature string   `json:"signature"`
	Functions []string `json:"functions"`
}

// SkippedInfo is a function left out of the invocation table.
type SkippedInfo struct {
	Function string `json:"function"`
	Reason   string `json:"reason"`
}

// EnumEntryInfo is one row of the identifier table.
type EnumEntryInfo struct {
	Hash   uint32 `json:"hash"`
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}
