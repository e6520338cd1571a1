package lookup

// Placement says where the API credential travels on the request
type Placement int

const (
	// InHeader sends the credential as a request header (api-ninjas)
	InHeader Placement = iota
	// InQuery sends the credential as a query parameter (aviationstack)
	InQuery
)

// Credential is an API key and how to attach it
type Credential struct {
	Placement Placement
	Name      string // header or query parameter name
	Value     string
}

// Endpoint describes one upstream search API as used by a view
type Endpoint struct {
	// Noun names the data in user messages, e.g. "aircraft" in
	// "No aircraft data found".
	Noun       string
	URL        string
	Credential Credential
	// Fields are the query parameter names, in form order.
	Fields []string
	// Unwrap is applied to the decoded body before the array check.
	// Nil means the body itself must be the array.
	Unwrap *Path
	// ValidationMessage is shown when every field is blank.
	ValidationMessage string
}

// EmptyMessage is shown when the response holds no records
func (e Endpoint) EmptyMessage() string {
	return "No " + e.Noun + " data found"
}
