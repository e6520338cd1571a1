package render

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/yegors/skytrack/internal/lookup"
	"github.com/yegors/skytrack/internal/views"
)

// NotAvailable is shown for absent, null or blank values
const NotAvailable = "N/A"

// Outcome is the one block a search page shows below its form
type Outcome string

const (
	OutcomeLoading Outcome = "loading"
	OutcomeError   Outcome = "error"
	OutcomeEmpty   Outcome = "empty"
	OutcomeResults Outcome = "results"
)

// Chrome holds the fields the shared layout reads
type Chrome struct {
	PageTitle string
	Refresh   int // seconds; 0 disables the refresh header
}

// NavLink is one entry of a navigation menu
type NavLink struct {
	Label string
	Href  string
}

// NavGroup is a titled navigation menu
type NavGroup struct {
	Title string
	Links []NavLink
}

// HomePage is the landing page model
type HomePage struct {
	Chrome
	Groups []NavGroup
}

// FormInput is a form field with its current value
type FormInput struct {
	views.Input
	Value string
}

// Line is one "Label: value" row of a card
type Line struct {
	Label string
	Value string
}

// FleetEntry is one aircraft type and count of an airline fleet
type FleetEntry struct {
	Type  string
	Count string
}

// Card is one rendered record
type Card struct {
	LogoURL string
	LogoAlt string
	Lines   []Line
	Fleet   []FleetEntry
	// ShowFleet is set for views with a fleet section, even when it is empty
	ShowFleet bool
}

// SearchPage is the model of a search view
type SearchPage struct {
	Chrome
	View    *views.View
	Inputs  []FormInput
	Outcome Outcome
	Message string
	Cards   []Card
}

// Formatter turns decoded JSON values into display strings
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter that groups digits the English way
func NewFormatter() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.English)}
}

// Value formats v. ok is false, and the text is NotAvailable, when v is
// absent (nil) or a blank string. Zero and false are real values.
func (f *Formatter) Value(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return NotAvailable, false
	case string:
		if strings.TrimSpace(x) == "" {
			return NotAvailable, false
		}
		return x, true
	case float64:
		return f.number(x), true
	case int:
		return f.printer.Sprintf("%d", x), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return NotAvailable, false
		}
		return string(b), true
	}
}

func (f *Formatter) number(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return f.printer.Sprintf("%d", int64(x))
	}
	return f.printer.Sprint(number.Decimal(x, number.MaxFractionDigits(3)))
}

// lookupValue reads a column from a record and formats it
func (f *Formatter) lookupValue(path *lookup.Path, record lookup.Record) (string, bool) {
	v, ok := path.Lookup(record)
	if !ok {
		return NotAvailable, false
	}
	return f.Value(v)
}

// NewSearchPage maps a view's request state to the page model. Idle and
// empty results both show the "no data" notice.
func (f *Formatter) NewSearchPage(view *views.View, state lookup.State, refreshSeconds int) SearchPage {
	page := SearchPage{
		Chrome: Chrome{PageTitle: view.Title},
		View:   view,
		Inputs: make([]FormInput, 0, len(view.Inputs)),
	}
	for _, in := range view.Inputs {
		page.Inputs = append(page.Inputs, FormInput{Input: in, Value: state.Query.Get(in.Name)})
	}

	switch {
	case state.Phase == lookup.PhaseLoading:
		page.Outcome = OutcomeLoading
		page.Refresh = refreshSeconds
	case state.Phase == lookup.PhaseSucceeded && len(state.Records) > 0:
		page.Outcome = OutcomeResults
		page.Cards = f.Cards(view, state.Records)
	case state.Phase == lookup.PhaseFailed && state.Err != nil && !state.IsEmpty():
		page.Outcome = OutcomeError
		page.Message = state.Err.Message
	default:
		page.Outcome = OutcomeEmpty
		page.Message = view.Endpoint.EmptyMessage()
	}

	return page
}

// Cards renders every record with the view's schema, in order
func (f *Formatter) Cards(view *views.View, records []lookup.Record) []Card {
	cards := make([]Card, 0, len(records))
	for _, record := range records {
		card := Card{Lines: make([]Line, 0, len(view.Columns))}
		for _, col := range view.Columns {
			value, _ := f.lookupValue(col.Path, record)
			card.Lines = append(card.Lines, Line{Label: col.Label, Value: value})
		}

		if view.Logo != nil {
			if logo, ok := f.lookupValue(view.Logo, record); ok {
				card.LogoURL = logo
				name, _ := f.lookupValue(view.Columns[0].Path, record)
				card.LogoAlt = name + " logo"
			}
		}

		if view.Fleet != nil {
			card.ShowFleet = true
			card.Fleet = f.fleet(view.Fleet, record)
		}

		cards = append(cards, card)
	}
	return cards
}

// fleet lists every fleet entry except the total, sorted by aircraft type
func (f *Formatter) fleet(path *lookup.Path, record lookup.Record) []FleetEntry {
	v, ok := path.Lookup(record)
	if !ok {
		return nil
	}
	fleet, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	types := make([]string, 0, len(fleet))
	for k := range fleet {
		if k != "total" {
			types = append(types, k)
		}
	}
	sort.Strings(types)

	entries := make([]FleetEntry, 0, len(types))
	for _, k := range types {
		count, _ := f.Value(fleet[k])
		entries = append(entries, FleetEntry{Type: k, Count: count})
	}
	return entries
}
