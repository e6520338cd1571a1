// Package views defines the four search views: their form inputs, the
// upstream endpoint each one queries and the fixed card schema it renders.
package views

import (
	"strings"

	"github.com/yegors/skytrack/internal/config"
	"github.com/yegors/skytrack/internal/lookup"
)

const (
	// referenceKeyHeader carries the api-ninjas key
	referenceKeyHeader = "X-Api-Key"
	// trackingKeyParam carries the aviationstack key
	trackingKeyParam = "access_key"

	manufacturerOrModel = "Please enter at least one search term (manufacturer or model)."
)

// Provider identifies which upstream API, and so which HTTP client, a view uses
type Provider string

const (
	ProviderReference      Provider = "reference"
	ProviderFlightTracking Provider = "flight_tracking"
)

// Input is one text field of a view's search form
type Input struct {
	Name        string
	Label       string
	Placeholder string
}

// Column is one labelled line of a result card
type Column struct {
	Label string
	Path  *lookup.Path
}

// View is a search page
type View struct {
	Slug           string // route path segment, e.g. "aircraft"
	Title          string
	ResultsHeading string
	Inputs         []Input
	Columns        []Column

	// Logo and Fleet are only set for airlines
	Logo  *lookup.Path
	Fleet *lookup.Path

	Provider Provider
	Endpoint lookup.Endpoint
}

// Registry holds the views in navigation order
type Registry struct {
	views  []*View
	bySlug map[string]*View
}

// All returns every view
func (r *Registry) All() []*View {
	return r.views
}

// Get returns the view with the given slug
func (r *Registry) Get(slug string) (*View, bool) {
	v, ok := r.bySlug[slug]
	return v, ok
}

// New builds the four views against the configured providers
func New(reference, flightTracking config.ProviderConfig) *Registry {
	refKey := lookup.Credential{Placement: lookup.InHeader, Name: referenceKeyHeader, Value: reference.APIKey}
	trackKey := lookup.Credential{Placement: lookup.InQuery, Name: trackingKeyParam, Value: flightTracking.APIKey}

	all := []*View{
		aircraftView(joinURL(reference.BaseURL, "aircraft"), refKey),
		helicopterView(joinURL(reference.BaseURL, "helicopter"), refKey),
		airlineView(joinURL(reference.BaseURL, "airlines"), refKey),
		flightView(joinURL(flightTracking.BaseURL, "flights"), trackKey),
	}

	r := &Registry{views: all, bySlug: make(map[string]*View, len(all))}
	for _, v := range all {
		r.bySlug[v.Slug] = v
	}
	return r
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + path
}

// columns builds a schema from label/jq-path pairs
func columns(pairs ...string) []Column {
	cols := make([]Column, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		cols = append(cols, Column{Label: pairs[i], Path: lookup.MustCompilePath(pairs[i+1])})
	}
	return cols
}

func inputNames(inputs []Input) []string {
	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	return names
}

var manufacturerModelInputs = []Input{
	{Name: "manufacturer", Label: "Manufacturer", Placeholder: "Enter manufacturer"},
	{Name: "model", Label: "Model", Placeholder: "Enter model"},
}

func aircraftView(url string, key lookup.Credential) *View {
	return &View{
		Slug:           "aircraft",
		Title:          "Aircraft Search",
		ResultsHeading: "Aircraft Details",
		Inputs:         manufacturerModelInputs,
		Columns: columns(
			"Manufacturer", ".manufacturer",
			"Model", ".model",
			"Engine Type", ".engine_type",
			"Engine Thrust (lb/ft)", ".engine_thrust_lb_ft",
			"Max Speed (knots)", ".max_speed_knots",
			"Cruise Speed (knots)", ".cruise_speed_knots",
			"Ceiling (ft)", ".ceiling_ft",
			"Takeoff Ground Run (ft)", ".takeoff_ground_run_ft",
			"Landing Ground Roll (ft)", ".landing_ground_roll_ft",
			"Gross Weight (lbs)", ".gross_weight_lbs",
			"Empty Weight (lbs)", ".empty_weight_lbs",
			"Length (ft)", ".length_ft",
			"Height (ft)", ".height_ft",
			"Wing Span (ft)", ".wing_span_ft",
			"Range (nautical miles)", ".range_nautical_miles",
		),
		Provider: ProviderReference,
		Endpoint: lookup.Endpoint{
			Noun:              "aircraft",
			URL:               url,
			Credential:        key,
			Fields:            inputNames(manufacturerModelInputs),
			ValidationMessage: manufacturerOrModel,
		},
	}
}

func helicopterView(url string, key lookup.Credential) *View {
	return &View{
		Slug:           "helicopter",
		Title:          "Helicopter Search",
		ResultsHeading: "Helicopter Details",
		Inputs:         manufacturerModelInputs,
		Columns: columns(
			"Manufacturer", ".manufacturer",
			"Model", ".model",
			"Max Speed (Knots)", ".max_speed_sl_knots",
			"Cruise Speed (Knots)", ".cruise_speed_sl_knots",
			"VNE Speed (Knots)", ".vne_speed_knots",
			"Range (Nautical Miles)", ".range_nautical_miles",
			"Fuel Consumption (Gallons/Hour)", ".fuel_consumption_gallons_pr_hr",
			"Fuel Capacity (Gallons)", ".fuel_capacity_gallons",
			"External Load Limit (lbs)", ".external_load_limit_lbs",
			"Main Rotor Diameter (ft)", ".main_rotor_diameter_ft",
			"Number of Blades", ".num_blades",
			"Blade Material", ".blade_material",
			"Rotor Type", ".rotor_type",
			"Storage Width (ft)", ".storage_width_ft",
			"Length (ft)", ".length_ft",
			"Height (ft)", ".height_ft",
		),
		Provider: ProviderReference,
		Endpoint: lookup.Endpoint{
			Noun:              "helicopter",
			URL:               url,
			Credential:        key,
			Fields:            inputNames(manufacturerModelInputs),
			ValidationMessage: manufacturerOrModel,
		},
	}
}

func airlineView(url string, key lookup.Credential) *View {
	inputs := []Input{
		{Name: "name", Label: "Airline Name", Placeholder: "Enter airline name"},
	}
	return &View{
		Slug:           "airline",
		Title:          "Airline Search",
		ResultsHeading: "Airline Details",
		Inputs:         inputs,
		Columns: columns(
			"Name", ".name",
			"IATA Code", ".iata",
			"ICAO Code", ".icao",
			"Total Fleet", ".fleet.total",
		),
		Logo:     lookup.MustCompilePath(".logo_url"),
		Fleet:    lookup.MustCompilePath(".fleet"),
		Provider: ProviderReference,
		Endpoint: lookup.Endpoint{
			Noun:              "airline",
			URL:               url,
			Credential:        key,
			Fields:            inputNames(inputs),
			ValidationMessage: "Please enter an airline name.",
		},
	}
}

func flightView(url string, key lookup.Credential) *View {
	inputs := []Input{
		{Name: "flight_iata", Label: "Flight Number (IATA Code)", Placeholder: "Enter flight number (e.g., DL8696)"},
	}
	return &View{
		Slug:           "track",
		Title:          "Flight Search",
		ResultsHeading: "Flight Details",
		Inputs:         inputs,
		Columns: columns(
			"Flight Number", ".flight.iata",
			"Departure Airport", ".departure.airport",
			"Arrival Airport", ".arrival.airport",
			"Departure Time", ".departure.estimated",
			"Arrival Time", ".arrival.estimated",
			"Aircraft Type", ".aircraft.model",
			"Flight Status", ".flight_status",
		),
		Provider: ProviderFlightTracking,
		Endpoint: lookup.Endpoint{
			Noun:              "flight",
			URL:               url,
			Credential:        key,
			Fields:            inputNames(inputs),
			Unwrap:            lookup.MustCompilePath(".data"),
			ValidationMessage: "Please enter a flight number.",
		},
	}
}
