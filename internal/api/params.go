package api

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Opt is a value that is either present or absent. Request intents use it so
// that a field the caller never mentioned is left out of the request instead
// of being sent as an empty value.
type Opt[T any] struct {
	value T
	set   bool
}

// Some returns a present Opt.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// None returns an absent Opt.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value is present.
func (o Opt[T]) IsSet() bool {
	return o.set
}

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// Ref points at a customer, project, service or user by id or by name.
// Names must be resolved to ids (Client.ResolveRef) before a request is built.
type Ref struct {
	ID   int
	Name string
}

// ByID references an entity by its server id.
func ByID(id int) *Ref {
	return &Ref{ID: id}
}

// ByName references an entity by its human-readable name.
func ByName(name string) *Ref {
	return &Ref{Name: name}
}

func (r *Ref) String() string {
	if r == nil {
		return "(none)"
	}
	if r.ID != 0 {
		return strconv.Itoa(r.ID)
	}
	return strconv.Quote(r.Name)
}

// Params is the flat parameter set sent to the API. Values are string, int
// or nil; nil is an explicit null.
type Params map[string]any

// Values encodes p for a query string or form body. Nulls become empty values.
func (p Params) Values() url.Values {
	v := url.Values{}
	for k, val := range p {
		switch x := val.(type) {
		case nil:
			v.Set(k, "")
		case string:
			v.Set(k, x)
		case int:
			v.Set(k, strconv.Itoa(x))
		default:
			v.Set(k, fmt.Sprint(x))
		}
	}
	return v
}

var refTerms = map[string]bool{
	"customer": true,
	"project":  true,
	"service":  true,
	"user":     true,
}

// paramBuilder collects fields into Params, optionally nesting every key as
// prefix[key] for list filters.
type paramBuilder struct {
	params Params
	prefix string
	err    error
}

func newParams() *paramBuilder {
	return &paramBuilder{params: Params{}}
}

func newFilter(prefix string) *paramBuilder {
	return &paramBuilder{params: Params{}, prefix: prefix}
}

func (b *paramBuilder) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return b.prefix + "[" + name + "]"
}

func (b *paramBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// ref emits <term>s_id for an entity reference, or null for a nil reference.
func (b *paramBuilder) ref(term string, o Opt[*Ref]) {
	r, ok := o.Get()
	if !ok {
		return
	}
	if !refTerms[term] {
		b.fail(fmt.Errorf("unknown reference %q", term))
		return
	}
	k := b.key(term + "s_id")
	if r == nil {
		b.params[k] = nil
		return
	}
	if r.ID == 0 {
		b.fail(fmt.Errorf("%s %s has not been resolved to an id", term, r))
		return
	}
	b.params[k] = r.ID
}

func (b *paramBuilder) str(name string, o Opt[string]) {
	if v, ok := o.Get(); ok {
		b.params[b.key(name)] = v
	}
}

func (b *paramBuilder) number(name string, o Opt[int]) {
	if v, ok := o.Get(); ok {
		b.params[b.key(name)] = v
	}
}

func (b *paramBuilder) flag(name string, o Opt[bool]) {
	if v, ok := o.Get(); ok {
		b.params[b.key(name)] = boolParam(v)
	}
}

func (b *paramBuilder) timestamp(name string, o Opt[time.Time]) {
	if v, ok := o.Get(); ok {
		b.params[b.key(name)] = FormatTimestamp(v)
	}
}

func (b *paramBuilder) amount(name string, o Opt[decimal.Decimal]) {
	if v, ok := o.Get(); ok {
		b.params[b.key(name)] = v.String()
	}
}

func (b *paramBuilder) billable(o Opt[Billable]) {
	if v, ok := o.Get(); ok {
		if !v.Valid() {
			b.fail(fmt.Errorf("invalid billable value %d", v))
			return
		}
		b.params[b.key("billable")] = int(v)
	}
}

func (b *paramBuilder) page(page int) {
	if page > 0 {
		b.params["page"] = page
	}
}

func (b *paramBuilder) build() (Params, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.params, nil
}

func boolParam(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// ClockStart describes a clock to start. Customer and Service are required,
// as is exactly one of Text and TextID.
type ClockStart struct {
	Customer Opt[*Ref]
	Project  Opt[*Ref]
	Service  Opt[*Ref]
	Text     Opt[string]
	TextID   Opt[int]
	Billable Opt[Billable]
}

// Params builds the POST /v2/clock parameters.
func (s ClockStart) Params() (Params, error) {
	if c, ok := s.Customer.Get(); !ok || c == nil {
		return nil, &ConstructionError{Entity: "clock", Reason: "a customer is required"}
	}
	if sv, ok := s.Service.Get(); !ok || sv == nil {
		return nil, &ConstructionError{Entity: "clock", Reason: "a service is required"}
	}
	if err := checkText("clock", s.Text, s.TextID); err != nil {
		return nil, err
	}

	b := newParams()
	b.ref("customer", s.Customer)
	b.ref("project", s.Project)
	b.ref("service", s.Service)
	b.str("text", s.Text)
	b.number("texts_id", s.TextID)
	b.billable(s.Billable)
	return b.build()
}

func checkText(entity string, text Opt[string], textID Opt[int]) error {
	if text.IsSet() == textID.IsSet() {
		return &ConstructionError{Entity: entity, Reason: "exactly one of text or texts_id must be given"}
	}
	return nil
}

// EntryEdit is a partial update of an entry or of the running clock.
// Only fields that are set are sent; a set nil reference clears it.
type EntryEdit struct {
	Customer   Opt[*Ref]
	Project    Opt[*Ref]
	Service    Opt[*Ref]
	User       Opt[*Ref]
	Text       Opt[string]
	TextID     Opt[int]
	Billable   Opt[Billable]
	TimeSince  Opt[time.Time]
	TimeUntil  Opt[time.Time]
	LumpSum    Opt[decimal.Decimal]
	HourlyRate Opt[decimal.Decimal]
}

// Params builds the PUT parameters for the edit.
func (e EntryEdit) Params() (Params, error) {
	b := newParams()
	b.ref("customer", e.Customer)
	b.ref("project", e.Project)
	b.ref("service", e.Service)
	b.ref("user", e.User)
	b.str("text", e.Text)
	b.number("texts_id", e.TextID)
	b.billable(e.Billable)
	b.timestamp("time_since", e.TimeSince)
	b.timestamp("time_until", e.TimeUntil)
	b.amount("lumpsum", e.LumpSum)
	b.amount("hourly_rate", e.HourlyRate)
	return b.build()
}

// IsEmpty reports whether the edit changes nothing.
func (e EntryEdit) IsEmpty() bool {
	p, err := e.Params()
	return err == nil && len(p) == 0
}

// CustomerFilter narrows a customer listing.
type CustomerFilter struct {
	Active Opt[bool]
}

// Params builds the query for one page; page 0 lets the server pick.
func (f CustomerFilter) Params(page int) (Params, error) {
	b := newFilter("filter")
	b.flag("active", f.Active)
	b.page(page)
	return b.build()
}

// ProjectFilter narrows a project listing.
type ProjectFilter struct {
	Active   Opt[bool]
	Customer Opt[*Ref]
}

// Params builds the query for one page; page 0 lets the server pick.
func (f ProjectFilter) Params(page int) (Params, error) {
	b := newFilter("filter")
	b.flag("active", f.Active)
	b.ref("customer", f.Customer)
	b.page(page)
	return b.build()
}

// EntryFilter narrows an entry listing.
type EntryFilter struct {
	Customer Opt[*Ref]
	Project  Opt[*Ref]
	Service  Opt[*Ref]
	User     Opt[*Ref]
	Billable Opt[Billable]
	Text     Opt[string]
	TextID   Opt[int]
}

// EntryQuery selects entries overlapping [Since, Until).
type EntryQuery struct {
	Since  time.Time
	Until  time.Time
	Filter EntryFilter
	// RevenuesForHardBudget asks the server to compute revenues for
	// projects with a hard budget too.
	RevenuesForHardBudget bool
}

// Params builds the query for one page; page 0 lets the server pick.
func (q EntryQuery) Params(page int) (Params, error) {
	if q.Since.IsZero() || q.Until.IsZero() {
		return nil, fmt.Errorf("entry listing needs both time_since and time_until")
	}

	f := newFilter("filters")
	f.ref("customer", q.Filter.Customer)
	f.ref("project", q.Filter.Project)
	f.ref("service", q.Filter.Service)
	f.ref("user", q.Filter.User)
	f.billable(q.Filter.Billable)
	f.str("text", q.Filter.Text)
	f.number("texts_id", q.Filter.TextID)
	params, err := f.build()
	if err != nil {
		return nil, err
	}

	params["time_since"] = FormatTimestamp(q.Since)
	params["time_until"] = FormatTimestamp(q.Until)
	params["calc_also_revenues_for_projects_with_hard_budget"] = boolParam(q.RevenuesForHardBudget)
	if page > 0 {
		params["page"] = page
	}
	return params, nil
}
