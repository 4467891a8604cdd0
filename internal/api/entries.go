package api

import (
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the wire discriminator of an entry.
type EntryType int

const (
	TypeClock          EntryType = 1
	TypeLumpSum        EntryType = 2
	TypeLumpSumService EntryType = 3
)

func (t EntryType) String() string {
	switch t {
	case TypeClock:
		return "clock entry"
	case TypeLumpSum:
		return "lump sum entry"
	case TypeLumpSumService:
		return "lump sum service entry"
	}
	return fmt.Sprintf("entry type %d", int(t))
}

// Billable is the billing state of an entry.
type Billable int

const (
	NotBillable      Billable = 0
	BillableUnbilled Billable = 1
	Billed           Billable = 2
)

// Valid reports whether b is one of the three known states.
func (b Billable) Valid() bool {
	return b >= NotBillable && b <= Billed
}

func (b Billable) String() string {
	switch b {
	case NotBillable:
		return "not billable"
	case BillableUnbilled:
		return "billable"
	case Billed:
		return "billed"
	}
	return fmt.Sprintf("billable(%d)", int(b))
}

// Entry is one of *ClockEntry, *LumpSumEntry or *LumpSumServiceEntry.
type Entry interface {
	EntryID() int
	EntryType() EntryType
	Base() *EntryBase
	isEntry()
}

// EntryBase holds the fields every entry kind shares.
type EntryBase struct {
	ID             int
	CustomerID     int
	ProjectID      Opt[int]
	ServiceID      int
	UserID         Opt[int]
	Billable       Billable
	TimeSince      Opt[time.Time]
	TimeInsert     Opt[time.Time]
	TimeLastChange Opt[time.Time]
}

func (b *EntryBase) EntryID() int { return b.ID }

func (b *EntryBase) Base() *EntryBase { return b }

// Customer resolves the entry's customer.
func (b *EntryBase) Customer(r Resolver) (*Customer, error) {
	return r.ResolveCustomer(b.CustomerID)
}

// Project resolves the entry's project; it is nil when the entry has none.
func (b *EntryBase) Project(r Resolver) (*Project, error) {
	id, ok := b.ProjectID.Get()
	if !ok {
		return nil, nil
	}
	return r.ResolveProject(id)
}

// Service resolves the entry's service.
func (b *EntryBase) Service(r Resolver) (*Service, error) {
	return r.ResolveService(b.ServiceID)
}

// ClockState is where a clock entry is in its lifecycle.
type ClockState int

const (
	ClockUnstarted ClockState = iota
	ClockRunning
	ClockStopped
)

// ClockEntry is a time span of work, running while TimeUntil is absent.
type ClockEntry struct {
	EntryBase
	Text       Opt[string]
	TextID     Opt[int]
	TimeUntil  Opt[time.Time]
	Duration   Opt[int] // seconds, computed by the server
	HourlyRate Opt[decimal.Decimal]
}

// NewClockEntry builds a clock entry to submit with Client.CreateEntry.
// Exactly one of text and textID must be present.
func NewClockEntry(customerID, serviceID int, text Opt[string], textID Opt[int]) (*ClockEntry, error) {
	if err := checkText("clock entry", text, textID); err != nil {
		return nil, err
	}
	return &ClockEntry{
		EntryBase: EntryBase{CustomerID: customerID, ServiceID: serviceID},
		Text:      text,
		TextID:    textID,
	}, nil
}

func (e *ClockEntry) EntryType() EntryType { return TypeClock }
func (e *ClockEntry) isEntry()             {}

// State derives the lifecycle state from the timestamps.
func (e *ClockEntry) State() ClockState {
	switch {
	case !e.TimeSince.IsSet():
		return ClockUnstarted
	case !e.TimeUntil.IsSet():
		return ClockRunning
	}
	return ClockStopped
}

// Elapsed is the clocked time: up to now while running, up to TimeUntil
// once stopped.
func (e *ClockEntry) Elapsed(now time.Time) time.Duration {
	since, ok := e.TimeSince.Get()
	if !ok {
		return 0
	}
	if until, ok := e.TimeUntil.Get(); ok {
		return until.Sub(since)
	}
	return now.Sub(since)
}

func (e *ClockEntry) String() string {
	until := "still running"
	if t, ok := e.TimeUntil.Get(); ok {
		until = FormatTimestamp(t)
	}
	since := "(not started)"
	if t, ok := e.TimeSince.Get(); ok {
		since = FormatTimestamp(t)
	}
	return fmt.Sprintf("Clock entry (ID %d) // %s -- %s", e.ID, since, until)
}

// Params builds the POST /v2/entries parameters for a finished clock entry.
func (e *ClockEntry) Params() (Params, error) {
	if err := checkText("clock entry", e.Text, e.TextID); err != nil {
		return nil, err
	}
	if !e.TimeSince.IsSet() || !e.TimeUntil.IsSet() {
		return nil, &ConstructionError{Entity: "clock entry", Reason: "time_since and time_until are required, start a clock instead"}
	}
	b := newParams()
	b.base(&e.EntryBase)
	b.str("text", e.Text)
	b.number("texts_id", e.TextID)
	b.timestamp("time_until", e.TimeUntil)
	b.amount("hourly_rate", e.HourlyRate)
	return b.build()
}

// LumpSumEntry is a fixed amount of money rather than a time span.
type LumpSumEntry struct {
	EntryBase
	Text    Opt[string]
	LumpSum decimal.Decimal
}

// NewLumpSumEntry builds a lump sum entry to submit with Client.CreateEntry.
func NewLumpSumEntry(customerID, serviceID int, since time.Time, lumpSum decimal.Decimal, text string) *LumpSumEntry {
	e := &LumpSumEntry{
		EntryBase: EntryBase{CustomerID: customerID, ServiceID: serviceID, TimeSince: Some(since)},
		LumpSum:   lumpSum,
	}
	if text != "" {
		e.Text = Some(text)
	}
	return e
}

func (e *LumpSumEntry) EntryType() EntryType { return TypeLumpSum }
func (e *LumpSumEntry) isEntry()             {}

func (e *LumpSumEntry) String() string {
	return fmt.Sprintf("Lump sum entry (ID %d) // %s", e.ID, e.LumpSum.StringFixed(2))
}

// Params builds the POST /v2/entries parameters.
func (e *LumpSumEntry) Params() (Params, error) {
	if !e.TimeSince.IsSet() {
		return nil, &ConstructionError{Entity: "lump sum entry", Reason: "time_since is required"}
	}
	b := newParams()
	b.base(&e.EntryBase)
	b.str("text", e.Text)
	b.amount("lumpsum", Some(e.LumpSum))
	return b.build()
}

// LumpSumServiceEntry is read from the API but cannot be created by this client.
type LumpSumServiceEntry struct {
	EntryBase
	Text             Opt[string]
	LumpSumServiceID Opt[int]
	LumpSumAmount    Opt[decimal.Decimal]
}

// NewLumpSumServiceEntry always fails with ErrNotImplemented.
func NewLumpSumServiceEntry() (*LumpSumServiceEntry, error) {
	return nil, fmt.Errorf("lump sum service entries: %w", ErrNotImplemented)
}

func (e *LumpSumServiceEntry) EntryType() EntryType { return TypeLumpSumService }
func (e *LumpSumServiceEntry) isEntry()             {}

func (e *LumpSumServiceEntry) String() string {
	return fmt.Sprintf("Lump sum service entry (ID %d)", e.ID)
}

// base emits the shared create fields.
func (b *paramBuilder) base(e *EntryBase) {
	if e.CustomerID == 0 || e.ServiceID == 0 {
		b.fail(&ConstructionError{Entity: "entry", Reason: "customer and service are required"})
		return
	}
	b.ref("customer", Some(ByID(e.CustomerID)))
	b.ref("service", Some(ByID(e.ServiceID)))
	if id, ok := e.ProjectID.Get(); ok {
		b.ref("project", Some(ByID(id)))
	}
	if id, ok := e.UserID.Get(); ok {
		b.ref("user", Some(ByID(id)))
	}
	b.billable(Some(e.Billable))
	b.timestamp("time_since", e.TimeSince)
}

var entryRenames = map[string]string{
	"customers_id":    "customer_id",
	"projects_id":     "project_id",
	"services_id":     "service_id",
	"users_id":        "user_id",
	"texts_id":        "text_id",
	"lumpsums_id":     "lumpsum_service_id",
	"lumpsums_amount": "lumpsum_amount",
	"text":            "description",
}

// DecodeEntry decodes an entry of any kind, chosen by its type field.
func DecodeEntry(data json.RawMessage) (Entry, error) {
	f, err := newFields("entry", data, entryRenames)
	if err != nil {
		return nil, err
	}
	t := EntryType(f.Int("type"))
	if err := f.done(); err != nil {
		return nil, err
	}

	switch t {
	case TypeClock:
		e := &ClockEntry{
			EntryBase:  decodeBase(f),
			Text:       f.OptString("description"),
			TextID:     f.OptInt("text_id"),
			TimeUntil:  f.OptTime("time_until"),
			Duration:   f.OptInt("duration"),
			HourlyRate: f.OptDecimal("hourly_rate"),
		}
		return e, f.done()
	case TypeLumpSum:
		e := &LumpSumEntry{
			EntryBase: decodeBase(f),
			Text:      f.OptString("description"),
			LumpSum:   f.Decimal("lumpsum"),
		}
		return e, f.done()
	case TypeLumpSumService:
		e := &LumpSumServiceEntry{
			EntryBase:        decodeBase(f),
			Text:             f.OptString("description"),
			LumpSumServiceID: f.OptInt("lumpsum_service_id"),
			LumpSumAmount:    f.OptDecimal("lumpsum_amount"),
		}
		return e, f.done()
	}
	return nil, &DecodeError{Entity: "entry", Field: "type", Err: &UnknownEntryTypeError{Type: int(t)}}
}

func decodeBase(f *fields) EntryBase {
	return EntryBase{
		ID:             f.Int("id"),
		CustomerID:     f.Int("customer_id"),
		ProjectID:      f.OptInt("project_id"),
		ServiceID:      f.Int("service_id"),
		UserID:         f.OptInt("user_id"),
		Billable:       f.Billable("billable"),
		TimeSince:      Some(f.Time("time_since")),
		TimeInsert:     f.OptTime("time_insert"),
		TimeLastChange: f.OptTime("time_last_change"),
	}
}

func decodeEntryKey(key string, resp map[string]json.RawMessage) (Entry, error) {
	raw, ok := resp[key]
	if !ok || isNull(raw) {
		return nil, &DecodeError{Entity: "response", Field: key, Err: errMissing}
	}
	return DecodeEntry(raw)
}

// GetEntry fetches one entry of any kind.
func (c *Client) GetEntry(id int) (Entry, error) {
	var resp map[string]json.RawMessage
	if err := c.http.Call("GET", fmt.Sprintf("/v2/entries/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return decodeEntryKey("entry", resp)
}

// ListEntries fetches one page of entries; page 0 is the server default.
func (c *Client) ListEntries(q EntryQuery, page int) (*Page[Entry], error) {
	if err := c.resolveQuery(&q); err != nil {
		return nil, err
	}
	return listPage(c.lister("/v2/entries", q.Params), page, "entries", DecodeEntry)
}

// IterEntries walks every page of entries matching q.
func (c *Client) IterEntries(q EntryQuery) iter.Seq2[Entry, error] {
	if err := c.resolveQuery(&q); err != nil {
		return func(yield func(Entry, error) bool) { yield(nil, err) }
	}
	return Paginate(c.lister("/v2/entries", q.Params), "entries", DecodeEntry)
}

func (c *Client) resolveQuery(q *EntryQuery) error {
	return c.resolveRefs(&q.Filter.Customer, &q.Filter.Project, &q.Filter.Service, &q.Filter.User)
}

// CreateEntry submits a client-built entry and returns the server's copy.
func (c *Client) CreateEntry(e Entry) (Entry, error) {
	if e.EntryID() != 0 {
		return nil, &ConstructionError{Entity: e.EntryType().String(), Reason: fmt.Sprintf("already submitted as ID %d", e.EntryID())}
	}

	var params Params
	var err error
	switch v := e.(type) {
	case *ClockEntry:
		params, err = v.Params()
	case *LumpSumEntry:
		params, err = v.Params()
	case *LumpSumServiceEntry:
		err = fmt.Errorf("create %s: %w", v.EntryType(), ErrNotImplemented)
	}
	if err != nil {
		return nil, err
	}

	var resp map[string]json.RawMessage
	if err := c.http.Call("POST", "/v2/entries", params, &resp); err != nil {
		return nil, err
	}
	return decodeEntryKey("entry", resp)
}

// EditEntry applies a partial update to an entry. Name references are
// resolved first; fields not set in edit are left untouched on the server.
func (c *Client) EditEntry(id int, edit EntryEdit) (Entry, error) {
	if err := c.resolveRefs(&edit.Customer, &edit.Project, &edit.Service, &edit.User); err != nil {
		return nil, err
	}
	params, err := edit.Params()
	if err != nil {
		return nil, err
	}

	var resp map[string]json.RawMessage
	if err := c.http.Call("PUT", fmt.Sprintf("/v2/entries/%d", id), params, &resp); err != nil {
		return nil, err
	}
	return decodeEntryKey("entry", resp)
}

// LastClockOut returns when the last clock entry overlapping [since, until)
// ended. ok is false when there is none or it is still running.
func (c *Client) LastClockOut(since, until time.Time) (time.Time, bool, error) {
	var last Entry
	for e, err := range c.IterEntries(EntryQuery{Since: since, Until: until}) {
		if err != nil {
			return time.Time{}, false, err
		}
		last = e
	}
	ce, isClock := last.(*ClockEntry)
	if !isClock {
		return time.Time{}, false, nil
	}
	t, ok := ce.TimeUntil.Get()
	return t, ok, nil
}
