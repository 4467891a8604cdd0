package api

import (
	"encoding/json"
	"fmt"
	"iter"
)

// Customer represents a clocko:do customer. ID is 0 until the server has
// assigned one.
type Customer struct {
	ID              int
	Name            string
	Number          Opt[string]
	Active          bool
	BillableDefault bool
	note            Opt[string]
}

// NewCustomer returns an active customer that has not been submitted yet.
func NewCustomer(name string) *Customer {
	return &Customer{Name: name, Active: true}
}

// Note returns the customer's note. The server only sends notes to users
// allowed to see them; for everyone else this is a *PermissionError.
func (c *Customer) Note() (string, error) {
	note, ok := c.note.Get()
	if !ok {
		return "", &PermissionError{Entity: "customers", Field: "notes"}
	}
	return note, nil
}

// SetNote sets the note of a customer being built client-side.
func (c *Customer) SetNote(note string) {
	c.note = Some(note)
}

// Ref references the customer by id.
func (c *Customer) Ref() *Ref {
	return ByID(c.ID)
}

func (c *Customer) String() string {
	active := ""
	if !c.Active {
		active = ", inactive"
	}
	return fmt.Sprintf("%s (customer ID %d%s)", c.Name, c.ID, active)
}

func decodeCustomer(data json.RawMessage) (*Customer, error) {
	f, err := newFields("customer", data, nil)
	if err != nil {
		return nil, err
	}
	c := &Customer{
		ID:              f.Int("id"),
		Name:            f.String("name"),
		Number:          f.OptString("number"),
		Active:          f.Bool("active"),
		BillableDefault: f.Bool("billable_default"),
		note:            f.OptString("note"),
	}
	if err := f.done(); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCustomer fetches one customer. Use ResolveCustomer for a cached lookup.
func (c *Client) GetCustomer(id int) (*Customer, error) {
	var resp struct {
		Customer json.RawMessage `json:"customer"`
	}
	if err := c.http.Call("GET", fmt.Sprintf("/v2/customers/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return decodeCustomer(resp.Customer)
}

// ListCustomers fetches one page of customers; page 0 is the server default.
func (c *Client) ListCustomers(filter CustomerFilter, page int) (*Page[*Customer], error) {
	return listPage(c.lister("/v2/customers", filter.Params), page, "customers", decodeCustomer)
}

// IterCustomers walks every page of customers matching filter.
func (c *Client) IterCustomers(filter CustomerFilter) iter.Seq2[*Customer, error] {
	return Paginate(c.lister("/v2/customers", filter.Params), "customers", decodeCustomer)
}
