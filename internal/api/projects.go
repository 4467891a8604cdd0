package api

import (
	"encoding/json"
	"fmt"
	"iter"

	"github.com/shopspring/decimal"
)

var projectRenames = map[string]string{
	"customers_id": "customer_id",
}

// Project represents a clocko:do project. Every project belongs to a customer.
type Project struct {
	ID                int
	Name              string
	CustomerID        int
	Number            Opt[string]
	Active            bool
	BillableDefault   bool
	BudgetMoney       Opt[decimal.Decimal]
	BudgetIsHours     bool
	BudgetIsNotStrict bool
	note              Opt[string]
}

// NewProject returns an active project of customerID that has not been
// submitted yet.
func NewProject(name string, customerID int) *Project {
	return &Project{Name: name, CustomerID: customerID, Active: true}
}

// Note returns the project's note, or a *PermissionError when the server
// did not send it.
func (p *Project) Note() (string, error) {
	note, ok := p.note.Get()
	if !ok {
		return "", &PermissionError{Entity: "projects", Field: "notes"}
	}
	return note, nil
}

// SetNote sets the note of a project being built client-side.
func (p *Project) SetNote(note string) {
	p.note = Some(note)
}

// Customer resolves the project's customer.
func (p *Project) Customer(r Resolver) (*Customer, error) {
	return r.ResolveCustomer(p.CustomerID)
}

// Ref references the project by id.
func (p *Project) Ref() *Ref {
	return ByID(p.ID)
}

func (p *Project) String() string {
	active := ""
	if !p.Active {
		active = ", inactive"
	}
	return fmt.Sprintf("%s (project ID %d%s, for customer ID %d)", p.Name, p.ID, active, p.CustomerID)
}

func decodeProject(data json.RawMessage) (*Project, error) {
	f, err := newFields("project", data, projectRenames)
	if err != nil {
		return nil, err
	}
	p := &Project{
		ID:              f.Int("id"),
		Name:            f.String("name"),
		CustomerID:      f.Int("customer_id"),
		Number:          f.OptString("number"),
		Active:          f.Bool("active"),
		BillableDefault: f.Bool("billable_default"),
		BudgetMoney:     f.OptDecimal("budget_money"),
		note:            f.OptString("note"),
	}
	if _, ok := f.lookup("budget_is_hours"); ok {
		p.BudgetIsHours = f.Bool("budget_is_hours")
	}
	if _, ok := f.lookup("budget_is_not_strict"); ok {
		p.BudgetIsNotStrict = f.Bool("budget_is_not_strict")
	}
	if err := f.done(); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject fetches one project. Use ResolveProject for a cached lookup.
func (c *Client) GetProject(id int) (*Project, error) {
	var resp struct {
		Project json.RawMessage `json:"project"`
	}
	if err := c.http.Call("GET", fmt.Sprintf("/v2/projects/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return decodeProject(resp.Project)
}

// ListProjects fetches one page of projects; page 0 is the server default.
func (c *Client) ListProjects(filter ProjectFilter, page int) (*Page[*Project], error) {
	if err := c.resolveFilterCustomer(&filter.Customer); err != nil {
		return nil, err
	}
	return listPage(c.lister("/v2/projects", filter.Params), page, "projects", decodeProject)
}

// IterProjects walks every page of projects matching filter.
func (c *Client) IterProjects(filter ProjectFilter) iter.Seq2[*Project, error] {
	if err := c.resolveFilterCustomer(&filter.Customer); err != nil {
		return func(yield func(*Project, error) bool) { yield(nil, err) }
	}
	return Paginate(c.lister("/v2/projects", filter.Params), "projects", decodeProject)
}

func (c *Client) resolveFilterCustomer(o *Opt[*Ref]) error {
	var err error
	*o, err = c.resolveOpt("customer", *o, 0)
	return err
}
