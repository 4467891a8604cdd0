package api

import (
	"fmt"

	"github.com/hev/clockodo/internal/config"
)

// Resolver turns ids into entities. Entries and projects use it to reach
// the customer, project and service they point at.
type Resolver interface {
	ResolveCustomer(id int) (*Customer, error)
	ResolveProject(id int) (*Project, error)
	ResolveService(id int) (*Service, error)
}

// Client is the clocko:do API for one set of credentials. Its lookup cache
// and name index belong to it alone.
type Client struct {
	http  Caller
	cache *LookupCache
	names *NameIndex
}

// New returns a Client issuing requests through http.
func New(http Caller) *Client {
	c := &Client{http: http}
	c.cache = NewLookupCache(c)
	c.names = NewNameIndex(c)
	return c
}

// NewClient creates a Client from the loaded configuration.
func NewClient(cfg *config.Config) *Client {
	h := NewHttpClient(cfg.APIUser, cfg.APIToken)
	h.SetLanguage(cfg.Language)
	h.SetBaseURL(cfg.BaseURL)
	h.SetDebug(cfg.Debug)
	return New(h)
}

// Cache returns the client's id lookup cache.
func (c *Client) Cache() *LookupCache {
	return c.cache
}

// Names returns the client's name index.
func (c *Client) Names() *NameIndex {
	return c.names
}

// ResolveCustomer returns the customer with the given id, fetching it at
// most once per client.
func (c *Client) ResolveCustomer(id int) (*Customer, error) {
	return c.cache.ResolveCustomer(id)
}

// ResolveProject returns the project with the given id, fetching it at most
// once per client while it stays cached.
func (c *Client) ResolveProject(id int) (*Project, error) {
	return c.cache.ResolveProject(id)
}

// ResolveService returns the service with the given id, fetching it at most
// once per client.
func (c *Client) ResolveService(id int) (*Service, error) {
	return c.cache.ResolveService(id)
}

// ResolveRef turns a reference by name into a reference by id. Project
// names are looked up among the projects of customerID, or among all active
// projects when customerID is 0. Nil and id references are returned as is.
func (c *Client) ResolveRef(term string, ref *Ref, customerID int) (*Ref, error) {
	if ref == nil || ref.ID != 0 {
		return ref, nil
	}
	switch term {
	case "customer":
		cu, err := c.names.Customer(ref.Name)
		if err != nil {
			return nil, err
		}
		return ByID(cu.ID), nil
	case "project":
		p, err := c.names.Project(customerID, ref.Name)
		if err != nil {
			return nil, err
		}
		return ByID(p.ID), nil
	case "service":
		s, err := c.names.Service(ref.Name)
		if err != nil {
			return nil, err
		}
		return ByID(s.ID), nil
	}
	return nil, fmt.Errorf("%s %s: only ids are supported", term, ref)
}

func (c *Client) resolveOpt(term string, o Opt[*Ref], customerID int) (Opt[*Ref], error) {
	ref, ok := o.Get()
	if !ok {
		return o, nil
	}
	resolved, err := c.ResolveRef(term, ref, customerID)
	if err != nil {
		return o, err
	}
	return Some(resolved), nil
}

// resolveRefs resolves the customer first so a project name can be looked up
// among that customer's projects.
func (c *Client) resolveRefs(customer, project, service, user *Opt[*Ref]) error {
	var err error
	if *customer, err = c.resolveOpt("customer", *customer, 0); err != nil {
		return err
	}
	customerID := 0
	if r, ok := customer.Get(); ok && r != nil {
		customerID = r.ID
	}
	if *project, err = c.resolveOpt("project", *project, customerID); err != nil {
		return err
	}
	if *service, err = c.resolveOpt("service", *service, 0); err != nil {
		return err
	}
	if user != nil {
		if *user, err = c.resolveOpt("user", *user, 0); err != nil {
			return err
		}
	}
	return nil
}
