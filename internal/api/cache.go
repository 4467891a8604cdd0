package api

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	customerCacheSize = 10
	projectCacheSize  = 100
)

type entityGetter interface {
	GetCustomer(id int) (*Customer, error)
	GetProject(id int) (*Project, error)
	GetService(id int) (*Service, error)
}

// LookupCache memoizes id lookups for a single Client. Customers and
// projects are kept in LRU caches, services without a bound. Entries never
// expire. It is not safe for concurrent use.
type LookupCache struct {
	get       entityGetter
	customers *lru.Cache[int, *Customer]
	projects  *lru.Cache[int, *Project]
	services  map[int]*Service
}

// NewLookupCache returns an empty cache that fetches misses through get.
func NewLookupCache(get entityGetter) *LookupCache {
	customers, err := lru.New[int, *Customer](customerCacheSize)
	if err != nil {
		panic(err)
	}
	projects, err := lru.New[int, *Project](projectCacheSize)
	if err != nil {
		panic(err)
	}
	return &LookupCache{
		get:       get,
		customers: customers,
		projects:  projects,
		services:  make(map[int]*Service),
	}
}

// ResolveCustomer implements Resolver.
func (c *LookupCache) ResolveCustomer(id int) (*Customer, error) {
	return resolve(c.customers, id, c.get.GetCustomer)
}

// ResolveProject implements Resolver.
func (c *LookupCache) ResolveProject(id int) (*Project, error) {
	return resolve(c.projects, id, c.get.GetProject)
}

// ResolveService implements Resolver.
func (c *LookupCache) ResolveService(id int) (*Service, error) {
	if s, ok := c.services[id]; ok {
		return s, nil
	}
	s, err := c.get.GetService(id)
	if err != nil {
		return nil, err
	}
	c.services[id] = s
	return s, nil
}

// AddCustomer seeds the cache with an already fetched customer.
func (c *LookupCache) AddCustomer(cu *Customer) {
	c.customers.Add(cu.ID, cu)
}

// AddProject seeds the cache with an already fetched project.
func (c *LookupCache) AddProject(p *Project) {
	c.projects.Add(p.ID, p)
}

// AddService seeds the cache with an already fetched service.
func (c *LookupCache) AddService(s *Service) {
	c.services[s.ID] = s
}

func resolve[T any](cache *lru.Cache[int, T], id int, get func(int) (T, error)) (T, error) {
	if v, ok := cache.Get(id); ok {
		return v, nil
	}
	v, err := get(id)
	if err != nil {
		var zero T
		return zero, err
	}
	cache.Add(id, v)
	return v, nil
}

// NameIndex holds the active customers, projects and services of one
// Client for lookups by name and for building prompt choices. Every list is
// loaded at most once; a failed load is retried on the next call.
type NameIndex struct {
	client *Client

	customers       []*Customer
	customersLoaded bool
	projects        map[int][]*Project
	services        []*Service
	servicesLoaded  bool
}

// NewNameIndex returns an empty index for client.
func NewNameIndex(client *Client) *NameIndex {
	return &NameIndex{client: client, projects: make(map[int][]*Project)}
}

// Customers returns all active customers.
func (n *NameIndex) Customers() ([]*Customer, error) {
	if n.customersLoaded {
		return n.customers, nil
	}
	var list []*Customer
	for cu, err := range n.client.IterCustomers(CustomerFilter{Active: Some(true)}) {
		if err != nil {
			return nil, err
		}
		n.client.cache.AddCustomer(cu)
		list = append(list, cu)
	}
	n.customers, n.customersLoaded = list, true
	return list, nil
}

// Projects returns the active projects of a customer, or all active
// projects when customerID is 0.
func (n *NameIndex) Projects(customerID int) ([]*Project, error) {
	if list, ok := n.projects[customerID]; ok {
		return list, nil
	}
	filter := ProjectFilter{Active: Some(true)}
	if customerID != 0 {
		filter.Customer = Some(ByID(customerID))
	}
	list := []*Project{}
	for p, err := range n.client.IterProjects(filter) {
		if err != nil {
			return nil, err
		}
		n.client.cache.AddProject(p)
		list = append(list, p)
	}
	n.projects[customerID] = list
	return list, nil
}

// Services returns all active services.
func (n *NameIndex) Services() ([]*Service, error) {
	if n.servicesLoaded {
		return n.services, nil
	}
	var list []*Service
	for s, err := range n.client.IterServices() {
		if err != nil {
			return nil, err
		}
		n.client.cache.AddService(s)
		if s.Active {
			list = append(list, s)
		}
	}
	n.services, n.servicesLoaded = list, true
	return list, nil
}

// Customer finds an active customer by name.
func (n *NameIndex) Customer(name string) (*Customer, error) {
	list, err := n.Customers()
	if err != nil {
		return nil, err
	}
	return findByName("customer", name, list, func(c *Customer) string { return c.Name })
}

// Project finds an active project by name, among the projects of
// customerID when it is not 0.
func (n *NameIndex) Project(customerID int, name string) (*Project, error) {
	list, err := n.Projects(customerID)
	if err != nil {
		return nil, err
	}
	return findByName("project", name, list, func(p *Project) string { return p.Name })
}

// Service finds an active service by name.
func (n *NameIndex) Service(name string) (*Service, error) {
	list, err := n.Services()
	if err != nil {
		return nil, err
	}
	return findByName("service", name, list, func(s *Service) string { return s.Name })
}

// findByName prefers an exact match and falls back to a unique
// case-insensitive one.
func findByName[T any](kind, name string, list []T, nameOf func(T) string) (T, error) {
	var zero T
	for _, v := range list {
		if nameOf(v) == name {
			return v, nil
		}
	}
	var matches []T
	for _, v := range list {
		if strings.EqualFold(nameOf(v), name) {
			matches = append(matches, v)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("no active %s named %q", kind, name)
	case 1:
		return matches[0], nil
	}
	return zero, fmt.Errorf("%d active %ss match %q, use the id instead", len(matches), kind, name)
}
