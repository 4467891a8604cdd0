package api

import (
	"encoding/json"
	"fmt"
	"iter"
)

// Service represents a clocko:do service, the kind of work an entry records.
type Service struct {
	ID     int
	Name   string
	Number Opt[string]
	Active bool
	Note   Opt[string]
}

// NewService returns an active service that has not been submitted yet.
func NewService(name string) *Service {
	return &Service{Name: name, Active: true}
}

// Ref references the service by id.
func (s *Service) Ref() *Ref {
	return ByID(s.ID)
}

func (s *Service) String() string {
	active := ""
	if !s.Active {
		active = ", inactive"
	}
	return fmt.Sprintf("%s (service ID %d%s)", s.Name, s.ID, active)
}

func decodeService(data json.RawMessage) (*Service, error) {
	f, err := newFields("service", data, nil)
	if err != nil {
		return nil, err
	}
	s := &Service{
		ID:     f.Int("id"),
		Name:   f.String("name"),
		Number: f.OptString("number"),
		Active: f.Bool("active"),
		Note:   f.OptString("note"),
	}
	if err := f.done(); err != nil {
		return nil, err
	}
	return s, nil
}

// GetService fetches one service. Use ResolveService for a cached lookup.
func (c *Client) GetService(id int) (*Service, error) {
	var resp struct {
		Service json.RawMessage `json:"service"`
	}
	if err := c.http.Call("GET", fmt.Sprintf("/services/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return decodeService(resp.Service)
}

func serviceParams(page int) (Params, error) {
	b := newParams()
	b.page(page)
	return b.build()
}

// ListServices fetches one page of services. The endpoint usually answers
// without a paging block, with every service at once.
func (c *Client) ListServices(page int) (*Page[*Service], error) {
	return listPage(c.lister("/services", serviceParams), page, "services", decodeService)
}

// IterServices walks every service.
func (c *Client) IterServices() iter.Seq2[*Service, error] {
	return Paginate(c.lister("/services", serviceParams), "services", decodeService)
}
