package commands

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hev/clockodo/internal/api"
	"github.com/hev/clockodo/internal/config"
)

// Debug is bound to the root command's --debug flag.
var Debug bool

func newClient() (*api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Debug = Debug
	if Debug {
		log.Printf("Using API user %s at %s", cfg.APIUser, orDefault(cfg.BaseURL, api.BaseURL))
	}
	return api.NewClient(cfg), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// parseRef reads a command-line reference: digits are an id, anything else a name.
func parseRef(s string) *api.Ref {
	if id, err := strconv.Atoi(s); err == nil && id > 0 {
		return api.ByID(id)
	}
	return api.ByName(s)
}

// optRef is absent for an empty flag value.
func optRef(s string) api.Opt[*api.Ref] {
	if s == "" {
		return api.None[*api.Ref]()
	}
	return api.Some(parseRef(s))
}

// refs holds customer, project and service flags before resolution.
type refs struct {
	customer string
	project  string
	service  string
}

// withProjectDefaults fills empty flags from .clockodo.json in the working
// directory, when there is one.
func (r refs) withProjectDefaults() refs {
	pc, err := config.LoadProjectConfigFromCwd()
	if err != nil {
		return r
	}
	fill := func(s *string, id int) {
		if *s == "" && id != 0 {
			*s = strconv.Itoa(id)
		}
	}
	fill(&r.customer, pc.CustomerID)
	fill(&r.project, pc.ProjectID)
	fill(&r.service, pc.ServiceID)
	return r
}

func (r refs) require() error {
	for _, f := range []struct{ name, value string }{{"customer", r.customer}, {"service", r.service}} {
		if f.value == "" {
			return fmt.Errorf("no %s specified. Use --%s or run `clockodo init` to create %s", f.name, f.name, config.ProjectConfigFile)
		}
	}
	return nil
}

// parseDay parses YYYY-MM-DD as local midnight.
func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func parseBillable(s string) (api.Opt[api.Billable], error) {
	switch strings.ToLower(s) {
	case "":
		return api.None[api.Billable](), nil
	case "0", "no", "not-billable":
		return api.Some(api.NotBillable), nil
	case "1", "yes", "billable", "unbilled":
		return api.Some(api.BillableUnbilled), nil
	case "2", "billed":
		return api.Some(api.Billed), nil
	}
	return api.None[api.Billable](), fmt.Errorf("invalid billable value %q (expected 0, 1 or 2)", s)
}
