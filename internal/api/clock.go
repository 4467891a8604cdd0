package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CurrentClock returns the running clock, or nil when none runs.
func (c *Client) CurrentClock() (*ClockEntry, error) {
	var resp map[string]json.RawMessage
	if err := c.http.Call(http.MethodGet, "/v2/clock", nil, &resp); err != nil {
		return nil, err
	}
	raw, ok := resp["running"]
	if !ok || isNull(raw) {
		return nil, nil
	}
	return decodeClock(raw)
}

// StartClock starts a new clock. It fails with a *ConflictError when one is
// already running.
func (c *Client) StartClock(start ClockStart) (*ClockEntry, error) {
	running, err := c.CurrentClock()
	if err != nil {
		return nil, err
	}
	if running != nil {
		return nil, &ConflictError{Op: "start clock", Reason: fmt.Sprintf("a clock is already running since %s", FormatTimestamp(running.TimeSince.Or(time.Time{})))}
	}

	if err := c.resolveRefs(&start.Customer, &start.Project, &start.Service, nil); err != nil {
		return nil, err
	}
	params, err := start.Params()
	if err != nil {
		return nil, err
	}

	var resp map[string]json.RawMessage
	if err := c.http.Call(http.MethodPost, "/v2/clock", params, &resp); err != nil {
		return nil, err
	}
	raw, ok := resp["running"]
	if !ok || isNull(raw) {
		return nil, &DecodeError{Entity: "response", Field: "running", Err: errMissing}
	}
	return decodeClock(raw)
}

// StopClock stops the running clock and returns the finished entry. It
// fails with a *ConflictError when no clock is running.
func (c *Client) StopClock() (*ClockEntry, error) {
	running, err := c.CurrentClock()
	if err != nil {
		return nil, err
	}
	if running == nil {
		return nil, &ConflictError{Op: "stop clock", Reason: "no clock is running"}
	}

	var resp map[string]json.RawMessage
	if err := c.http.Call(http.MethodDelete, fmt.Sprintf("/v2/clock/%d", running.ID), nil, &resp); err != nil {
		return nil, err
	}
	if raw, ok := resp["stopped"]; ok && !isNull(raw) {
		return decodeClock(raw)
	}

	e, err := c.GetEntry(running.ID)
	if err != nil {
		return nil, err
	}
	return asClock(e)
}

// EditClock applies a partial update to the running clock.
func (c *Client) EditClock(edit EntryEdit) (*ClockEntry, error) {
	running, err := c.CurrentClock()
	if err != nil {
		return nil, err
	}
	if running == nil {
		return nil, &ConflictError{Op: "edit clock", Reason: "no clock is running"}
	}

	if err := c.resolveRefs(&edit.Customer, &edit.Project, &edit.Service, &edit.User); err != nil {
		return nil, err
	}
	params, err := edit.Params()
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return running, nil
	}

	var resp map[string]json.RawMessage
	if err := c.http.Call(http.MethodPut, fmt.Sprintf("/v2/clock/%d", running.ID), params, &resp); err != nil {
		return nil, err
	}
	for _, key := range []string{"running", "updated", "entry"} {
		if raw, ok := resp[key]; ok && !isNull(raw) {
			return decodeClock(raw)
		}
	}
	return nil, &DecodeError{Entity: "response", Field: "running", Err: errMissing}
}

func decodeClock(raw json.RawMessage) (*ClockEntry, error) {
	e, err := DecodeEntry(raw)
	if err != nil {
		return nil, err
	}
	return asClock(e)
}

func asClock(e Entry) (*ClockEntry, error) {
	ce, ok := e.(*ClockEntry)
	if !ok {
		return nil, &DecodeError{Entity: "clock", Field: "type", Err: fmt.Errorf("expected a clock entry, got a %s", e.EntryType())}
	}
	return ce, nil
}
