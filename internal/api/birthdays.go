package api

import (
	"context"

	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
)

// ListBirthdays fetches the whole collection of the current session.
func (c *Client) ListBirthdays(ctx context.Context) ([]model.Record, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(config.RouteBirthdays)
	if err := check(resp, err); err != nil {
		return nil, err
	}

	var wire []wireRecord
	if err := decodeJSON(resp.Body(), &wire); err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(wire))
	for _, w := range wire {
		r, err := decodeRecord(w)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// GetBirthday fetches a single record.
func (c *Client) GetBirthday(ctx context.Context, id string) (model.Record, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam(config.PathParamID, id).
		Get(config.RouteBirthday)
	if err := check(resp, err); err != nil {
		return model.Record{}, err
	}
	return c.record(resp.Body())
}

// CreateBirthday posts a new record and returns it with its server id.
func (c *Client) CreateBirthday(ctx context.Context, d model.Draft) (model.Record, error) {
	body, err := encodeDraft(d)
	if err != nil {
		return model.Record{}, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(config.RouteBirthdays)
	if err := check(resp, err); err != nil {
		return model.Record{}, err
	}
	return c.record(resp.Body())
}

// UpdateBirthday replaces the editable fields of record id.
func (c *Client) UpdateBirthday(ctx context.Context, id string, d model.Draft) (model.Record, error) {
	body, err := encodeDraft(d)
	if err != nil {
		return model.Record{}, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam(config.PathParamID, id).
		SetBody(body).
		Put(config.RouteBirthday)
	if err := check(resp, err); err != nil {
		return model.Record{}, err
	}
	return c.record(resp.Body())
}

// DeleteBirthday removes record id. Any 2xx answer is an acknowledgment.
func (c *Client) DeleteBirthday(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam(config.PathParamID, id).
		Delete(config.RouteBirthday)
	return check(resp, err)
}

func (c *Client) record(body []byte) (model.Record, error) {
	var w wireRecord
	if err := decodeJSON(body, &w); err != nil {
		return model.Record{}, err
	}
	return decodeRecord(w)
}
