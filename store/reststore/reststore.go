// Package reststore implements store.Remote against the PostgREST-style data
// API served under /rest/v1.
package reststore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Kariqs/amexan-eats/store"
	"github.com/go-resty/resty/v2"
)

const basePath = "/rest/v1/"

// TokenSource returns the bearer token for the current session, or "" when
// signed out.
type TokenSource func() string

type Client struct {
	http  *resty.Client
	token TokenSource
}

func New(baseURL, apiKey string, token TokenSource) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("apikey", apiKey)
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{http: client, token: token}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (c *Client) Select(ctx context.Context, q store.Query, dest any) error {
	params := filterParams(q.Filter)
	params.Set("select", selectParam(q.Embed))
	if len(q.Order) > 0 {
		params.Set("order", orderParam(q.Order))
	}

	resp, err := c.request(ctx).SetQueryParamsFromValues(params).Get(basePath + q.Table)
	if err := check("select "+q.Table, resp, err); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return store.Wrap(store.CodeInvalid, "select "+q.Table+": decode response", err)
	}
	return nil
}

func (c *Client) Insert(ctx context.Context, table string, rows []store.Row, dest any) error {
	req := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(rows)
	if dest != nil {
		req.SetHeader("Prefer", "return=representation")
	} else {
		req.SetHeader("Prefer", "return=minimal")
	}

	resp, err := req.Post(basePath + table)
	if err := check("insert "+table, resp, err); err != nil {
		return err
	}
	if dest != nil {
		if err := json.Unmarshal(resp.Body(), dest); err != nil {
			return store.Wrap(store.CodeInvalid, "insert "+table+": decode response", err)
		}
	}
	return nil
}

func (c *Client) Update(ctx context.Context, table string, fields store.Row, filter store.Filter) error {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParamsFromValues(filterParams(filter)).
		SetBody(fields).
		Patch(basePath + table)
	return check("update "+table, resp, err)
}

func (c *Client) Delete(ctx context.Context, table string, filter store.Filter) error {
	resp, err := c.request(ctx).
		SetQueryParamsFromValues(filterParams(filter)).
		Delete(basePath + table)
	return check("delete "+table, resp, err)
}

// IncrementRequest is the body of POST /rest/v1/rpc/increment.
type IncrementRequest struct {
	Table  string       `json:"table"`
	Column string       `json:"column"`
	Delta  int          `json:"delta"`
	Filter store.Filter `json:"filter"`
}

func (c *Client) Increment(ctx context.Context, table, column string, delta int, filter store.Filter) error {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(IncrementRequest{Table: table, Column: column, Delta: delta, Filter: filter}).
		Post(basePath + "rpc/increment")
	return check("increment "+table, resp, err)
}

func filterParams(filter store.Filter) url.Values {
	params := url.Values{}
	for k, v := range filter {
		params.Set(k, "eq."+fmt.Sprint(v))
	}
	return params
}

func selectParam(embed []string) string {
	parts := []string{"*"}
	for _, e := range embed {
		parts = append(parts, e+"(*)")
	}
	return strings.Join(parts, ",")
}

func orderParam(order []store.Order) string {
	parts := make([]string, 0, len(order))
	for _, o := range order {
		dir := "asc"
		if o.Descending {
			dir = "desc"
		}
		parts = append(parts, o.Column+"."+dir)
	}
	return strings.Join(parts, ",")
}

// ParseSelect extracts the embedded relations from a select parameter such
// as "*,foods(*)". Plain column lists are accepted; rows always carry every
// column.
func ParseSelect(param string) []string {
	var embeds []string
	depth, start := 0, 0
	for i := 0; i <= len(param); i++ {
		if i < len(param) {
			switch param[i] {
			case '(':
				depth++
				continue
			case ')':
				depth--
				continue
			case ',':
				if depth > 0 {
					continue
				}
			default:
				continue
			}
		}
		part := strings.TrimSpace(param[start:i])
		start = i + 1
		if open := strings.IndexByte(part, '('); open > 0 {
			embeds = append(embeds, strings.TrimSpace(part[:open]))
		}
	}
	return embeds
}

// ParseOrder parses "col.desc,col2.asc". A column without direction sorts
// ascending.
func ParseOrder(param string) []store.Order {
	if param == "" {
		return nil
	}
	var order []store.Order
	for _, part := range strings.Split(param, ",") {
		col, dir, _ := strings.Cut(strings.TrimSpace(part), ".")
		order = append(order, store.Order{Column: col, Descending: dir == "desc"})
	}
	return order
}

// ParseFilter reads "col=eq.value" pairs, skipping the reserved select and
// order parameters.
func ParseFilter(values url.Values) (store.Filter, error) {
	filter := store.Filter{}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "select" || k == "order" {
			continue
		}
		v := values.Get(k)
		value, ok := strings.CutPrefix(v, "eq.")
		if !ok {
			return nil, store.Errorf(store.CodeInvalid, "unsupported filter %s=%s", k, v)
		}
		filter[k] = value
	}
	return filter, nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return store.Wrap(store.CodeUnavailable, op, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	var body errorBody
	message := strings.TrimSpace(string(resp.Body()))
	if json.Unmarshal(resp.Body(), &body) == nil {
		message = body.Message
		if body.Error != "" {
			message += ": " + body.Error
		}
	}
	return store.Errorf(CodeForStatus(resp.StatusCode()), "%s: %d %s", op, resp.StatusCode(), message)
}

func CodeForStatus(status int) store.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return store.CodePermission
	case http.StatusNotFound:
		return store.CodeNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return store.CodeInvalid
	default:
		return store.CodeUnavailable
	}
}

// StatusForCode is the inverse of CodeForStatus, used by the server.
func StatusForCode(code store.Code) int {
	switch code {
	case store.CodePermission:
		return http.StatusForbidden
	case store.CodeNotFound:
		return http.StatusNotFound
	case store.CodeInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}
