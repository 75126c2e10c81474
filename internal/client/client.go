// Package client is a Go client of the propmaint HTTP API, used by the
// command line tool and by anything else that drives the panels remotely.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/propmaint/backend/internal/buildings"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/schedule"
)

// Client talks to /api/v1. The session cookie set by Login is kept in the
// client's cookie jar.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with a cookie jar and sane defaults.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	timeout := 15 * time.Second
	return &Client{
		BaseURL:    baseURL,
		Timeout:    timeout,
		HTTPClient: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type loginResponse struct {
	Role models.Role `json:"role"`
}

// Login opens a panel session. panel is "admin" for technicians or
// "gestion" for managers.
func (c *Client) Login(ctx context.Context, password, panel string) (models.Role, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "auth", map[string]string{"password": password, "panel": panel}, &resp)
	return resp.Role, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "auth", nil, nil)
}

func (c *Client) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	var resp []models.Incident
	err := c.do(ctx, http.MethodGet, "incidencias", nil, &resp)
	return resp, err
}

func (c *Client) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	var resp models.Incident
	if err := c.do(ctx, http.MethodGet, "incidencias/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateIncident submits the public report form.
func (c *Client) CreateIncident(ctx context.Context, in models.IncidentInput) (*models.Incident, error) {
	var resp models.Incident
	if err := c.do(ctx, http.MethodPost, "incidencias", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateIncident(ctx context.Context, id string, u models.IncidentUpdate) (*models.Incident, error) {
	var resp models.Incident
	if err := c.do(ctx, http.MethodPatch, "incidencias/"+url.PathEscape(id), u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListMaintenance lists tasks; a non-zero filter returns the agenda order.
func (c *Client) ListMaintenance(ctx context.Context, f schedule.Filter) ([]models.MaintenanceTask, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("estado", string(f.Status))
	}
	if f.Type != "" {
		q.Set("tipo", f.Type)
	}
	if f.OverdueOnly {
		q.Set("vencidas", strconv.FormatBool(true))
	}
	endpoint := "mantenimiento"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp []models.MaintenanceTask
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) GetMaintenance(ctx context.Context, id string) (*models.MaintenanceTask, error) {
	var resp models.MaintenanceTask
	if err := c.do(ctx, http.MethodGet, "mantenimiento/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateMaintenance applies a partial update. Its signature matches
// reconcile.Persister so a Tracker can write through the API.
func (c *Client) UpdateMaintenance(ctx context.Context, id string, u models.MaintenanceUpdate) (*models.MaintenanceTask, error) {
	var resp models.MaintenanceTask
	if err := c.do(ctx, http.MethodPatch, "mantenimiento/"+url.PathEscape(id), u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update lets the client serve directly as a reconcile.Persister.
func (c *Client) Update(ctx context.Context, id string, u models.MaintenanceUpdate) (*models.MaintenanceTask, error) {
	return c.UpdateMaintenance(ctx, id, u)
}

// CompleteMaintenance closes the task's current cycle on the server, which
// also advances its next scheduled date.
func (c *Client) CompleteMaintenance(ctx context.Context, id, notes string, photos []string) (*models.MaintenanceTask, error) {
	body := map[string]any{
		"action":         "completar",
		"notasEjecucion": notes,
		"fotos":          photos,
	}
	var resp models.MaintenanceTask
	if err := c.do(ctx, http.MethodPatch, "mantenimiento/"+url.PathEscape(id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MaintenanceStats(ctx context.Context) (schedule.Stats, error) {
	var resp schedule.Stats
	err := c.do(ctx, http.MethodGet, "mantenimiento/stats", nil, &resp)
	return resp, err
}

// ReportTaskIncident files an incident for one apartment of a task's
// building.
func (c *Client) ReportTaskIncident(ctx context.Context, taskID, apartment, description string, urgency models.Urgency) (*models.Incident, error) {
	body := map[string]any{
		"apartamento": apartment,
		"descripcion": description,
	}
	if urgency != "" {
		body["urgencia"] = urgency
	}
	var resp models.Incident
	if err := c.do(ctx, http.MethodPost, "mantenimiento/"+url.PathEscape(taskID)+"/incidencias", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ResolveBuilding(ctx context.Context, name string) (*buildings.Entry, error) {
	var resp buildings.Entry
	if err := c.do(ctx, http.MethodGet, "edificios/resolve?nombre="+url.QueryEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends a photo or invoice and returns its public URL.
func (c *Client) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("upload"), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var resp uploadResponse
	if err := c.send(req, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: c.Timeout}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// errorMessage extracts the "error" field of an API error body, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) url(endpoint string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/api/v1/" + strings.TrimLeft(endpoint, "/")
}
