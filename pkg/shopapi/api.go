package shopapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/GTDGit/om_console/internal/models"
)

const (
	pathToken        = "/api/token/"
	pathTokenRefresh = "/api/token/refresh/"
	pathDashboard    = "/api/dashboard/"
	pathItems        = "/api/items/"
	pathRepairs      = "/api/repairs/"
	pathRepairParts  = "/api/repairs/parts/"
	pathSales        = "/api/sales/"
	pathDamaged      = "/api/damaged/"
)

func detailPath(collection string, id int) string {
	return fmt.Sprintf("%s%d/", collection, id)
}

// Login exchanges credentials for a token pair. It never carries an
// Authorization header and a 401 does not trigger OnUnauthorized.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.TokenPair, error) {
	var pair models.TokenPair
	if err := c.doRequest(ctx, http.MethodPost, pathToken, creds, &pair, false); err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, &APIError{Kind: KindServer, Status: http.StatusOK, Message: "token response carried no access token"}
	}
	return &pair, nil
}

// RefreshToken trades a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (*models.TokenPair, error) {
	var pair models.TokenPair
	body := map[string]string{"refresh": refresh}
	if err := c.doRequest(ctx, http.MethodPost, pathTokenRefresh, body, &pair, false); err != nil {
		return nil, err
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	return &pair, nil
}

// Dashboard fetches the aggregate snapshot.
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardSnapshot, error) {
	var snap models.DashboardSnapshot
	if err := c.Request(ctx, http.MethodGet, pathDashboard, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListItems lists inventory. ordering is passed through as ?ordering= when
// non-empty (e.g. "-created_at").
func (c *Client) ListItems(ctx context.Context, ordering string) ([]models.InventoryItem, error) {
	path := pathItems
	if ordering != "" {
		path += "?" + url.Values{"ordering": {ordering}}.Encode()
	}
	var items []models.InventoryItem
	if err := c.Request(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, p models.ItemPayload) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.Request(ctx, http.MethodPost, pathItems, p, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id int, p models.ItemPayload) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.Request(ctx, http.MethodPut, detailPath(pathItems, id), p, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int) error {
	return c.Request(ctx, http.MethodDelete, detailPath(pathItems, id), nil, nil)
}

// ListRepairs lists repair tickets with their consumed parts.
func (c *Client) ListRepairs(ctx context.Context) ([]models.RepairTicket, error) {
	var tickets []models.RepairTicket
	if err := c.Request(ctx, http.MethodGet, pathRepairs, nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) CreateRepair(ctx context.Context, p models.RepairPayload) (*models.RepairTicket, error) {
	var t models.RepairTicket
	if err := c.Request(ctx, http.MethodPost, pathRepairs, p, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateRepair(ctx context.Context, id int, p models.RepairPayload) (*models.RepairTicket, error) {
	var t models.RepairTicket
	if err := c.Request(ctx, http.MethodPut, detailPath(pathRepairs, id), p, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteRepair(ctx context.Context, id int) error {
	return c.Request(ctx, http.MethodDelete, detailPath(pathRepairs, id), nil, nil)
}

// AddRepairPart records an inventory item used by a ticket; the backend
// decrements stock.
func (c *Client) AddRepairPart(ctx context.Context, p models.RepairPartRequest) error {
	return c.Request(ctx, http.MethodPost, pathRepairParts, p, nil)
}

func (c *Client) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	var sales []models.SaleRecord
	if err := c.Request(ctx, http.MethodGet, pathSales, nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *Client) CreateSale(ctx context.Context, p models.SalePayload) (*models.SaleRecord, error) {
	var s models.SaleRecord
	if err := c.Request(ctx, http.MethodPost, pathSales, p, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateSale(ctx context.Context, id int, p models.SalePayload) (*models.SaleRecord, error) {
	var s models.SaleRecord
	if err := c.Request(ctx, http.MethodPut, detailPath(pathSales, id), p, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteSale(ctx context.Context, id int) error {
	return c.Request(ctx, http.MethodDelete, detailPath(pathSales, id), nil, nil)
}

func (c *Client) ListDamaged(ctx context.Context) ([]models.DamageReport, error) {
	var reports []models.DamageReport
	if err := c.Request(ctx, http.MethodGet, pathDamaged, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) CreateDamaged(ctx context.Context, p models.DamagePayload) (*models.DamageReport, error) {
	var r models.DamageReport
	if err := c.Request(ctx, http.MethodPost, pathDamaged, p, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UpdateDamaged(ctx context.Context, id int, p models.DamagePayload) (*models.DamageReport, error) {
	var r models.DamageReport
	if err := c.Request(ctx, http.MethodPut, detailPath(pathDamaged, id), p, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteDamaged(ctx context.Context, id int) error {
	return c.Request(ctx, http.MethodDelete, detailPath(pathDamaged, id), nil, nil)
}
