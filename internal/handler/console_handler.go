package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/notify"
	"github.com/GTDGit/om_console/internal/resource"
	"github.com/GTDGit/om_console/internal/shell"
	"github.com/GTDGit/om_console/internal/utils"
)

// Editor is a page with a searchable, sortable list and a create/edit modal.
type Editor interface {
	OpenCreate() error
	OpenEdit(id int) error
	Patch(data []byte) error
	CloseModal()
	Submit(ctx context.Context) error
	Search(term string)
	SortBy(key string) (resource.Sort, error)
}

// Deleter is a page with a confirm-before-delete flow.
type Deleter interface {
	RequestDelete(id int) error
	CancelDelete()
	ConfirmDelete(ctx context.Context) error
}

// Exporter is a page that can download its records as CSV.
type Exporter interface {
	ExportCSV(w io.Writer) error
	ExportName(now time.Time) string
}

// Invoicer prints a receipt for one record.
type Invoicer interface {
	WriteInvoice(w io.Writer, id int) error
}

// MetricBoard is the dashboard's interactive surface.
type MetricBoard interface {
	SelectMetric(key string) error
	CloseLowStock()
	DismissLowStock()
}

// ToastSource exposes the toast currently on screen.
type ToastSource interface {
	Current() (notify.Toast, bool)
}

// ConsoleHandler drives the routed shell and its pages.
type ConsoleHandler struct {
	shell  *shell.Shell
	toasts ToastSource
}

// NewConsoleHandler constructs a ConsoleHandler.
func NewConsoleHandler(sh *shell.Shell, toasts ToastSource) *ConsoleHandler {
	return &ConsoleHandler{shell: sh, toasts: toasts}
}

// Layout handles GET /console
func (h *ConsoleHandler) Layout(c *gin.Context) {
	utils.SetTheme(c, h.shell.Theme())
	utils.Success(c, http.StatusOK, "Console layout", h.shell.Layout())
}

// Navigate handles POST /console/:page
func (h *ConsoleHandler) Navigate(c *gin.Context) {
	page, err := h.shell.Navigate(c.Request.Context(), c.Param("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Page loaded")
}

// GetPage handles GET /console/:page
func (h *ConsoleHandler) GetPage(c *gin.Context) {
	page, err := h.shell.Active(c.Param("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Page state")
}

// Refresh handles POST /console/:page/refresh
func (h *ConsoleHandler) Refresh(c *gin.Context) {
	page, err := h.shell.Active(c.Param("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := page.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Page refreshed")
}

// Search handles POST /console/:page/search
func (h *ConsoleHandler) Search(c *gin.Context) {
	var req struct {
		Term string `json:"term"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	page, editor, ok := h.editor(c)
	if !ok {
		return
	}
	editor.Search(req.Term)
	h.render(c, page, "Search applied")
}

// Sort handles POST /console/:page/sort
func (h *ConsoleHandler) Sort(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Sort key is required")
		return
	}
	page, editor, ok := h.editor(c)
	if !ok {
		return
	}
	if _, err := editor.SortBy(req.Key); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Sort applied")
}

// OpenModal handles POST /console/:page/modal
func (h *ConsoleHandler) OpenModal(c *gin.Context) {
	var req struct {
		Mode resource.Mode `json:"mode" binding:"required,oneof=create edit"`
		ID   int           `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Mode must be create or edit")
		return
	}
	page, editor, ok := h.editor(c)
	if !ok {
		return
	}
	var err error
	if req.Mode == resource.ModeEdit {
		err = editor.OpenEdit(req.ID)
	} else {
		err = editor.OpenCreate()
	}
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Modal opened")
}

// CloseModal handles DELETE /console/:page/modal
func (h *ConsoleHandler) CloseModal(c *gin.Context) {
	page, editor, ok := h.editor(c)
	if !ok {
		return
	}
	editor.CloseModal()
	h.render(c, page, "Modal closed")
}

// PatchForm handles PATCH /console/:page/form. The body is a partial form
// object; omitted fields keep their value.
func (h *ConsoleHandler) PatchForm(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || !jsonObject(raw) {
		utils.Error(c, 400, "INVALID_REQUEST", "Form body must be a JSON object")
		return
	}
	page, editor, ok := h.editor(c)
	if !ok {
		return
	}
	if err := editor.Patch(raw); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Form updated")
}

// Submit handles POST /console/:page/submit
func (h *ConsoleHandler) Submit(c *gin.Context) {
	page, editor, ok := h.editor(c)
	if !ok {
		return
	}
	if err := editor.Submit(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Saved")
}

// RequestDelete handles POST /console/:page/records/:id/delete
func (h *ConsoleHandler) RequestDelete(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	page, deleter, ok := h.deleter(c)
	if !ok {
		return
	}
	if err := deleter.RequestDelete(id); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Confirm deletion")
}

// ConfirmDelete handles POST /console/:page/delete/confirm
func (h *ConsoleHandler) ConfirmDelete(c *gin.Context) {
	page, deleter, ok := h.deleter(c)
	if !ok {
		return
	}
	if err := deleter.ConfirmDelete(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Deleted")
}

// CancelDelete handles DELETE /console/:page/delete
func (h *ConsoleHandler) CancelDelete(c *gin.Context) {
	page, deleter, ok := h.deleter(c)
	if !ok {
		return
	}
	deleter.CancelDelete()
	h.render(c, page, "Deletion cancelled")
}

// Export handles GET /console/:page/export
func (h *ConsoleHandler) Export(c *gin.Context) {
	page, err := h.shell.Active(c.Param("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	exporter, ok := page.(Exporter)
	if !ok {
		respondError(c, fmt.Errorf("%w: %s has no export", utils.ErrUnsupportedMode, page.Name()))
		return
	}

	var buf bytes.Buffer
	if err := exporter.ExportCSV(&buf); err != nil {
		log.Error().Err(err).Str("page", page.Name()).Msg("CSV export failed")
		utils.Error(c, 500, "EXPORT_FAILED", "Failed to build the CSV file")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exporter.ExportName(time.Now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Invoice handles GET /console/:page/invoice/:id
func (h *ConsoleHandler) Invoice(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	page, err := h.shell.Active(c.Param("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	invoicer, ok := page.(Invoicer)
	if !ok {
		respondError(c, fmt.Errorf("%w: %s has no invoices", utils.ErrUnsupportedMode, page.Name()))
		return
	}

	var buf bytes.Buffer
	if err := invoicer.WriteInvoice(&buf, id); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

// SelectMetric handles POST /console/:page/metric
func (h *ConsoleHandler) SelectMetric(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Metric key is required")
		return
	}
	page, board, ok := h.board(c)
	if !ok {
		return
	}
	if err := board.SelectMetric(req.Key); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, page, "Metric selected")
}

// CloseLowStock handles POST /console/:page/low-stock/close
func (h *ConsoleHandler) CloseLowStock(c *gin.Context) {
	page, board, ok := h.board(c)
	if !ok {
		return
	}
	board.CloseLowStock()
	h.render(c, page, "Alert closed")
}

// DismissLowStock handles POST /console/:page/low-stock/dismiss
func (h *ConsoleHandler) DismissLowStock(c *gin.Context) {
	page, board, ok := h.board(c)
	if !ok {
		return
	}
	board.DismissLowStock()
	h.render(c, page, "Alert dismissed")
}

func (h *ConsoleHandler) render(c *gin.Context, page shell.Page, message string) {
	utils.SetTheme(c, h.shell.Theme())
	if h.toasts != nil {
		if t, ok := h.toasts.Current(); ok {
			utils.SetToast(c, t.Message)
		}
	}
	var data any
	if page != nil {
		data = page.Snapshot()
	}
	utils.Success(c, http.StatusOK, message, data)
}

func (h *ConsoleHandler) editor(c *gin.Context) (shell.Page, Editor, bool) {
	page, err := h.shell.Active(c.Param("page"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	editor, ok := page.(Editor)
	if !ok {
		respondError(c, fmt.Errorf("%w: %s has no records to edit", utils.ErrUnsupportedMode, page.Name()))
		return nil, nil, false
	}
	return page, editor, true
}

func (h *ConsoleHandler) deleter(c *gin.Context) (shell.Page, Deleter, bool) {
	page, err := h.shell.Active(c.Param("page"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	deleter, ok := page.(Deleter)
	if !ok {
		respondError(c, fmt.Errorf("%w: %s has no records to delete", utils.ErrUnsupportedMode, page.Name()))
		return nil, nil, false
	}
	return page, deleter, true
}

func (h *ConsoleHandler) board(c *gin.Context) (shell.Page, MetricBoard, bool) {
	page, err := h.shell.Active(c.Param("page"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	board, ok := page.(MetricBoard)
	if !ok {
		respondError(c, fmt.Errorf("%w: %s has no metrics", utils.ErrUnsupportedMode, page.Name()))
		return nil, nil, false
	}
	return page, board, true
}

func recordID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_ID", "Record id must be a positive number")
		return 0, false
	}
	return id, true
}

func jsonObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 1 && raw[0] == '{' && json.Valid(raw)
}
