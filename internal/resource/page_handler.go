package resource

import (
	"context"
	"log/slog"
	"maps"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/middleware"
	"github.com/simp-lee/parkadmin/internal/pkg"
	"github.com/simp-lee/parkadmin/internal/preference"
	"github.com/simp-lee/parkadmin/internal/processing"
)

const (
	listTemplate = "resource/list.html"
	formTemplate = "resource/form.html"
)

// PageHandler handles page rendering and htmx endpoints for one resource.
type PageHandler[T datatable.Row, F any] struct {
	def  *Definition[T, F]
	svc  *Service[T]
	busy *processing.Set
	deps Deps
}

func newPageHandler[T datatable.Row, F any](def *Definition[T, F], svc *Service[T], busy *processing.Set, deps Deps) *PageHandler[T, F] {
	return &PageHandler[T, F]{def: def, svc: svc, busy: busy, deps: deps}
}

// Processing exposes the row set gating destructive actions.
func (h *PageHandler[T, F]) Processing() *processing.Set { return h.busy }

// Layout returns the data every page layout needs: base, the CSRF token and
// the sidebar state restored from the request's preferences.
func Layout(c *gin.Context, base gin.H) gin.H {
	out := gin.H{}
	maps.Copy(out, base)
	out["CSRFToken"] = middleware.GetCSRFToken(c)
	out["SidebarOpen"] = preference.SidebarOpen(preference.Cookies(c))
	out["CurrentPath"] = c.Request.URL.Path
	return out
}

func (h *PageHandler[T, F]) view(c *gin.Context, data gin.H) gin.H {
	out := Layout(c, h.deps.PageData)
	out["Resource"] = h.def.Name
	maps.Copy(out, data)
	return out
}

// List renders the resource table.
// GET /<resource>
func (h *PageHandler[T, F]) List(c *gin.Context) {
	query := c.Request.URL.Query()
	req := pkg.ParsePageRequest(c, h.deps.Page)
	state := datatable.ParseState(query)

	page, err := h.svc.List(c.Request.Context(), req, h.def.listScopes(state)...)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "list page failed", "resource", h.def.Name, "error", err)
		c.HTML(http.StatusInternalServerError, "errors/500.html", h.view(c, gin.H{}))
		return
	}
	pkg.WithLinks(page, h.def.BasePath(), query)

	table := h.Table(page.Data, state)
	v := datatable.View[T]{
		ID:          h.def.Name + "-table",
		Table:       table,
		BaseURL:     h.def.BasePath(),
		Query:       query,
		CreateURL:   h.def.BasePath() + "/new",
		CreateLabel: "New " + h.def.Noun,
		Pagination:  datatable.PaginationOf(page),
	}
	html, err := v.HTML()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "render table failed", "resource", h.def.Name, "error", err)
		c.HTML(http.StatusInternalServerError, "errors/500.html", h.view(c, gin.H{}))
		return
	}

	data := gin.H{
		"Title":     h.def.Title,
		"Table":     html,
		"Page":      page,
		"CreateURL": v.CreateURL,
	}
	if h.def.ListData != nil {
		if err := h.def.ListData(c, page, data); err != nil {
			slog.ErrorContext(c.Request.Context(), "list data failed", "resource", h.def.Name, "error", err)
			c.HTML(http.StatusInternalServerError, "errors/500.html", h.view(c, gin.H{}))
			return
		}
	}

	name := listTemplate
	if h.def.ListTemplate != "" {
		name = h.def.ListTemplate
	}
	c.HTML(http.StatusOK, name, h.view(c, data))
}

// Table builds the data table for rows with the standard actions.
func (h *PageHandler[T, F]) Table(rows []T, state datatable.State) *datatable.Table[T] {
	return datatable.New(datatable.Config[T]{
		Columns:      h.def.Columns(h.rowActions()),
		Data:         rows,
		SearchKey:    h.def.SearchKey,
		Status:       h.def.statusFilter(),
		EmptyMessage: h.def.EmptyMessage,
	}, state)
}

func (h *PageHandler[T, F]) rowActions() datatable.RowActions {
	return datatable.RowActions{
		BasePath:   h.def.BasePath(),
		Noun:       h.def.Noun,
		Toggle:     h.def.Toggle,
		Processing: h.busy.Has,
	}
}

// New renders the empty create form.
// GET /<resource>/new
func (h *PageHandler[T, F]) New(c *gin.Context) {
	var form F
	if h.def.Defaults != nil {
		form = h.def.Defaults()
	}
	h.renderForm(c, http.StatusOK, 0, &form, nil, "")
}

// Edit renders the edit form.
// GET /<resource>/:id/edit
func (h *PageHandler[T, F]) Edit(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", h.view(c, gin.H{}))
		return
	}

	entity, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.renderLoadError(c, err)
		return
	}
	form := h.def.Form(entity)
	h.renderForm(c, http.StatusOK, id, &form, nil, "")
}

// Create handles creation via htmx form submission.
// POST /<resource>
func (h *PageHandler[T, F]) Create(c *gin.Context) {
	var form F
	if err := c.ShouldBind(&form); err != nil {
		slog.Debug("create "+h.def.Noun+": bind error", "error", err)
		h.renderBindError(c, 0, &form, err)
		return
	}

	out := Run(c.Request.Context(), h.def.SingularTitle()+" created successfully.", "Failed to create "+h.def.Noun+", please try again later.",
		func(ctx context.Context) error {
			entity := new(T)
			if err := h.def.Apply(ctx, &form, entity); err != nil {
				return err
			}
			return h.svc.Create(ctx, entity)
		})
	h.deps.Metrics.Mutation(h.def.Name, "create", out.Err)
	h.finishForm(c, 0, &form, out)
}

// Update handles updates via htmx form submission.
// PUT /<resource>/:id
func (h *PageHandler[T, F]) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", h.view(c, gin.H{}))
		return
	}

	var form F
	if err := c.ShouldBind(&form); err != nil {
		slog.Debug("update "+h.def.Noun+": bind error", "error", err, "id", id)
		h.renderBindError(c, id, &form, err)
		return
	}

	out := Run(c.Request.Context(), h.def.SingularTitle()+" updated successfully.", "Failed to update "+h.def.Noun+", please try again later.",
		func(ctx context.Context) error {
			_, err := h.svc.Update(ctx, id, func(entity *T) error {
				return h.def.Apply(ctx, &form, entity)
			})
			return err
		})
	h.deps.Metrics.Mutation(h.def.Name, "update", out.Err)
	if domain.IsNotFound(out.Err) {
		c.HTML(http.StatusNotFound, "errors/404.html", h.view(c, gin.H{}))
		return
	}
	h.finishForm(c, id, &form, out)
}

// Delete handles deletion via htmx. A second delete of a row whose first
// delete is still running is inert.
// DELETE /<resource>/:id
func (h *PageHandler[T, F]) Delete(c *gin.Context) {
	h.mutateRow(c, "delete", func(ctx context.Context, id uint) Outcome {
		out := Run(ctx, h.def.SingularTitle()+" deleted successfully.", "Delete failed, please try again later.",
			func(ctx context.Context) error { return h.svc.Delete(ctx, id) })
		if domain.IsNotFound(out.Err) {
			out.Message = h.def.SingularTitle() + " does not exist or was already deleted."
		}
		return out
	}, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

// Toggle flips the status of a row via htmx and reloads the list.
// PATCH /<resource>/:id/toggle
func (h *PageHandler[T, F]) Toggle(c *gin.Context) {
	h.mutateRow(c, "toggle", func(ctx context.Context, id uint) Outcome {
		return Run(ctx, h.def.SingularTitle()+" status updated.", "Status change failed, please try again later.",
			func(ctx context.Context) error {
				_, err := h.svc.Toggle(ctx, id)
				return err
			})
	}, func(c *gin.Context) {
		pkg.HXRefresh(c)
		c.Status(http.StatusOK)
	})
}

// mutateRow runs op for the :id row at most once at a time. Failures and
// rejected duplicates leave the row in place.
func (h *PageHandler[T, F]) mutateRow(c *gin.Context, op string, run func(ctx context.Context, id uint) Outcome, success func(c *gin.Context)) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		pkg.HXNoSwap(c)
		pkg.ShowToast(c, "Invalid "+h.def.Noun+" id.", pkg.ToastError)
		c.Status(http.StatusOK)
		return
	}

	if !h.busy.TryBegin(id) {
		h.deps.Metrics.Rejected(h.def.Name, op)
		pkg.HXNoSwap(c)
		pkg.ShowToast(c, domain.ErrBusy.Message, pkg.ToastInfo)
		c.Status(http.StatusOK)
		return
	}
	defer h.busy.Done(id)

	out := run(c.Request.Context(), id)
	h.deps.Metrics.Mutation(h.def.Name, op, out.Err)
	pkg.ShowToast(c, out.Message, out.Kind)
	if !out.OK() {
		pkg.HXNoSwap(c)
		c.Status(http.StatusOK)
		return
	}
	success(c)
}

func (h *PageHandler[T, F]) finishForm(c *gin.Context, id uint, form *F, out Outcome) {
	pkg.ShowToast(c, out.Message, out.Kind)
	if !out.OK() {
		h.renderForm(c, http.StatusOK, id, form, out.FieldErrors, out.Message)
		return
	}
	pkg.HXRedirect(c, h.def.BasePath())
	c.Status(http.StatusOK)
}

func (h *PageHandler[T, F]) renderBindError(c *gin.Context, id uint, form *F, err error) {
	errs, ok := pkg.FieldMessages(err, form)
	msg := "Please check the highlighted fields."
	if !ok {
		msg = "Please check the input format."
	}
	pkg.ShowToast(c, msg, pkg.ToastError)
	h.renderForm(c, http.StatusOK, id, form, errs, msg)
}

func (h *PageHandler[T, F]) renderForm(c *gin.Context, status int, id uint, form *F, errs map[string]string, message string) {
	fields, err := buildFields(c.Request.Context(), h.def.Fields, form, errs, h.deps.Lookups, h.def.Lookups)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "build form failed", "resource", h.def.Name, "error", err)
		c.HTML(http.StatusInternalServerError, "errors/500.html", h.view(c, gin.H{}))
		return
	}

	data := gin.H{
		"Fields":    fields,
		"Error":     message,
		"CancelURL": h.def.BasePath(),
		"IsEdit":    id != 0,
	}
	if id != 0 {
		data["Title"] = "Edit " + h.def.Noun
		data["Action"] = h.def.BasePath() + "/" + formatID(id)
		data["Method"] = "put"
	} else {
		data["Title"] = "New " + h.def.Noun
		data["Action"] = h.def.BasePath()
		data["Method"] = "post"
	}
	c.HTML(status, formTemplate, h.view(c, data))
}

func (h *PageHandler[T, F]) renderLoadError(c *gin.Context, err error) {
	if domain.IsNotFound(err) {
		c.HTML(http.StatusNotFound, "errors/404.html", h.view(c, gin.H{}))
		return
	}
	slog.ErrorContext(c.Request.Context(), "load "+h.def.Noun+" failed", "error", err)
	c.HTML(http.StatusInternalServerError, "errors/500.html", h.view(c, gin.H{}))
}
