package resource

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/pkg"
	"github.com/simp-lee/parkadmin/internal/processing"
)

// APIHandler handles REST API requests for one resource.
type APIHandler[T datatable.Row, F any] struct {
	def  *Definition[T, F]
	svc  *Service[T]
	busy *processing.Set
	deps Deps
}

func newAPIHandler[T datatable.Row, F any](def *Definition[T, F], svc *Service[T], busy *processing.Set, deps Deps) *APIHandler[T, F] {
	return &APIHandler[T, F]{def: def, svc: svc, busy: busy, deps: deps}
}

// Create handles POST /api/v1/<resource>.
func (h *APIHandler[T, F]) Create(c *gin.Context) {
	var form F
	if !pkg.BindAndValidate(c, &form) {
		return
	}

	ctx := c.Request.Context()
	entity := new(T)
	err := h.def.Apply(ctx, &form, entity)
	if err == nil {
		err = h.svc.Create(ctx, entity)
	}
	h.deps.Metrics.Mutation(h.def.Name, "create", err)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    entity,
	})
}

// Get handles GET /api/v1/<resource>/:id.
func (h *APIHandler[T, F]) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	entity, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, entity)
}

// List handles GET /api/v1/<resource>. The response data is the page-prop
// contract: data, links, from, to, total, current_page, last_page, per_page.
func (h *APIHandler[T, F]) List(c *gin.Context) {
	query := c.Request.URL.Query()
	req := pkg.ParsePageRequest(c, h.deps.Page)
	state := datatable.ParseState(query)

	page, err := h.svc.List(c.Request.Context(), req, h.def.listScopes(state)...)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, pkg.WithLinks(page, c.Request.URL.Path, query))
}

// Update handles PUT /api/v1/<resource>/:id.
func (h *APIHandler[T, F]) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	var form F
	if !pkg.BindAndValidate(c, &form) {
		return
	}

	ctx := c.Request.Context()
	entity, err := h.svc.Update(ctx, id, func(entity *T) error {
		return h.def.Apply(ctx, &form, entity)
	})
	h.deps.Metrics.Mutation(h.def.Name, "update", err)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, entity)
}

// Delete handles DELETE /api/v1/<resource>/:id. A delete for a row that is
// already being mutated answers 409 without touching the store.
func (h *APIHandler[T, F]) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if !h.busy.TryBegin(id) {
		h.deps.Metrics.Rejected(h.def.Name, "delete")
		pkg.Error(c, domain.ErrBusy)
		return
	}
	defer h.busy.Done(id)

	err = h.svc.Delete(c.Request.Context(), id)
	h.deps.Metrics.Mutation(h.def.Name, "delete", err)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// Toggle handles PATCH /api/v1/<resource>/:id/toggle.
func (h *APIHandler[T, F]) Toggle(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if !h.busy.TryBegin(id) {
		h.deps.Metrics.Rejected(h.def.Name, "toggle")
		pkg.Error(c, domain.ErrBusy)
		return
	}
	defer h.busy.Done(id)

	entity, err := h.svc.Toggle(c.Request.Context(), id)
	h.deps.Metrics.Mutation(h.def.Name, "toggle", err)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, entity)
}
