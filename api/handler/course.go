package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/pkg/httpcontext"
	courseUC "github.com/fastygo/clubportal/usecase/course"
)

type CourseHandler struct {
	baseHandler
	uc *courseUC.UseCase
}

func NewCourseHandler(uc *courseUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Course catalog
// @Tags courses
// @Router /api/courses [get]
func (h *CourseHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	courses, err := h.uc.ListCourses(stdCtx, caller)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, courses)
}

// @Summary Course details
// @Tags courses
// @Router /api/courses/{id} [get]
func (h *CourseHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	course, err := h.uc.GetCourse(stdCtx, caller, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, course)
}

// @Summary Lessons of a course
// @Tags courses
// @Router /api/courses/{id}/modules [get]
func (h *CourseHandler) Modules(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	modules, err := h.uc.ListModules(stdCtx, caller, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, modules)
}

// @Summary One lesson
// @Tags courses
// @Router /api/modules/{id} [get]
func (h *CourseHandler) Module(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	module, err := h.uc.GetModule(stdCtx, caller, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, module)
}

// @Summary Create a course
// @Tags admin
// @Router /api/admin/courses [post]
func (h *CourseHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CourseRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	course, err := h.uc.CreateCourse(stdCtx, caller, courseInput(req))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, course)
}

// @Summary Update a course
// @Tags admin
// @Router /api/admin/courses/{id} [put]
func (h *CourseHandler) Update(ctx *fasthttp.RequestCtx) {
	var req transport.CourseRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	course, err := h.uc.UpdateCourse(stdCtx, caller, pathParam(ctx, "id"), courseInput(req))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, course)
}

// @Summary Archive a course
// @Tags admin
// @Router /api/admin/courses/{id}/archive [patch]
func (h *CourseHandler) Archive(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	id := pathParam(ctx, "id")
	if err := h.uc.ArchiveCourse(stdCtx, caller, id); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"id": id})
}

// @Summary Create a module
// @Tags admin
// @Router /api/admin/modules [post]
func (h *CourseHandler) CreateModule(ctx *fasthttp.RequestCtx) {
	var req transport.ModuleRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	module, err := h.uc.CreateModule(stdCtx, caller, moduleInput(req))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, module)
}

// @Summary Update a module
// @Tags admin
// @Router /api/admin/modules/{id} [put]
func (h *CourseHandler) UpdateModule(ctx *fasthttp.RequestCtx) {
	var req transport.ModuleRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	module, err := h.uc.UpdateModule(stdCtx, caller, pathParam(ctx, "id"), moduleInput(req))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, module)
}

// @Summary Archive a module
// @Tags admin
// @Router /api/admin/modules/{id}/archive [patch]
func (h *CourseHandler) ArchiveModule(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	id := pathParam(ctx, "id")
	if err := h.uc.ArchiveModule(stdCtx, caller, id); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"id": id})
}

// @Summary Reorder modules
// @Tags admin
// @Router /api/admin/modules/reorder [post]
func (h *CourseHandler) ReorderModules(ctx *fasthttp.RequestCtx) {
	var req transport.ReorderRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel, caller := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ReorderModules(stdCtx, caller, req.Items); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"updated": len(req.Items)})
}

func courseInput(req transport.CourseRequest) courseUC.CourseInput {
	return courseUC.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Outline:     req.Outline,
		CourseType:  domain.CourseType(req.CourseType),
		OrderNumber: req.OrderNumber,
	}
}

func moduleInput(req transport.ModuleRequest) courseUC.ModuleInput {
	return courseUC.ModuleInput{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Duration:    req.Duration,
		VideoLink:   req.VideoLink,
		PDFLink:     req.PDFLink,
		OrderNumber: req.OrderNumber,
	}
}
