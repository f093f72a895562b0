package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/spectrosystems/student-management-api/internal/api/metrics"
	"github.com/spectrosystems/student-management-api/internal/core/domain"
	"github.com/spectrosystems/student-management-api/internal/core/ports"
)

// StudentHandler handles HTTP requests for student records.
type StudentHandler struct {
	service ports.StudentService
}

func NewStudentHandler(service ports.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// List handles GET /api/students.
//
// @Summary      List students
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   studentResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/students [get]
func (h *StudentHandler) List(c echo.Context) error {
	items, err := h.service.ListStudents(c.Request().Context())
	record("list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStudentListResponse(items))
}

// Get handles GET /api/students/:id.
//
// @Summary      Get a student
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Student id"
// @Success      200  {object}  studentResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/students/{id} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}

	st, err := h.service.GetStudent(c.Request().Context(), id)
	record("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStudentResponse(st))
}

// Create handles POST /api/students.
//
// @Summary      Create a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      studentRequest  true  "Student"
// @Success      201   {object}  studentResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  errorResponse
// @Router       /api/students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		record("create", err)
		return err
	}

	st, err := h.service.CreateStudent(c.Request().Context(), toStudentInput(req))
	record("create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toStudentResponse(st))
}

// Update handles PUT /api/students/:id.
//
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Student id"
// @Param        body  body      studentRequest  true  "Student"
// @Success      200   {object}  studentResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/students/{id} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}

	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		record("update", err)
		return err
	}

	st, err := h.service.UpdateStudent(c.Request().Context(), id, toStudentInput(req))
	record("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStudentResponse(st))
}

// Delete handles DELETE /api/students/:id.
//
// @Summary      Delete a student
// @Tags         students
// @Security     BearerAuth
// @Param        id   path  int  true  "Student id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}

	err = h.service.DeleteStudent(c.Request().Context(), id)
	record("delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// studentID reads the :id path parameter. Bind is avoided here because it
// would also bind id from the body.
func studentID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid student id")
	}
	return id, nil
}

func record(operation string, err error) {
	var ve *domain.ValidationError
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStudentNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrDuplicateEmail):
		result = "conflict"
	case errors.As(err, &ve):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.StudentOperationsTotal.WithLabelValues(operation, result).Inc()
}
