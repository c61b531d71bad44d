package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/employee-records-api/internal/adapters/export"
	"github.com/ogurasousui/employee-records-api/internal/core/employee"
)

// EmployeeHandler は /api/employees の REST 実装です。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// Register はルーティングを登録します。
func (h *EmployeeHandler) Register(e *echo.Echo) {
	g := e.Group("/api/employees")
	g.POST("", h.CreateEmployee)
	g.GET("", h.ListEmployees)
	g.GET("/search", h.SearchEmployee)
	g.GET("/export", h.ExportEmployees)
	g.GET("/:id", h.GetEmployee)
	g.PUT("/:id", h.UpdateEmployee)
	g.DELETE("/:id", h.DeleteEmployee)
}

// CreateEmployee は社員を作成し 201 を返します。
func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
	}

	created, err := h.svc.CreateEmployee(c.Request().Context(), employee.CreateEmployeeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

// ListEmployees は全社員を返します。
func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	employees, err := h.svc.ListEmployees(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toEmployeeResponses(employees))
}

// GetEmployee は社員を返します。存在しない場合は空ボディの 404 です。
func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	found, ok, err := h.svc.GetEmployeeByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, toEmployeeResponse(found))
}

// UpdateEmployee は既存社員の姓名・メールアドレスをリクエストの値で置き換えます。
// 存在確認はここで行い、存在しない場合は空ボディの 404 を返します。
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	existing, ok, err := h.svc.GetEmployeeByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}

	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Email = req.Email

	updated, err := h.svc.UpdateEmployee(ctx, existing)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

// DeleteEmployee は社員を削除し 204 を返します。存在しない ID でも 204 です。
func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.svc.DeleteEmployee(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SearchEmployee は firstName / lastName が完全一致する社員を 1 件返します。
func (h *EmployeeHandler) SearchEmployee(c echo.Context) error {
	found, err := h.svc.FindEmployeeByName(c.Request().Context(), c.QueryParam("firstName"), c.QueryParam("lastName"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toEmployeeResponse(found))
}

// ExportEmployees は社員名簿を CSV または XLSX の添付ファイルとして返します。
func (h *EmployeeHandler) ExportEmployees(c echo.Context) error {
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return respondError(c, err)
	}

	employees, err := h.svc.ListEmployees(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, employees); err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, format.FileName("employees")))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q: %w", c.Param("id"), employee.ErrInvalidID)
	}
	return id, nil
}
