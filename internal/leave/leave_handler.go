package leave

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	leaveerrors "markpedia-os/internal/leave/errors"
	"markpedia-os/internal/shared/apperror"
	"markpedia-os/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const legacyHRApproveWarning = `299 - "positional hr-approve arguments are deprecated, send a JSON object"`

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

// getActor builds the workflow actor from the claims set by AuthMiddleware.
func getActor(c *gin.Context) Actor {
	id, err := uuid.Parse(getActorID(c))
	if err != nil {
		id = uuid.Nil
	}
	return Actor{ID: id, Role: ParseRole(c.GetString("role"))}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, op string, err error) {
	h.logger.Warn("http "+op+" leave validation failed", zap.Error(err))
	mapped := apperror.MapValidationError(err)
	response.Error(c, mapped.HTTPStatus, mapped.Code, mapped.Message, err.Error())
}

// bindOptionalJSON binds a body that may be omitted entirely. An empty body
// still runs the struct validation.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return binding.Validator.ValidateStruct(obj)
	}
	return c.ShouldBindJSON(obj)
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	actor := getActor(c)
	h.logger.Debug("http create leave", zap.String("company_id", companyID), zap.String("actor_id", actor.ID.String()))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "create", err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	companyID := c.GetString("company_id")

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	filter := ListLeaveFilter{
		Skip:         skip,
		Limit:        limit,
		EmployeeID:   c.Query("employee_id"),
		DepartmentID: c.Query("department_id"),
		LeaveType:    c.Query("leave_type"),
		Status:       c.Query("status"),
		From:         c.Query("from"),
		To:           c.Query("to"),
		Search:       c.Query("search"),
	}

	resp, total, err := h.service.List(c.Request.Context(), companyID, getActor(c), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	meta := response.NewOffsetMeta(total, skip, limit)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "update", err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), companyID, getActor(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ManagerApprove(c *gin.Context) {
	var req ManagerApproveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeBindError(c, "manager approve", err)
		return
	}

	resp, err := h.service.ManagerApprove(c.Request.Context(), c.GetString("company_id"), getActor(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// HRApprove accepts the structured object body. A JSON array body is the
// deprecated positional form [hrId, ...] and goes through
// NormalizeHRApproveArgs with the path id prepended.
func (h *Handler) HRApprove(c *gin.Context) {
	id := c.Param("id")

	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			h.writeBindError(c, "hr approve", err)
			return
		}
	}
	trimmed := bytes.TrimSpace(body)

	var req HRApproveRequest
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		legacy, err := h.decodeLegacyHRApprove(c, id, trimmed)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		req = legacy
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			h.writeBindError(c, "hr approve", err)
			return
		}
	case len(trimmed) > 0:
		if err := binding.JSON.BindBody(trimmed, &req); err != nil {
			h.writeBindError(c, "hr approve", err)
			return
		}
	default:
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			h.writeBindError(c, "hr approve", err)
			return
		}
	}

	resp, err := h.service.HRApprove(c.Request.Context(), c.GetString("company_id"), getActor(c), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) decodeLegacyHRApprove(c *gin.Context, id string, body []byte) (HRApproveRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var positional []any
	if err := dec.Decode(&positional); err != nil {
		return HRApproveRequest{}, leaveerrors.ErrInvalidLegacyArguments.WithDetails(map[string]string{"reason": err.Error()})
	}

	payload, err := NormalizeHRApproveArgs(append([]any{id}, positional...)...)
	if err != nil {
		return HRApproveRequest{}, err
	}

	h.logger.Warn("deprecated positional hr-approve call normalized",
		zap.String("leave_id", id),
		zap.Int("arg_count", len(positional)+1),
		zap.Bool("has_remarks", payload.Remarks != nil),
		zap.Bool("has_balance_before", payload.BalanceBefore != nil),
		zap.Bool("has_balance_after", payload.BalanceAfter != nil),
		zap.String("user_agent", c.Request.UserAgent()),
	)
	c.Header("Deprecation", "true")
	c.Header("Warning", legacyHRApproveWarning)

	return payload.ToRequest(), nil
}

func (h *Handler) CEOApprove(c *gin.Context) {
	var req CEOApproveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeBindError(c, "ceo approve", err)
		return
	}

	resp, err := h.service.CEOApprove(c.Request.Context(), c.GetString("company_id"), getActor(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "reject", err)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), c.GetString("company_id"), getActor(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	var req CancelLeaveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeBindError(c, "cancel", err)
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), c.GetString("company_id"), getActor(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Complete(c *gin.Context) {
	var req CompleteLeaveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeBindError(c, "complete", err)
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), c.GetString("company_id"), getActor(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Overlapping(c *gin.Context) {
	resp, err := h.service.FindOverlaps(
		c.Request.Context(),
		c.GetString("company_id"),
		getActor(c),
		c.Param("employee_id"),
		c.Query("start"),
		c.Query("end"),
		c.Query("exclude"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), c.GetString("company_id"), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
