package requests

import (
	"net/http"
	"strconv"

	"github.com/Ankitshrma25/IMS/pkg/apperrors"
	"github.com/Ankitshrma25/IMS/pkg/auditlog"
	"github.com/Ankitshrma25/IMS/pkg/models"
	"github.com/Ankitshrma25/IMS/pkg/roles"

	"github.com/gin-gonic/gin"
)

// WorkflowService is the handler-facing surface of the request engine.
type WorkflowService interface {
	Create(input CreateRequestInput) (*models.Request, error)
	Get(requestID int) (*models.Request, error)
	List(filter ListFilter) ([]models.Request, error)
	PerformAction(requestID int, input ActionInput) (*models.Request, error)
}

type RequestHandler struct {
	Service  WorkflowService
	AuditLog *auditlog.Auditlog
}

func RegisterRoutes(router gin.IRoutes, s WorkflowService, a *auditlog.Auditlog) {
	handler := RequestHandler{
		Service:  s,
		AuditLog: a,
	}

	router.GET("/requests", handler.ListRequests)
	router.POST("/requests", handler.CreateRequest)
	router.GET("/requests/:id", handler.GetRequest)
	router.POST("/requests/:id/actions", handler.PerformAction)
}

type createRequestPayload struct {
	RequesterName    string             `json:"requester_name" binding:"required"`
	RequesterSection string             `json:"requester_section" binding:"required"`
	RequesterRank    string             `json:"requester_rank"`
	Items            []RequestItemInput `json:"items" binding:"required"`
	Priority         string             `json:"priority"`
	Notes            string             `json:"notes"`
	SourceLocation   string             `json:"source_location"`
}

type actionPayload struct {
	Action        string `json:"action" binding:"required"`
	Notes         string `json:"notes"`
	AllocatedFrom string `json:"allocated_from"`
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var payload createRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, _, _ := actorFromContext(c)

	request, err := h.Service.Create(CreateRequestInput{
		RequesterID:      actorID,
		RequesterName:    payload.RequesterName,
		RequesterSection: payload.RequesterSection,
		RequesterRank:    payload.RequesterRank,
		Items:            payload.Items,
		Priority:         models.Priority(payload.Priority),
		Notes:            payload.Notes,
		SourceLocation:   models.Location(payload.SourceLocation),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	go h.AuditLog.Log("request_created", map[string]interface{}{
		"request_number": request.RequestNumber,
		"requester_id":   request.RequesterID,
		"total_cost":     request.TotalCost,
		"line_items":     len(request.Items),
	}, request)

	c.JSON(http.StatusCreated, request)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	request, err := h.Service.Get(requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) ListRequests(c *gin.Context) {
	filter := ListFilter{
		Status:   models.RequestStatus(c.Query("status")),
		Section:  c.Query("section"),
		Priority: models.Priority(c.Query("priority")),
		Location: models.Location(c.Query("location")),
	}

	requests, err := h.Service.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) PerformAction(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var payload actionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, actorRole, actorName := actorFromContext(c)

	request, err := h.Service.PerformAction(requestID, ActionInput{
		Action:        Action(payload.Action),
		PerformedBy:   actorID,
		PerformerName: actorName,
		Role:          actorRole,
		Notes:         payload.Notes,
		AllocatedFrom: models.Location(payload.AllocatedFrom),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	go h.AuditLog.Log("request_"+payload.Action, map[string]interface{}{
		"request_number": request.RequestNumber,
		"status":         request.Status,
		"performed_by":   actorID,
	}, request)

	c.JSON(http.StatusOK, request)
}

func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error", "details": err.Error()})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// actorFromContext reads the JWT claims the auth middleware stored.
func actorFromContext(c *gin.Context) (int, roles.Role, string) {
	var (
		actorID   int
		actorRole roles.Role
		actorName string
	)

	if value, exists := c.Get("userID"); exists {
		if s, ok := value.(string); ok {
			actorID, _ = strconv.Atoi(s)
		}
	}
	if value, exists := c.Get("role"); exists {
		if s, ok := value.(string); ok {
			actorRole = roles.Role(s)
		}
	}
	if value, exists := c.Get("username"); exists {
		if s, ok := value.(string); ok {
			actorName = s
		}
	}

	return actorID, actorRole, actorName
}
