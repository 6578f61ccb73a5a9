package api

import (
	"errors"
	"net/http"
	"time"

	models "DestinyMap/internal/domain/models"
	"DestinyMap/internal/service/ratelimit"
	"DestinyMap/internal/usecase"
	xhttp "DestinyMap/pkg/http"
	xlogger "DestinyMap/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// DestinyEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type DestinyEchoHandler struct {
	logger  *xlogger.Logger
	orch    *usecase.Orchestrator
	audit   *usecase.AuditUseCase
	limiter *ratelimit.Limiter
}

func NewDestinyEchoHandler(logger *xlogger.Logger, orch *usecase.Orchestrator, audit *usecase.AuditUseCase) *DestinyEchoHandler {
	return &DestinyEchoHandler{
		logger:  logger,
		orch:    orch,
		audit:   audit,
		limiter: ratelimit.New(),
	}
}

func (h *DestinyEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/destiny", h.Compute)
	g.GET("/destiny/stream", h.Stream)
	g.GET("/audit", h.Audit)
	e.GET("/healthz", h.Health)
}

// rate limit: 10 requests burst, 2/s refill per client IP
const (
	rateCapacity = 10
	rateRefill   = 2
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (h *DestinyEchoHandler) Compute(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), rateCapacity, rateRefill) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
	}

	req := &models.DestinyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.orch.Compute(c.Request().Context(), req.ToBirthInput())
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return xhttp.BadRequestResponse(c, []*xhttp.AppError{
				xhttp.NewAppError("validation", verr.Field, verr.Reason, http.StatusBadRequest),
			})
		}
		h.logger.Error("destiny usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Stream upgrades to a websocket and pushes each section as soon as its
// calculator finishes, then the merged aggregate in a final "done" frame.
func (h *DestinyEchoHandler) Stream(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), rateCapacity, rateRefill) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
	}

	req := &models.DestinyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade error", xlogger.Error(err))
		return err
	}
	defer conn.Close()

	type frame struct {
		Section string      `json:"section"`
		Data    interface{} `json:"data,omitempty"`
	}

	res, err := h.orch.StreamCompute(c.Request().Context(), req.ToBirthInput(), func(name string, payload interface{}) {
		if werr := conn.WriteJSON(frame{Section: name, Data: payload}); werr != nil {
			h.logger.Warn("websocket write error", xlogger.Error(werr))
		}
	})
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			_ = conn.WriteJSON(frame{Section: "error", Data: verr.Error()})
		} else {
			h.logger.Error("destiny stream error", xlogger.Error(err))
			_ = conn.WriteJSON(frame{Section: "error", Data: "computation failed"})
		}
		return nil
	}

	_ = conn.WriteJSON(frame{Section: "done", Data: res})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return nil
}

func (h *DestinyEchoHandler) Audit(c echo.Context) error {
	req := &models.AuditRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	params := usecase.GetRecordsParams{Limit: req.Limit}
	if req.From != "" {
		t, ok := xhttp.ParseTime(req.From)
		if !ok {
			return xhttp.BadRequestResponse(c, []*xhttp.AppError{
				xhttp.NewAppError("validation", "from", "must be RFC3339 or unix seconds", http.StatusBadRequest),
			})
		}
		params.From = t
	}
	if req.To != "" {
		t, ok := xhttp.ParseTime(req.To)
		if !ok {
			return xhttp.BadRequestResponse(c, []*xhttp.AppError{
				xhttp.NewAppError("validation", "to", "must be RFC3339 or unix seconds", http.StatusBadRequest),
			})
		}
		params.To = t
	}

	res, err := h.audit.GetRecords(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("audit usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DestinyEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
